package app

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Calendar augmentation
	r.HandleFunc("/q/{url:.+}", deps.AugmentHandler.GetCalendar).Methods("GET")

	// Timezone catalog
	r.HandleFunc("/timezones", deps.AugmentHandler.ListTimezones).Methods("GET")

	r.HandleFunc("/health", health).Methods("GET")
}

func health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
