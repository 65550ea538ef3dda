package augment

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/vtzproxy/vtzproxy/internal/rest"
	"github.com/vtzproxy/vtzproxy/pkg/calendar"
	"github.com/vtzproxy/vtzproxy/pkg/upstream"
	"github.com/vtzproxy/vtzproxy/pkg/vtimezone"
)

type Handler struct {
	service Service
	catalog *vtimezone.Catalog
}

func NewHandler(s Service, catalog *vtimezone.Catalog) *Handler {
	return &Handler{service: s, catalog: catalog}
}

// GetCalendar serves GET /q/{url}?timezones=a,b
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	source := mux.Vars(r)["url"]
	names := calendar.ParseTimezones(r.URL.Query().Get("timezones"))

	result, err := h.service.Augment(r.Context(), source, names)
	if err != nil {
		writeAugmentError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime.FormatMediaType("text/calendar", map[string]string{"charset": result.Charset}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Body); err != nil {
		log.Warnf("Failed to write calendar response: %v", err)
	}
}

// ListTimezones serves GET /timezones with the names known to the catalog.
func (h *Handler) ListTimezones(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.catalog.Names()); err != nil {
		log.Warnf("Failed to write timezone list: %v", err)
	}
}

func writeAugmentError(w http.ResponseWriter, err error) {
	var statusErr *upstream.StatusError

	switch {
	case errors.Is(err, ErrUnsupportedSource):
		rest.WriteError(w, http.StatusBadRequest, "Unsupported source", err.Error())
	case errors.Is(err, vtimezone.ErrUnknownTimezone):
		rest.WriteError(w, http.StatusBadRequest, "Unknown timezone", err.Error())
	case errors.As(err, &statusErr):
		status := statusErr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		rest.WriteError(w, status, "Upstream fetch failed", string(statusErr.Body))
	case errors.Is(err, upstream.ErrUpstreamFetchFailed):
		status := http.StatusBadGateway
		if isTimeout(err) {
			status = http.StatusGatewayTimeout
		}
		rest.WriteError(w, status, "Upstream fetch failed", err.Error())
	case errors.Is(err, upstream.ErrUnencodable):
		rest.WriteError(w, http.StatusUnprocessableEntity, "Timezone not representable", err.Error())
	case errors.Is(err, calendar.ErrMalformedDocument):
		rest.WriteError(w, http.StatusBadGateway, "Malformed calendar", err.Error())
	case errors.Is(err, vtimezone.ErrCatalogUnavailable):
		log.Error(err)
		rest.WriteError(w, http.StatusServiceUnavailable, "Timezone catalog unavailable", err.Error())
	default:
		log.Errorf("Failed to augment calendar: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
