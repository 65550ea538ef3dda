package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vtzproxy/vtzproxy/internal/config"
	"github.com/vtzproxy/vtzproxy/internal/test_utils"
	"github.com/vtzproxy/vtzproxy/pkg/upstream"
	"github.com/vtzproxy/vtzproxy/pkg/vtimezone"
)

func testConfig(t *testing.T, allowedPrefix string) config.Application {
	cfg := config.Defaults()
	cfg.Upstream.AllowedPrefix = allowedPrefix
	cfg.Catalog.Path = test_utils.WriteCatalog(t, map[string]string{
		"Pacific Standard Time": test_utils.PacificTimezone,
	})
	cfg.Catalog.Validate = true
	return cfg
}

func TestApplication_EndToEnd(t *testing.T) {
	// given
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/owa/calendar/reachcalendar.ics":
			w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
			_, _ = w.Write([]byte(test_utils.OutlookCalendar))
		case "/owa/calendar/plain.ics":
			_, _ = w.Write([]byte(test_utils.CalendarWithoutTimezone))
		default:
			http.NotFound(w, r)
		}
	}))
	defer provider.Close()

	cfg := testConfig(t, provider.URL)
	application, err := New(cfg, upstream.NewClient(cfg.Upstream))
	require.NoError(t, err)
	handler := application.Handler()

	serve := func(target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	t.Run("should inject requested timezone ahead of existing ones", func(t *testing.T) {
		// when
		w := serve("/q/" + provider.URL + "/owa/calendar/reachcalendar.ics?timezones=Pacific%20Standard%20Time")

		// then
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

		header, remainder, found := strings.Cut(test_utils.OutlookCalendar, "BEGIN:VTIMEZONE")
		require.True(t, found)
		expected := header + test_utils.PacificTimezone + "\n" + "BEGIN:VTIMEZONE" + remainder
		assert.Equal(t, expected, w.Body.String())
	})

	t.Run("should insert blank line without timezones", func(t *testing.T) {
		w := serve("/q/" + provider.URL + "/owa/calendar/reachcalendar.ics")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, strings.Replace(test_utils.OutlookCalendar, "BEGIN:VTIMEZONE", "\nBEGIN:VTIMEZONE", 1), w.Body.String())
	})

	t.Run("should reject unknown timezone", func(t *testing.T) {
		w := serve("/q/" + provider.URL + "/owa/calendar/reachcalendar.ics?timezones=Mars")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Mars")
	})

	t.Run("should report calendar without timezones as malformed", func(t *testing.T) {
		w := serve("/q/" + provider.URL + "/owa/calendar/plain.ics")

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("should mirror provider status", func(t *testing.T) {
		w := serve("/q/" + provider.URL + "/owa/calendar/missing.ics")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should reject foreign source", func(t *testing.T) {
		w := serve("/q/https://example.com/calendar.ics")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should list catalog timezones", func(t *testing.T) {
		w := serve("/timezones")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `["Pacific Standard Time"]`, w.Body.String())
	})

	t.Run("should answer health checks", func(t *testing.T) {
		w := serve("/health")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
	})
}

func TestApplication_RejectedSourceMakesNoUpstreamCall(t *testing.T) {
	// given
	fetcher := upstream.NewFetcherStub()
	application, err := New(testConfig(t, "https://outlook.office365.com"), fetcher)
	require.NoError(t, err)
	w := httptest.NewRecorder()

	// when
	application.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/q/https://evil.example.com/x.ics?timezones=Pacific%20Standard%20Time", nil))

	// then
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, fetcher.Calls())
}

func TestNew_FailsWithoutCatalog(t *testing.T) {
	cfg := config.Defaults()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.ndjson")

	_, err := New(cfg, upstream.NewFetcherStub())

	assert.ErrorIs(t, err, vtimezone.ErrCatalogUnavailable)
}

func TestNew_FailsOnInvalidCatalogEntry(t *testing.T) {
	cfg := config.Defaults()
	cfg.Catalog.Path = test_utils.WriteCatalog(t, map[string]string{"Broken": "BEGIN:VTIMEZONE\nEND:VTIMEZONE"})
	cfg.Catalog.Validate = true

	_, err := New(cfg, upstream.NewFetcherStub())

	assert.ErrorIs(t, err, vtimezone.ErrCatalogUnavailable)
}
