package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"booking-system/api"
	"booking-system/booking"
	"booking-system/database"
	"booking-system/eligibility"
	"booking-system/notify"

	"github.com/stretchr/testify/require"
)

const adminKey = "s3cret"

func setupAPI(t *testing.T, opts ...api.Option) (*api.API, *notify.Queue) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(t.Context(), db))

	q := notify.NewQueue(32)
	c := booking.NewCoordinator(db, eligibility.Default(), q)
	a := api.NewAPI(c, append([]api.Option{api.WithAdminKey(adminKey)}, opts...)...)
	a.RegisterRoutes()
	return a, q
}

func do(t *testing.T, h http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) api.Response {
	t.Helper()
	var res api.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func asMap(t *testing.T, v any) map[string]any {
	t.Helper()
	m, ok := v.(map[string]any)
	require.True(t, ok, "expected object, got %T", v)
	return m
}

func adminHeader() http.Header {
	return http.Header{"X-Admin-Key": {adminKey}}
}

// slotIDs materializes date through the API and returns its slot ids.
func slotIDs(t *testing.T, a *api.API, date string) []string {
	t.Helper()
	rec := do(t, a.Router(), http.MethodGet, "/api/slots?date="+date, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items, ok := decode(t, rec).Response.([]any)
	require.True(t, ok)
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, asMap(t, it)["id"].(string))
	}
	return ids
}

func bookingBody(slotID, date string, n int) map[string]any {
	return map[string]any{
		"fullName": "Guest Number",
		"email":    fmt.Sprintf("guest%d@example.com", n),
		"phone":    "+918123456789",
		"country":  "IN",
		"city":     "Pune",
		"date":     date,
		"slotId":   slotID,
		"message":  "Looking forward",
	}
}
