package api

import (
	"bytes"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"booking-system/booking"
	"booking-system/reservation"
)

const adminKeyHeader = "X-Admin-Key"

func (a *API) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(adminKeyHeader)
		if a.adminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(a.adminKey)) != 1 {
			a.Response(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHORIZED", Message: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) validateAdmin(w http.ResponseWriter, _ *http.Request) {
	a.Response(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) searchBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := reservation.NewPage(queryInt(q.Get("page")), queryInt(q.Get("limit")))

	res, err := a.bookings.SearchReservations(r.Context(), filterFrom(r), page)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, res)
}

func (a *API) exportBookings(w http.ResponseWriter, r *http.Request) {
	items, err := a.bookings.ExportReservations(r.Context(), filterFrom(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := booking.WriteCSV(&buf, items); err != nil {
		a.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func filterFrom(r *http.Request) reservation.Filter {
	q := r.URL.Query()
	return reservation.Filter{
		Name:    q.Get("name"),
		Phone:   q.Get("phone"),
		Date:    q.Get("date"),
		Country: q.Get("country"),
	}
}

// queryInt reads a positive integer, returning 0 for anything else so paging
// falls back to its defaults.
func queryInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
