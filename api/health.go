package api

import (
	"log"
	"net/http"
)

// health reports 503 while the store is unreachable.
func (a *API) health(w http.ResponseWriter, r *http.Request) {
	if err := a.bookings.Ping(r.Context()); err != nil {
		log.Printf("health: %v", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
