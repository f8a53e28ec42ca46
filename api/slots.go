package api

import "net/http"

func (a *API) getSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := a.bookings.GetSlots(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, slots)
}
