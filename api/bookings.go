package api

import (
	"encoding/json"
	"net/http"

	"booking-system/booking"
	"booking-system/reservation"

	"github.com/google/uuid"
)

const maxBookingBody = 16 << 10

type bookingResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"`
	SlotLabel string    `json:"slotLabel"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Message   string    `json:"message"`
}

func newBookingResponse(r *reservation.Reservation) bookingResponse {
	return bookingResponse{
		ID:        r.ID,
		FullName:  r.FullName,
		Email:     r.Email,
		Phone:     r.Phone,
		Date:      r.Date,
		SlotLabel: r.SlotLabel,
		Country:   r.Country,
		City:      r.City,
		Message:   r.Message,
	}
}

func (a *API) createBooking(w http.ResponseWriter, r *http.Request) {
	var req booking.Request

	body := http.MaxBytesReader(w, r.Body, maxBookingBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		a.badRequest(w, "invalid request body")
		return
	}

	res, err := a.bookings.CreateReservation(r.Context(), req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, newBookingResponse(res))
}
