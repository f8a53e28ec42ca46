// Package notify delivers post-commit booking notifications. The booking
// path only ever hands an Event to a Publisher; a Worker drains the queue and
// sends mail, so mail latency and failures never reach the requester.
package notify

import (
	"context"
	"errors"
	"time"

	"booking-system/reservation"
)

// ErrQueueFull is returned by Publish when the event cannot be queued
// without blocking.
var ErrQueueFull = errors.New("notification queue is full")

// Event is a committed reservation, carrying everything needed to resend the
// notification by hand.
type Event struct {
	ReservationID string    `json:"reservation_id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Country       string    `json:"country"`
	City          string    `json:"city"`
	Date          string    `json:"date"`
	SlotLabel     string    `json:"slot_label"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewEvent(r reservation.Reservation) Event {
	return Event{
		ReservationID: r.ID.String(),
		FullName:      r.FullName,
		Email:         r.Email,
		Phone:         r.Phone,
		Country:       r.Country,
		City:          r.City,
		Date:          r.Date,
		SlotLabel:     r.SlotLabel,
		Message:       r.Message,
		CreatedAt:     r.CreatedAt,
	}
}

// Publisher accepts events without blocking the caller.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Source yields queued events until ctx is done.
type Source interface {
	Next(ctx context.Context) (Event, error)
}
