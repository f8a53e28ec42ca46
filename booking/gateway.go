package booking

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"booking-system/reservation"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Results is one page of a reservation search.
type Results struct {
	Items []reservation.Reservation `json:"items"`
	Total int                       `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

func (c *Coordinator) SearchReservations(ctx context.Context, f reservation.Filter, page reservation.Page) (res *Results, err error) {
	ctx, span := c.tracer.Start(ctx, "booking.SearchReservations", trace.WithAttributes(
		attribute.Int("booking.page", page.Number),
		attribute.Int("booking.limit", page.Size),
	))
	defer func() { endSpan(span, err) }()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	items, total, err := c.ledger.Find(ctx, c.db, f, page)
	if err != nil {
		return nil, storageError(err)
	}
	return &Results{Items: items, Total: total, Page: page.Number, Limit: page.Size}, nil
}

// ExportReservations returns every matching reservation, newest first.
func (c *Coordinator) ExportReservations(ctx context.Context, f reservation.Filter) (items []reservation.Reservation, err error) {
	ctx, span := c.tracer.Start(ctx, "booking.ExportReservations")
	defer func() { endSpan(span, err) }()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	items, err = c.ledger.FindAll(ctx, c.db, f)
	if err != nil {
		return nil, storageError(err)
	}
	return items, nil
}

// Drift is a slot whose occupied counter disagrees with its reservations.
type Drift struct {
	SlotID   uuid.UUID `json:"slotId"`
	Label    string    `json:"label"`
	Occupied int       `json:"occupied"`
	Recorded int       `json:"recorded"`
}

// Reconcile compares each slot's occupied counter for date with the number of
// reservations referencing it. An empty result means the date is consistent.
func (c *Coordinator) Reconcile(ctx context.Context, date string) ([]Drift, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	slots, err := c.slots.ListSlots(ctx, c.db, date)
	if err != nil {
		return nil, storageError(err)
	}
	counts, err := c.slots.Reconcile(ctx, c.db, date)
	if err != nil {
		return nil, storageError(err)
	}

	drift := []Drift{}
	for _, s := range slots {
		if n := counts[s.ID]; n != s.Occupied {
			drift = append(drift, Drift{SlotID: s.ID, Label: s.Label, Occupied: s.Occupied, Recorded: n})
		}
	}
	return drift, nil
}

// CSVHeader is the first row of an export.
var CSVHeader = []string{"Full Name", "Email", "Phone", "Country", "Date", "Slot", "Message", "Created At"}

// WriteCSV writes reservations as CSV with a header row. Created At is
// RFC 3339 in UTC.
func WriteCSV(w io.Writer, items []reservation.Reservation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range items {
		row := []string{
			r.FullName,
			r.Email,
			r.Phone,
			r.Country,
			r.Date,
			r.SlotLabel,
			r.Message,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
