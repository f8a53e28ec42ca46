package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"booking-system/eligibility"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const slotColumns = `id, date, start_time, end_time, label, capacity, booked_count, created_at`

// admitColumns leaves out created_at: sqlite reports no declared type for
// RETURNING columns, so timestamps would come back as raw text.
const admitColumns = `id, date, start_time, end_time, label, capacity, booked_count`

// EnsureSlots inserts one slot per window unless a slot with the same date
// and start already exists. Concurrent callers race on the unique key and the
// loser's insert is a no-op.
func (a *Accessor) EnsureSlots(ctx context.Context, q sqlx.ExtContext, date string, windows []eligibility.Window) error {
	query := q.Rebind(`INSERT INTO slots (id, date, start_time, end_time, label, capacity, booked_count, created_at) VALUES (?, ?, ?, ?, ?, ?, 0, ?) ON CONFLICT (date, start_time) DO NOTHING`)

	now := a.now()
	for _, w := range windows {
		if _, err := q.ExecContext(ctx, query, uuid.New(), date, w.Start, w.End, w.Label, a.capacity, now); err != nil {
			return fmt.Errorf("ensure slot %s %s: %w", date, w.Start, err)
		}
	}
	return nil
}

// ListSlots returns the slots of a date ordered by start time.
func (a *Accessor) ListSlots(ctx context.Context, q sqlx.ExtContext, date string) ([]Slot, error) {
	query := q.Rebind(`SELECT ` + slotColumns + ` FROM slots WHERE date = ? ORDER BY start_time ASC`)

	slots := []Slot{}
	if err := sqlx.SelectContext(ctx, q, &slots, query, date); err != nil {
		return nil, fmt.Errorf("select slots: %w", err)
	}
	return slots, nil
}

func (a *Accessor) GetSlot(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*Slot, error) {
	query := q.Rebind(`SELECT ` + slotColumns + ` FROM slots WHERE id = ?`)

	var s Slot
	if err := sqlx.GetContext(ctx, q, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return &s, nil
}

// TryAdmit takes one unit of capacity from the slot in a single conditional
// update and returns the slot as it is after the increment. CreatedAt is not
// populated on the returned slot.
func (a *Accessor) TryAdmit(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*Slot, error) {
	query := q.Rebind(`UPDATE slots SET booked_count = booked_count + 1 WHERE id = ? AND booked_count < capacity RETURNING ` + admitColumns)

	var s Slot
	if err := sqlx.GetContext(ctx, q, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdmissionDenied
		}
		return nil, fmt.Errorf("admit slot: %w", err)
	}
	if s.Occupied > s.Capacity {
		return nil, fmt.Errorf("slot %s over capacity: %d/%d", s.ID, s.Occupied, s.Capacity)
	}
	return &s, nil
}

// Reconcile returns, for every slot of a date, how many reservations point at
// it. Used to audit that occupancy counters match the ledger.
func (a *Accessor) Reconcile(ctx context.Context, q sqlx.ExtContext, date string) (map[uuid.UUID]int, error) {
	query := q.Rebind(`SELECT s.id AS id, COUNT(r.id) AS reservations FROM slots s LEFT JOIN reservations r ON r.slot_id = s.id WHERE s.date = ? GROUP BY s.id`)

	var rows []struct {
		ID           uuid.UUID `db:"id"`
		Reservations int       `db:"reservations"`
	}
	if err := sqlx.SelectContext(ctx, q, &rows, query, date); err != nil {
		return nil, fmt.Errorf("reconcile slots: %w", err)
	}

	counts := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		counts[r.ID] = r.Reservations
	}
	return counts, nil
}
