package reservation

import (
	"context"
	"fmt"
	"strings"

	"booking-system/database"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const reservationColumns = `id, full_name, email, phone, country, city, date, slot_id, slot_label, message, created_at`

// Record inserts a reservation. The (email, slot_id) unique constraint is the
// only duplicate check; a violation comes back as ErrDuplicate.
func (a *Accessor) Record(ctx context.Context, q sqlx.ExtContext, r Reservation) (*Reservation, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	r.ID = uuid.New()
	r.CreatedAt = a.now()

	query := q.Rebind(`INSERT INTO reservations (` + reservationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query,
		r.ID, r.FullName, r.Email, r.Phone, r.Country, r.City, r.Date, r.SlotID, r.SlotLabel, r.Message, r.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("exec context: %w", err)
	}

	return &r, nil
}

// Find returns one page of matching reservations, newest first, and the
// number of matches across all pages.
func (a *Accessor) Find(ctx context.Context, q sqlx.ExtContext, f Filter, page Page) ([]Reservation, int, error) {
	where, args := f.where()

	var total int
	countQuery := q.Rebind(`SELECT COUNT(*) FROM reservations` + where)
	if err := sqlx.GetContext(ctx, q, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	items := []Reservation{}
	if total == 0 {
		return items, 0, nil
	}

	selectQuery := q.Rebind(`SELECT ` + reservationColumns + ` FROM reservations` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)
	args = append(args, page.Size, page.Offset())
	if err := sqlx.SelectContext(ctx, q, &items, selectQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("select reservations: %w", err)
	}
	return items, total, nil
}

// FindAll returns every matching reservation, newest first.
func (a *Accessor) FindAll(ctx context.Context, q sqlx.ExtContext, f Filter) ([]Reservation, error) {
	where, args := f.where()

	items := []Reservation{}
	query := q.Rebind(`SELECT ` + reservationColumns + ` FROM reservations` + where + ` ORDER BY created_at DESC, id DESC`)
	if err := sqlx.SelectContext(ctx, q, &items, query, args...); err != nil {
		return nil, fmt.Errorf("select reservations: %w", err)
	}
	return items, nil
}

func (f Filter) where() (string, []any) {
	var conds []string
	var args []any

	if name := strings.TrimSpace(f.Name); name != "" {
		conds = append(conds, `LOWER(full_name) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(strings.ToLower(name)))
	}
	if phone := strings.TrimSpace(f.Phone); phone != "" {
		conds = append(conds, `phone LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(phone))
	}
	if date := strings.TrimSpace(f.Date); date != "" {
		conds = append(conds, `date = ?`)
		args = append(args, date)
	}
	if country := strings.TrimSpace(f.Country); country != "" {
		conds = append(conds, `UPPER(country) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(strings.ToUpper(country)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
