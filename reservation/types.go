package reservation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicate is returned when the requester already holds a reservation
// for the slot.
var ErrDuplicate = errors.New("duplicate reservation")

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
	MaxMessageLen   = 1200
)

type Reservation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"fullName"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Country   string    `db:"country" json:"country"`
	City      string    `db:"city" json:"city"`
	Date      string    `db:"date" json:"date"`
	SlotID    uuid.UUID `db:"slot_id" json:"slotId"`
	SlotLabel string    `db:"slot_label" json:"slotLabel"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (r *Reservation) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return errors.New("full name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return errors.New("phone is required")
	}
	if r.Date == "" {
		return errors.New("date is required")
	}
	if r.SlotID == uuid.Nil {
		return errors.New("slot ID is required")
	}
	if r.SlotLabel == "" {
		return errors.New("slot label is required")
	}
	if len([]rune(r.Message)) > MaxMessageLen {
		return errors.New("message is too long")
	}
	return nil
}

// Filter narrows ledger queries. Empty fields do not filter.
type Filter struct {
	Name    string
	Phone   string
	Date    string
	Country string
}

// Page is a 1-based offset page.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"limit"`
}

// NewPage clamps page to >= 1 and size to 1..MaxPageSize, using
// DefaultPageSize when size is unset.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size == 0 {
		size = DefaultPageSize
	}
	size = min(max(size, 1), MaxPageSize)
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
