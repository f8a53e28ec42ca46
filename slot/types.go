package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrAdmissionDenied is returned by TryAdmit when the slot is missing or full.
var ErrAdmissionDenied = errors.New("admission denied")

type Slot struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Date      string    `db:"date" json:"date"`
	Start     string    `db:"start_time" json:"start"`
	End       string    `db:"end_time" json:"end"`
	Label     string    `db:"label" json:"label"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Occupied  int       `db:"booked_count" json:"occupied"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (s *Slot) Remaining() int {
	return max(0, s.Capacity-s.Occupied)
}

func (s *Slot) IsFull() bool {
	return s.Occupied >= s.Capacity
}

// View is the projection handed to the booking form.
type View struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Label     string    `json:"label"`
	Capacity  int       `json:"capacity"`
	Occupied  int       `json:"occupied"`
	Remaining int       `json:"remaining"`
	IsFull    bool      `json:"isFull"`
}

func (s *Slot) View() View {
	return View{
		ID:        s.ID,
		Date:      s.Date,
		Label:     s.Label,
		Capacity:  s.Capacity,
		Occupied:  s.Occupied,
		Remaining: s.Remaining(),
		IsFull:    s.IsFull(),
	}
}
