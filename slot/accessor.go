package slot

import "time"

// DefaultCapacity is the number of reservations a slot admits.
const DefaultCapacity = 4

// Accessor is the DB layer entrypoint for slot catalog queries. Every method
// takes the sqlx handle to run on, so callers decide whether a statement runs
// inside their transaction.
type Accessor struct {
	capacity int
	now      func() time.Time
}

func NewAccessor() *Accessor {
	return &Accessor{
		capacity: DefaultCapacity,
		now:      func() time.Time { return time.Now().UTC() },
	}
}
