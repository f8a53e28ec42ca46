package reservation

import "time"

// Accessor is the DB layer entrypoint for the reservation ledger.
type Accessor struct {
	now func() time.Time
}

func NewAccessor() *Accessor {
	return &Accessor{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock returns an accessor stamping records with now.
func (a *Accessor) WithClock(now func() time.Time) *Accessor {
	return &Accessor{now: now}
}
