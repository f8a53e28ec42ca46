// Package booking coordinates slot admission and reservation recording.
//
// A reservation moves through Received, Validated, SlotsEnsured, Admitted,
// Recorded and Committed. Admission and recording share one transaction, so
// a rejected record never leaks a slot increment. Anything before Committed
// may end in a rejection, returned as an *Error.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"booking-system/eligibility"
	"booking-system/notify"
	"booking-system/reservation"
	"booking-system/slot"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "booking-system/booking"

// Policy decides which dates are bookable and what slots they carry.
type Policy interface {
	IsBookable(date string) bool
	SlotSchedule(date string) []eligibility.Window
}

type Coordinator struct {
	db        *sqlx.DB
	policy    Policy
	slots     *slot.Accessor
	ledger    *reservation.Accessor
	publisher notify.Publisher
	timeout   time.Duration
	tracer    trace.Tracer
}

type Option func(*Coordinator)

// WithTimeout bounds the storage work of every operation. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.timeout = d }
}

func WithSlotAccessor(a *slot.Accessor) Option {
	return func(c *Coordinator) { c.slots = a }
}

func WithLedger(a *reservation.Accessor) Option {
	return func(c *Coordinator) { c.ledger = a }
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Coordinator) { c.tracer = tp.Tracer(tracerName) }
}

// NewCoordinator returns a coordinator over db. publisher may be nil, in
// which case no notifications are emitted.
func NewCoordinator(db *sqlx.DB, policy Policy, publisher notify.Publisher, opts ...Option) *Coordinator {
	c := &Coordinator{
		db:        db,
		policy:    policy,
		slots:     slot.NewAccessor(),
		ledger:    reservation.NewAccessor(),
		publisher: publisher,
		timeout:   10 * time.Second,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSlots materializes the slots of a bookable date if needed and returns
// them in schedule order.
func (c *Coordinator) GetSlots(ctx context.Context, date string) (views []slot.View, err error) {
	ctx, span := c.tracer.Start(ctx, "booking.GetSlots", trace.WithAttributes(attribute.String("booking.date", date)))
	defer func() { endSpan(span, err) }()

	if !c.policy.IsBookable(date) {
		return nil, reject(ErrDateNotBookable)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.slots.EnsureSlots(ctx, c.db, date, c.policy.SlotSchedule(date)); err != nil {
		return nil, storageError(err)
	}
	slots, err := c.slots.ListSlots(ctx, c.db, date)
	if err != nil {
		return nil, storageError(err)
	}

	views = make([]slot.View, 0, len(slots))
	for i := range slots {
		views = append(views, slots[i].View())
	}
	return views, nil
}

// CreateReservation admits the request into its slot and records it. On
// success the committed reservation is handed to the publisher; publish
// failures are logged and never change the result.
func (c *Coordinator) CreateReservation(ctx context.Context, req Request) (res *reservation.Reservation, err error) {
	req.Normalize()
	ctx, span := c.tracer.Start(ctx, "booking.CreateReservation", trace.WithAttributes(
		attribute.String("booking.date", req.Date),
		attribute.String("booking.slot_id", req.SlotID),
	))
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !c.policy.IsBookable(req.Date) {
		return nil, reject(ErrDateNotBookable)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.slots.EnsureSlots(ctx, c.db, req.Date, c.policy.SlotSchedule(req.Date)); err != nil {
		return nil, storageError(err)
	}

	res, err = c.admit(ctx, &req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("booking.reservation_id", res.ID.String()))

	c.publish(ctx, *res)
	return res, nil
}

// admit runs the transactional part: fetch and check the slot, take one unit
// of capacity, record the reservation, commit.
func (c *Coordinator) admit(ctx context.Context, req *Request) (*reservation.Reservation, error) {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storageError(fmt.Errorf("begin tx: %w", err))
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Printf("rollback reservation for slot %s: %v", req.SlotID, rbErr)
		}
	}()

	s, err := c.slots.GetSlot(ctx, tx, req.slotID())
	if err != nil {
		return nil, storageError(err)
	}
	if s == nil {
		return nil, reject(ErrSlotNotFound)
	}
	if s.Date != req.Date {
		return nil, reject(ErrSlotDateMismatch)
	}

	admitted, err := c.slots.TryAdmit(ctx, tx, s.ID)
	if errors.Is(err, slot.ErrAdmissionDenied) {
		return nil, reject(ErrSlotFull)
	}
	if err != nil {
		return nil, storageError(err)
	}
	if admitted.Occupied > admitted.Capacity {
		return nil, storageError(fmt.Errorf("slot %s over capacity after admit", admitted.ID))
	}

	r, err := c.ledger.Record(ctx, tx, req.reservation(admitted.Label))
	if errors.Is(err, reservation.ErrDuplicate) {
		return nil, reject(ErrDuplicateReservation)
	}
	if err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storageError(fmt.Errorf("commit: %w", err))
	}
	committed = true
	return r, nil
}

func (c *Coordinator) publish(ctx context.Context, r reservation.Reservation) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(context.WithoutCancel(ctx), notify.NewEvent(r)); err != nil {
		log.Printf("%s reservation=%s email=%s date=%s slot=%q: %v",
			CodeNotificationFailed, r.ID, r.Email, r.Date, r.SlotLabel, err)
	}
}

// Ping checks that the store is reachable.
func (c *Coordinator) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping store: %w", err)
	}
	return nil
}

func (c *Coordinator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		code := CodeOf(err)
		span.SetAttributes(attribute.String("booking.rejection", string(code)))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
	}
	span.End()
}
