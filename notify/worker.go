package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	defaultSendTimeout = 10 * time.Second
	sourceErrorBackoff = time.Second
)

// Worker drains a Source and sends the confirmation mails for each event.
// Failed sends are logged and dropped: there is no retry.
type Worker struct {
	source      Source
	mailer      Mailer
	adminEmail  string
	sendTimeout time.Duration
}

func NewWorker(source Source, mailer Mailer, adminEmail string) *Worker {
	return &Worker{
		source:      source,
		mailer:      mailer,
		adminEmail:  strings.TrimSpace(adminEmail),
		sendTimeout: defaultSendTimeout,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	log.Printf("notification worker started")
	for {
		ev, err := w.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("notification worker stopped")
				return nil
			}
			log.Printf("notification source: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(sourceErrorBackoff):
			}
			continue
		}
		_ = w.Handle(ctx, ev)
	}
}

// Handle sends the requester confirmation and, when an operator address is
// configured, the operator copy. Every failure is logged with the
// reservation details; the joined error is returned for callers that care.
func (w *Worker) Handle(ctx context.Context, ev Event) error {
	var errs []error

	if m, err := ConfirmationMail(ev); err != nil {
		errs = append(errs, w.failed(ev, ev.Email, err))
	} else if err := w.send(ctx, m); err != nil {
		errs = append(errs, w.failed(ev, ev.Email, err))
	}

	if w.adminEmail != "" {
		if m, err := OperatorMail(w.adminEmail, ev); err != nil {
			errs = append(errs, w.failed(ev, w.adminEmail, err))
		} else if err := w.send(ctx, m); err != nil {
			errs = append(errs, w.failed(ev, w.adminEmail, err))
		}
	}

	return errors.Join(errs...)
}

func (w *Worker) send(ctx context.Context, m Mail) error {
	ctx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()
	return w.mailer.Send(ctx, m)
}

func (w *Worker) failed(ev Event, to string, err error) error {
	log.Printf("NOTIFICATION_FAILED reservation=%s to=%s name=%q date=%s slot=%s: %v",
		ev.ReservationID, to, ev.FullName, ev.Date, ev.SlotLabel, err)
	return fmt.Errorf("notify %s: %w", to, err)
}
