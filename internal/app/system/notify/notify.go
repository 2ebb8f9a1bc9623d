// Package notify hands group-formation notifications to the notification
// system. Delivery failures are logged and never affect the operation that
// produced the notification.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/groupwork/internal/app/system/htmlsanitize"
	"github.com/dalemusser/groupwork/internal/app/system/workers"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"go.uber.org/zap"
)

// Dispatcher delivers one notification.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, n models.Notification) error

func (f DispatcherFunc) Dispatch(ctx context.Context, n models.Notification) error {
	return f(ctx, n)
}

// Inserter is the part of the notification store StoreDispatcher needs.
type Inserter interface {
	Insert(ctx context.Context, n models.Notification) (models.Notification, error)
}

// StoreDispatcher persists notifications so recipients can list them later.
type StoreDispatcher struct {
	Store Inserter
}

func (d StoreDispatcher) Dispatch(ctx context.Context, n models.Notification) error {
	_, err := d.Store.Insert(ctx, n)
	return err
}

// Fanout dispatches to every dispatcher and joins their errors.
type Fanout []Dispatcher

func (f Fanout) Dispatch(ctx context.Context, n models.Notification) error {
	var errs []error
	for _, d := range f {
		if d == nil {
			continue
		}
		if err := d.Dispatch(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Async dispatches notifications on a background worker.
type Async struct {
	q *workers.Queue[models.Notification]
}

// NewAsync wraps next. Call Start before Send and Stop on shutdown.
func NewAsync(next Dispatcher, logger *zap.Logger, timeout time.Duration) *Async {
	return &Async{
		q: workers.NewQueue[models.Notification]("notifications", next.Dispatch, logger, 0, 4, timeout),
	}
}

func (a *Async) Start() { a.q.Start() }
func (a *Async) Stop()  { a.q.Stop() }

// Wait blocks until every accepted notification has been dispatched.
func (a *Async) Wait() { a.q.Wait() }

// Send queues n for delivery. Notifications without recipients are ignored.
func (a *Async) Send(n models.Notification) {
	n, ok := Prepare(n)
	if !ok {
		return
	}
	a.q.Enqueue(n)
}

// Prepare strips markup from the message, removes empty and duplicate
// recipients, and stamps CreatedAt. It reports false when nobody is left to
// notify.
func Prepare(n models.Notification) (models.Notification, bool) {
	seen := make(map[string]struct{}, len(n.Recipients))
	recipients := make([]string, 0, len(n.Recipients))
	for _, r := range n.Recipients {
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		recipients = append(recipients, r)
	}
	if len(recipients) == 0 {
		return n, false
	}
	n.Recipients = recipients
	n.Message = htmlsanitize.Text(n.Message)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return n, true
}
