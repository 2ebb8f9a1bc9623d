// internal/app/system/matchmaking/queue.go
package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status is the result of a submission.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusGrouped Status = "grouped"
)

// ErrQueueStopped is returned by calls made after Stop.
var ErrQueueStopped = errors.New("matchmaking queue stopped")

// Request is one anonymous join request waiting for a group.
type Request struct {
	Ticket       string    `json:"ticket"`
	AssignmentID string    `json:"assignmentId"`
	StudentID    string    `json:"studentId"`
	Email        string    `json:"email"`
	EnqueuedAt   time.Time `json:"enqueuedAt"`
}

// Outcome describes what a submission did. For StatusGrouped, Leader and
// Members hold the drained batch; Batch is Leader followed by Members.
type Outcome struct {
	Status  Status
	Ticket  string
	Pending int
	Leader  Request
	Members []Request
}

// Batch returns every request drained by a grouped outcome.
func (o Outcome) Batch() []Request {
	if o.Status != StatusGrouped {
		return nil
	}
	return append([]Request{o.Leader}, o.Members...)
}

// Others returns the drained batch without the request that completed it.
// These are the requests whose submitters were already told they are queued.
func (o Outcome) Others() []Request {
	out := make([]Request, 0, len(o.Members))
	for _, r := range o.Batch() {
		if r.Ticket != o.Ticket {
			out = append(out, r)
		}
	}
	return out
}

// Queue is the process-wide matchmaking waiting list.
//
// One goroutine owns the pending requests; every operation is delivered to it
// over a channel and runs to completion before the next one starts, so the
// append-count-drain of a submission is a single critical section. Pending
// requests live only as long as the process.
type Queue struct {
	log    *zap.Logger
	intn   func(n int) int
	ops    chan func()
	stopCh chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	// owned by the run goroutine
	pending map[string][]Request
}

// Option configures a Queue.
type Option func(*Queue)

// WithIntn replaces the random source used to pick a batch leader.
// intn(n) must return a value in [0, n).
func WithIntn(intn func(n int) int) Option {
	return func(q *Queue) { q.intn = intn }
}

// New creates a matchmaking queue. Call Start before submitting.
func New(logger *zap.Logger, opts ...Option) *Queue {
	q := &Queue{
		log:     logger,
		intn:    rand.IntN,
		ops:     make(chan func()),
		stopCh:  make(chan struct{}),
		pending: make(map[string][]Request),
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Start begins the owner goroutine.
func (q *Queue) Start() {
	q.wg.Add(1)
	go q.run()
	q.log.Info("matchmaking queue started")
}

// Stop signals the owner goroutine to exit and waits for it. Pending requests
// are dropped.
func (q *Queue) Stop() {
	q.once.Do(func() {
		close(q.stopCh)
		q.wg.Wait()
		dropped := 0
		for _, reqs := range q.pending {
			dropped += len(reqs)
		}
		q.log.Info("matchmaking queue stopped", zap.Int("dropped_requests", dropped))
	})
}

func (q *Queue) run() {
	defer q.wg.Done()
	for {
		select {
		case <-q.stopCh:
			return
		case op := <-q.ops:
			op()
		}
	}
}

// do runs fn on the owner goroutine and waits for it to finish.
func (q *Queue) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case q.ops <- func() { fn(); close(done) }:
	case <-q.stopCh:
		return ErrQueueStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

// Submit appends req to the waiting list for its assignment. When the list
// reaches maxStudent requests they are all removed and returned as a batch with
// one of them, chosen uniformly at random, as leader.
//
// Repeated submissions by the same student are not merged; each occupies a slot.
func (q *Queue) Submit(ctx context.Context, req Request, maxStudent int) (Outcome, error) {
	if req.AssignmentID == "" || req.StudentID == "" {
		return Outcome{}, apperr.Invalid("matchmaking request needs an assignment and a student")
	}
	if maxStudent < 1 {
		return Outcome{}, apperr.Invalid("assignment %q has no valid group size (%d)", req.AssignmentID, maxStudent)
	}
	if req.Ticket == "" {
		req.Ticket = uuid.NewString()
	}
	if req.EnqueuedAt.IsZero() {
		req.EnqueuedAt = time.Now().UTC()
	}

	var out Outcome
	err := q.do(ctx, func() {
		list := append(q.pending[req.AssignmentID], req)
		if len(list) < maxStudent {
			q.pending[req.AssignmentID] = list
			out = Outcome{Status: StatusQueued, Ticket: req.Ticket, Pending: len(list)}
			return
		}

		batch := make([]Request, maxStudent)
		copy(batch, list[:maxStudent])
		rest := list[maxStudent:]
		if len(rest) == 0 {
			delete(q.pending, req.AssignmentID)
		} else {
			q.pending[req.AssignmentID] = append([]Request(nil), rest...)
		}

		i := q.intn(len(batch))
		members := make([]Request, 0, len(batch)-1)
		members = append(members, batch[:i]...)
		members = append(members, batch[i+1:]...)
		out = Outcome{
			Status:  StatusGrouped,
			Ticket:  req.Ticket,
			Pending: len(rest),
			Leader:  batch[i],
			Members: members,
		}
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("matchmaking submit: %w", err)
	}

	if out.Status == StatusGrouped {
		q.log.Info("matchmaking batch drained",
			zap.String("assignment_id", req.AssignmentID),
			zap.String("leader_id", out.Leader.StudentID),
			zap.Int("batch_size", maxStudent))
	}
	return out, nil
}

// Requeue puts drained requests back on their assignments' lists. The merged
// list is ordered by EnqueuedAt, so requeued requests regain their place ahead
// of anything submitted after them.
func (q *Queue) Requeue(ctx context.Context, batch []Request) error {
	if len(batch) == 0 {
		return nil
	}
	return q.do(ctx, func() {
		touched := make(map[string]bool)
		for _, r := range batch {
			q.pending[r.AssignmentID] = append(q.pending[r.AssignmentID], r)
			touched[r.AssignmentID] = true
		}
		for a := range touched {
			slices.SortStableFunc(q.pending[a], func(x, y Request) int {
				return x.EnqueuedAt.Compare(y.EnqueuedAt)
			})
		}
	})
}

// Pending returns the requests currently waiting for an assignment, oldest first.
func (q *Queue) Pending(ctx context.Context, assignmentID string) ([]Request, error) {
	var out []Request
	err := q.do(ctx, func() {
		out = append([]Request(nil), q.pending[assignmentID]...)
	})
	return out, err
}
