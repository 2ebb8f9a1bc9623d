// Package formation coordinates group formation and scheduling: direct group
// creation, capacity-bounded joins, matchmaking into new groups, and the
// booking flow that ends in a negotiated meeting slot.
//
// Side effects (in-app notifications, emails, relay events) are handed off
// fire-and-forget; their failures are logged and never fail the operation.
package formation

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/app/system/capacity"
	"github.com/dalemusser/groupwork/internal/app/system/mailer"
	"github.com/dalemusser/groupwork/internal/app/system/matchmaking"
	"github.com/dalemusser/groupwork/internal/app/system/negotiation"
	"github.com/dalemusser/groupwork/internal/app/system/relay"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxJoinAttempts bounds how often a join is re-evaluated after losing a race
// for the same group.
const maxJoinAttempts = 5

// ErrConcurrentUpdate is returned when a join kept losing races for the group.
var ErrConcurrentUpdate = fmt.Errorf("%w: group changed concurrently, try again", apperr.ErrStore)

// ErrNotMember is returned when a booking comes from someone outside the group.
var ErrNotMember = apperr.Invalid("student is not a member of this group")

// GroupStore is the group persistence the service needs.
type GroupStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error)
	Create(ctx context.Context, g models.Group) (models.Group, error)
	ApplyJoin(ctx context.Context, id primitive.ObjectID, u capacity.Update) (bool, error)
	BumpBookingVersion(ctx context.Context, id primitive.ObjectID) (models.Group, error)
	CommitConfirmedTime(ctx context.Context, id primitive.ObjectID, version int64, ct models.ConfirmedTime) (*models.ConfirmedTime, bool, error)
	ListByAssignment(ctx context.Context, assignmentID string, openOnly bool) ([]models.Group, error)
}

// AssignmentStore reads assignments.
type AssignmentStore interface {
	GetByID(ctx context.Context, id string) (models.Assignment, error)
}

// StudentStore reads students and maintains their membership index.
type StudentStore interface {
	GetByID(ctx context.Context, id string) (models.Student, error)
	AddGroup(ctx context.Context, studentID, groupID string) error
	AddGroupMany(ctx context.Context, studentIDs []string, groupID string) (int64, error)
}

// BookingStore is the availability ledger.
type BookingStore interface {
	UpsertSlot(ctx context.Context, groupID primitive.ObjectID, memberID, day string, slot models.TimeSlot) error
	UpsertWeek(ctx context.Context, groupID primitive.ObjectID, memberID string, week models.Week) error
	ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Booking, error)
}

// Notifier queues an in-app notification.
type Notifier interface {
	Send(n models.Notification)
}

// Mailer queues an email.
type Mailer interface {
	Send(e mailer.Email)
}

// Relay publishes group events to connected clients.
type Relay interface {
	Publish(ctx context.Context, groupID string, ev relay.Event) error
}

// Deps wires a Service.
type Deps struct {
	Groups      GroupStore
	Assignments AssignmentStore
	Students    StudentStore
	Bookings    BookingStore
	Queue       *matchmaking.Queue
	Engine      negotiation.Engine
	Notifier    Notifier
	Mailer      Mailer
	Relay       Relay
	Log         *zap.Logger

	SiteName string // used in emails
	BaseURL  string // used to build group links; optional
}

// Service is the group formation orchestrator.
type Service struct {
	groups      GroupStore
	assignments AssignmentStore
	students    StudentStore
	bookings    BookingStore
	queue       *matchmaking.Queue
	engine      negotiation.Engine
	notifier    Notifier
	mailer      Mailer
	relay       Relay
	log         *zap.Logger
	siteName    string
	baseURL     string
}

func New(d Deps) *Service {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	site := d.SiteName
	if site == "" {
		site = "Groupwork"
	}
	return &Service{
		groups:      d.Groups,
		assignments: d.Assignments,
		students:    d.Students,
		bookings:    d.Bookings,
		queue:       d.Queue,
		engine:      d.Engine,
		notifier:    d.Notifier,
		mailer:      d.Mailer,
		relay:       d.Relay,
		log:         log,
		siteName:    site,
		baseURL:     d.BaseURL,
	}
}

// ParseGroupID converts a hex group id; a malformed id is a validation error.
func ParseGroupID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.Invalid("bad group id %q", id)
	}
	return oid, nil
}

func (s *Service) assignment(ctx context.Context, id string) (models.Assignment, error) {
	a, err := s.assignments.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Assignment{}, apperr.NotFound("assignment", id)
	}
	if err != nil {
		return models.Assignment{}, apperr.Store("load assignment", err)
	}
	if a.MaxStudent < 1 {
		return models.Assignment{}, apperr.Invalid("assignment %q has no valid group size (%d)", id, a.MaxStudent)
	}
	return a, nil
}

func (s *Service) student(ctx context.Context, id string) (models.Student, error) {
	st, err := s.students.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Student{}, apperr.NotFound("student", id)
	}
	if err != nil {
		return models.Student{}, apperr.Store("load student", err)
	}
	return st, nil
}

func (s *Service) group(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Group{}, apperr.NotFound("group", id.Hex())
	}
	if err != nil {
		return models.Group{}, apperr.Store("load group", err)
	}
	return g, nil
}

func (s *Service) notify(n models.Notification) {
	if s.notifier != nil {
		s.notifier.Send(n)
	}
}

func (s *Service) email(e mailer.Email) {
	if s.mailer != nil {
		s.mailer.Send(e)
	}
}

func (s *Service) groupURL(id primitive.ObjectID) string {
	if s.baseURL == "" {
		return ""
	}
	return s.baseURL + "/groups/" + id.Hex()
}
