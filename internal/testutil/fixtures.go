package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateAssignment creates an assignment allowing maxStudent students per group.
func (f *Fixtures) CreateAssignment(ctx context.Context, id string, maxStudent int) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Assignment{
		ID:          id,
		SubjectCode: "CS101",
		Name:        "Assignment " + id,
		MaxStudent:  maxStudent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}
	return a
}

// CreateStudent creates a student with an empty membership index.
func (f *Fixtures) CreateStudent(ctx context.Context, id string) models.Student {
	f.t.Helper()

	now := time.Now().UTC()
	s := models.Student{
		ID:        id,
		Name:      "Student " + id,
		Email:     id + "@example.edu",
		GroupsID:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("students").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return s
}

// CreateStudents creates one student per id.
func (f *Fixtures) CreateStudents(ctx context.Context, ids ...string) {
	f.t.Helper()
	for _, id := range ids {
		f.CreateStudent(ctx, id)
	}
}

// CreateGroup creates a group led by leaderID with the given members.
// The group is open unless it already holds maxStudent students.
func (f *Fixtures) CreateGroup(ctx context.Context, assignmentID string, maxStudent int, leaderID string, members ...string) models.Group {
	f.t.Helper()

	if members == nil {
		members = []string{}
	}
	now := time.Now().UTC()
	g := models.Group{
		ID:           primitive.NewObjectID(),
		AssignmentID: assignmentID,
		LeaderID:     leaderID,
		MembersID:    members,
		MembersCount: 1 + len(members),
		IsOpen:       1+len(members) < maxStudent,
		Formation:    models.FormationDirect,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}
