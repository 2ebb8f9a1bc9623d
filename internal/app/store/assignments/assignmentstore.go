// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/groupwork/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateAssignment = errors.New("an assignment with this id already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assignments")}
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Assignment, error) {
	var a models.Assignment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Assignment{}, err
	}
	return a, nil
}

// Create inserts an assignment. Assignments are published elsewhere; this is
// used for seeding and tests.
func (s *Store) Create(ctx context.Context, a models.Assignment) (models.Assignment, error) {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Assignment{}, ErrDuplicateAssignment
		}
		return models.Assignment{}, err
	}
	return a, nil
}
