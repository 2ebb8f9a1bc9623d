// internal/app/store/students/studentstore.go
package studentstore

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

var ErrDuplicateStudent = errors.New("a student with this id already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("students")}
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Student, error) {
	var st models.Student
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		return models.Student{}, err
	}
	return st, nil
}

func (s *Store) Create(ctx context.Context, st models.Student) (models.Student, error) {
	now := time.Now().UTC()
	if st.GroupsID == nil {
		st.GroupsID = []string{}
	}
	st.CreatedAt = now
	st.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, st); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Student{}, ErrDuplicateStudent
		}
		return models.Student{}, err
	}
	return st, nil
}

// AddGroup appends groupID to the student's membership index. Adding the same
// group twice is a no-op. Returns mongo.ErrNoDocuments for an unknown student.
func (s *Store) AddGroup(ctx context.Context, studentID, groupID string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": studentID},
		bson.M{
			"$addToSet": bson.M{"groups_id": groupID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddGroupMany appends groupID to every listed student's membership index and
// returns how many student records matched.
func (s *Store) AddGroupMany(ctx context.Context, studentIDs []string, groupID string) (int64, error) {
	if len(studentIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": studentIDs}},
		bson.M{
			"$addToSet": bson.M{"groups_id": groupID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
