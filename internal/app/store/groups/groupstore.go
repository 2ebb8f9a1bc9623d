// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/groupwork/internal/app/system/capacity"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Create inserts a new group. MembersCount is derived from MembersID so the
// leader is always counted.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	if g.MembersID == nil {
		g.MembersID = []string{}
	}
	g.MembersCount = 1 + len(g.MembersID)
	g.BookingVersion = 0
	g.ConfirmedVersion = 0
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// ApplyJoin persists a capacity update in one conditional write. The write only
// matches while the group is still open and still has u.PrevCount members, so
// of two joins computed from the same snapshot at most one is applied.
// Returns false when the group moved on since the snapshot.
func (s *Store) ApplyJoin(ctx context.Context, id primitive.ObjectID, u capacity.Update) (bool, error) {
	filter := bson.M{
		"_id":           id,
		"is_open":       true,
		"members_count": u.PrevCount,
	}
	update := bson.M{
		"$push": bson.M{"members_id": u.StudentID},
		"$set": bson.M{
			"members_count": u.MembersCount,
			"is_open":       u.IsOpen,
			"updated_at":    time.Now().UTC(),
		},
	}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// BumpBookingVersion increments booking_version and returns the group as it is
// after the increment.
func (s *Store) BumpBookingVersion(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var g models.Group
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"booking_version": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		opts,
	).Decode(&g)
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// CommitConfirmedTime writes the negotiated slot only if no booking has been
// written since version. It returns the slot the group held before the write
// (nil if none) and false when a newer booking superseded version.
func (s *Store) CommitConfirmedTime(ctx context.Context, id primitive.ObjectID, version int64, ct models.ConfirmedTime) (*models.ConfirmedTime, bool, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"confirmed_time": 1})
	var before struct {
		ConfirmedTime *models.ConfirmedTime `bson:"confirmed_time"`
	}
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "booking_version": version},
		bson.M{"$set": bson.M{
			"confirmed_time":    ct,
			"confirmed_version": version,
			"updated_at":        time.Now().UTC(),
		}},
		opts,
	).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return before.ConfirmedTime, true, nil
}

// ListByAssignment returns the groups of an assignment, oldest first.
// With openOnly, only groups still accepting members are returned.
func (s *Store) ListByAssignment(ctx context.Context, assignmentID string, openOnly bool) ([]models.Group, error) {
	filter := bson.M{"assignment_id": assignmentID}
	if openOnly {
		filter["is_open"] = true
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	groups := []models.Group{}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
