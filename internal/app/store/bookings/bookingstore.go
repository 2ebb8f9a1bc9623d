// internal/app/store/bookings/bookingstore.go
package bookingstore

// The bookings collection is the availability ledger: one document per
// (group_id, member_id), enforced by a unique index (see indexes.EnsureAll).

import (
	"context"
	"time"

	"github.com/dalemusser/groupwork/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("bookings")}
}

// UpsertSlot sets one day of a member's booking, creating the booking on the
// member's first submission. Other days are left as they were.
func (s *Store) UpsertSlot(ctx context.Context, groupID primitive.ObjectID, memberID, day string, slot models.TimeSlot) error {
	return s.upsert(ctx, groupID, memberID, bson.M{
		"$set": bson.M{
			day:          slot,
			"updated_at": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	})
}

// UpsertWeek replaces all seven days of a member's booking.
func (s *Store) UpsertWeek(ctx context.Context, groupID primitive.ObjectID, memberID string, week models.Week) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	for _, d := range models.Days {
		if slot := week.Slot(d); slot != nil {
			set[d] = *slot
		} else {
			unset[d] = ""
		}
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return s.upsert(ctx, groupID, memberID, update)
}

// upsert applies update to the member's booking. Two first submissions racing
// on the unique index leave one duplicate-key failure; the second attempt then
// matches the document the winner created.
func (s *Store) upsert(ctx context.Context, groupID primitive.ObjectID, memberID string, update bson.M) error {
	filter := bson.M{"group_id": groupID, "member_id": memberID}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	if err != nil && wafflemongo.IsDup(err) {
		_, err = s.c.UpdateOne(ctx, filter, update, opts)
	}
	return err
}

// Get returns one member's booking in a group.
func (s *Store) Get(ctx context.Context, groupID primitive.ObjectID, memberID string) (models.Booking, error) {
	var b models.Booking
	if err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "member_id": memberID}).Decode(&b); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// ListByGroup returns every booking of a group ordered by member id.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Booking, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID},
		options.Find().SetSort(bson.D{{Key: "member_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	bookings := []models.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountByGroup returns the number of distinct members that have booked.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}
