// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"time"

	"github.com/dalemusser/groupwork/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultListLimit is how many notifications a recipient sees at once.
const DefaultListLimit = 25

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

func (s *Store) Insert(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.ID = primitive.NewObjectID()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// ListForRecipient returns the newest notifications addressed to userID.
// limit <= 0 means DefaultListLimit.
func (s *Store) ListForRecipient(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"recipients": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
