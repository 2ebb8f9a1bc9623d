// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	sets := []struct {
		coll   string
		models []mongo.IndexModel
	}{
		{"groups", groupIndexes()},
		{"bookings", bookingIndexes()},
		{"students", studentIndexes()},
		{"notifications", notificationIndexes()},
		{"assignments", assignmentIndexes()},
	}

	var problems []string
	for _, s := range sets {
		if err := ensureIndexSet(ctx, db.Collection(s.coll), s.models, logger); err != nil {
			problems = append(problems, s.coll+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func groupIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "assignment_id", Value: 1}, {Key: "is_open", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_groups_assignment_open"),
		},
		{
			Keys:    bson.D{{Key: "leader_id", Value: 1}},
			Options: options.Index().SetName("idx_groups_leader"),
		},
		{
			Keys:    bson.D{{Key: "members_id", Value: 1}},
			Options: options.Index().SetName("idx_groups_members"),
		},
	}
}

func bookingIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			// one booking per member per group
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "member_id", Value: 1}},
			Options: options.Index().SetName("uniq_bookings_group_member").SetUnique(true),
		},
	}
}

func studentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_students_email"),
		},
	}
}

func notificationIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "recipients", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_notifications_recipient_created"),
		},
	}
}

func assignmentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "subject_code", Value: 1}},
			Options: options.Index().SetName("idx_assignments_subject"),
		},
	}
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool {
	return b != nil && *b
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

// ensureIndexSet creates missing indexes, reuses matching ones, and drops and
// recreates an index whose key pattern matches but whose name or uniqueness
// differs.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := ""
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		log := logger.With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig))

		if ex, ok := existing[sig]; ok {
			if boolVal(ex.Unique) == boolVal(unique) && (name == "" || ex.Name == name) {
				log.Debug("reusing existing index")
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
			log.Info("dropped index to realign name/options", zap.String("old_name", ex.Name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if mongo.IsDuplicateKeyError(err) && boolVal(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		log.Info("index created", zap.Bool("unique", boolVal(unique)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
