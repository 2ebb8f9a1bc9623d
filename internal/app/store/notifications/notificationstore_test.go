package notificationstore_test

import (
	"testing"
	"time"

	notificationstore "github.com/dalemusser/groupwork/internal/app/store/notifications"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_InsertAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	for i, msg := range []string{"first", "second", "third"} {
		_, err := store.Insert(ctx, models.Notification{
			Actor:      "s1",
			Recipients: []string{"s2", "s3"},
			Message:    msg,
			Type:       models.NotificationMemberJoined,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Insert %s: %v", msg, err)
		}
	}
	if _, err := store.Insert(ctx, models.Notification{Recipients: []string{"s9"}, Message: "other"}); err != nil {
		t.Fatalf("Insert other: %v", err)
	}

	list, err := store.ListForRecipient(ctx, "s2", 0)
	if err != nil {
		t.Fatalf("ListForRecipient: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d notifications, want 3", len(list))
	}
	if list[0].Message != "third" || list[2].Message != "first" {
		t.Errorf("order: got %q..%q, want newest first", list[0].Message, list[2].Message)
	}

	limited, err := store.ListForRecipient(ctx, "s3", 2)
	if err != nil {
		t.Fatalf("ListForRecipient limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited: got %d, want 2", len(limited))
	}

	none, err := store.ListForRecipient(ctx, "nobody", 0)
	if err != nil {
		t.Fatalf("ListForRecipient nobody: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("nobody: got %v, want empty slice", none)
	}
}

func TestStore_Insert_StampsFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n, err := store.Insert(ctx, models.Notification{Recipients: []string{"s1"}, Message: "hello"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if n.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if n.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}
