package bookingstore_test

import (
	"sync"
	"testing"

	bookingstore "github.com/dalemusser/groupwork/internal/app/store/bookings"
	"github.com/dalemusser/groupwork/internal/app/system/indexes"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/groupwork/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestStore_UpsertSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	gid := primitive.NewObjectID()
	if err := store.UpsertSlot(ctx, gid, "s1", "monday", models.TimeSlot{StartTime: 9, EndTime: 12}); err != nil {
		t.Fatalf("UpsertSlot monday: %v", err)
	}
	if err := store.UpsertSlot(ctx, gid, "s1", "friday", models.TimeSlot{StartTime: 0, EndTime: 24}); err != nil {
		t.Fatalf("UpsertSlot friday: %v", err)
	}
	// Rebooking a day overwrites only that day.
	if err := store.UpsertSlot(ctx, gid, "s1", "monday", models.TimeSlot{StartTime: 10, EndTime: 11}); err != nil {
		t.Fatalf("UpsertSlot monday again: %v", err)
	}

	b, err := store.Get(ctx, gid, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Monday == nil || *b.Monday != (models.TimeSlot{StartTime: 10, EndTime: 11}) {
		t.Errorf("Monday: got %+v", b.Monday)
	}
	if b.Friday == nil || *b.Friday != (models.TimeSlot{StartTime: 0, EndTime: 24}) {
		t.Errorf("Friday: got %+v", b.Friday)
	}
	if b.Tuesday != nil {
		t.Errorf("Tuesday: got %+v, want nil", b.Tuesday)
	}

	n, err := store.CountByGroup(ctx, gid)
	if err != nil {
		t.Fatalf("CountByGroup: %v", err)
	}
	if n != 1 {
		t.Errorf("CountByGroup: got %d, want 1", n)
	}
}

func TestStore_UpsertWeek_ReplacesAllDays(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	gid := primitive.NewObjectID()
	if err := store.UpsertSlot(ctx, gid, "s1", "monday", models.TimeSlot{StartTime: 9, EndTime: 12}); err != nil {
		t.Fatalf("UpsertSlot: %v", err)
	}

	week := models.Week{Wednesday: &models.TimeSlot{StartTime: 13, EndTime: 15}}
	if err := store.UpsertWeek(ctx, gid, "s1", week); err != nil {
		t.Fatalf("UpsertWeek: %v", err)
	}

	b, err := store.Get(ctx, gid, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Monday != nil {
		t.Errorf("Monday should be cleared, got %+v", b.Monday)
	}
	if b.Wednesday == nil || b.Wednesday.StartTime != 13 || b.Wednesday.EndTime != 15 {
		t.Errorf("Wednesday: got %+v", b.Wednesday)
	}
}

func TestStore_ListByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := bookingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	gid := primitive.NewObjectID()
	other := primitive.NewObjectID()
	slot := models.TimeSlot{StartTime: 8, EndTime: 10}
	for _, m := range []string{"s3", "s1", "s2"} {
		if err := store.UpsertSlot(ctx, gid, m, "tuesday", slot); err != nil {
			t.Fatalf("UpsertSlot %s: %v", m, err)
		}
	}
	if err := store.UpsertSlot(ctx, other, "s9", "tuesday", slot); err != nil {
		t.Fatalf("UpsertSlot other: %v", err)
	}

	list, err := store.ListByGroup(ctx, gid)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListByGroup: got %d bookings, want 3", len(list))
	}
	for i, want := range []string{"s1", "s2", "s3"} {
		if list[i].MemberID != want {
			t.Errorf("list[%d]: got %s, want %s", i, list[i].MemberID, want)
		}
	}

	empty, err := store.ListByGroup(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ListByGroup empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty: got %v, want empty slice", empty)
	}
}

func TestStore_ConcurrentFirstBooking(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := bookingstore.New(db)

	gid := primitive.NewObjectID()
	days := []string{"monday", "tuesday", "wednesday", "thursday"}
	var wg sync.WaitGroup
	for _, d := range days {
		wg.Add(1)
		go func(day string) {
			defer wg.Done()
			if err := store.UpsertSlot(ctx, gid, "s1", day, models.TimeSlot{StartTime: 9, EndTime: 10}); err != nil {
				t.Errorf("UpsertSlot %s: %v", day, err)
			}
		}(d)
	}
	wg.Wait()

	n, err := store.CountByGroup(ctx, gid)
	if err != nil {
		t.Fatalf("CountByGroup: %v", err)
	}
	if n != 1 {
		t.Errorf("CountByGroup: got %d, want 1 booking per member", n)
	}
	b, err := store.Get(ctx, gid, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for _, d := range days {
		if b.Slot(d) == nil {
			t.Errorf("%s missing after concurrent upserts", d)
		}
	}
}
