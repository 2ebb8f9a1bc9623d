package capacity_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/app/system/capacity"
	"github.com/dalemusser/groupwork/internal/domain/models"
)

func openGroup(members ...string) models.Group {
	return models.Group{
		AssignmentID: "A1",
		LeaderID:     "lead",
		MembersID:    members,
		MembersCount: 1 + len(members),
		IsOpen:       true,
	}
}

func TestJoin_IncrementsCount(t *testing.T) {
	for maxStudent := 2; maxStudent <= 5; maxStudent++ {
		for size := 0; size < maxStudent-1; size++ {
			members := make([]string, size)
			for i := range members {
				members[i] = string(rune('a' + i))
			}
			g := openGroup(members...)

			u, err := capacity.Join(g, maxStudent, "A1", "new")
			if err != nil {
				t.Fatalf("max=%d size=%d: Join failed: %v", maxStudent, size, err)
			}
			if u.MembersCount != g.MembersCount+1 {
				t.Errorf("max=%d size=%d: MembersCount: got %d, want %d", maxStudent, size, u.MembersCount, g.MembersCount+1)
			}
			wantOpen := u.MembersCount != maxStudent
			if u.IsOpen != wantOpen {
				t.Errorf("max=%d size=%d: IsOpen: got %v, want %v", maxStudent, size, u.IsOpen, wantOpen)
			}
			if u.PrevCount != g.MembersCount {
				t.Errorf("PrevCount: got %d, want %d", u.PrevCount, g.MembersCount)
			}
		}
	}
}

func TestJoin_NotifiesPriorMembers(t *testing.T) {
	g := openGroup("m1", "m2")
	u, err := capacity.Join(g, 4, "A1", "new")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	want := []string{"lead", "m1", "m2"}
	if len(u.Notify) != len(want) {
		t.Fatalf("Notify: got %v, want %v", u.Notify, want)
	}
	for i := range want {
		if u.Notify[i] != want[i] {
			t.Errorf("Notify[%d]: got %q, want %q", i, u.Notify[i], want[i])
		}
	}
}

func TestJoin_ClosedGroupAlwaysFails(t *testing.T) {
	g := openGroup()
	g.IsOpen = false

	for _, maxStudent := range []int{2, 3, 10} {
		_, err := capacity.Join(g, maxStudent, "A1", "new")
		if !errors.Is(err, capacity.ErrGroupClosed) {
			t.Errorf("max=%d: expected ErrGroupClosed, got %v", maxStudent, err)
		}
		if !errors.Is(err, apperr.ErrCapacity) {
			t.Errorf("max=%d: expected capacity violation, got %v", maxStudent, err)
		}
	}
}

func TestJoin_FullGroupFails(t *testing.T) {
	g := openGroup("m1", "m2")
	_, err := capacity.Join(g, 3, "A1", "new")
	if !errors.Is(err, capacity.ErrGroupClosed) {
		t.Errorf("expected ErrGroupClosed, got %v", err)
	}
}

func TestJoin_AssignmentMismatch(t *testing.T) {
	_, err := capacity.Join(openGroup(), 3, "A2", "new")
	if !errors.Is(err, capacity.ErrAssignmentMismatch) {
		t.Errorf("expected ErrAssignmentMismatch, got %v", err)
	}
	if !errors.Is(err, apperr.ErrCapacity) {
		t.Errorf("expected capacity violation, got %v", err)
	}
}

func TestJoin_AlreadyMember(t *testing.T) {
	g := openGroup("m1")
	for _, id := range []string{"lead", "m1"} {
		if _, err := capacity.Join(g, 5, "A1", id); !errors.Is(err, capacity.ErrAlreadyMember) {
			t.Errorf("%s: expected ErrAlreadyMember, got %v", id, err)
		}
	}
}

func TestApply(t *testing.T) {
	g := openGroup("m1")
	u, err := capacity.Join(g, 3, "A1", "m2")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	after := capacity.Apply(g, u)
	if after.MembersCount != 3 || after.IsOpen {
		t.Errorf("after Apply: count=%d open=%v, want 3 false", after.MembersCount, after.IsOpen)
	}
	if len(after.MembersID) != 2 || after.MembersID[1] != "m2" {
		t.Errorf("MembersID: got %v", after.MembersID)
	}
	if len(g.MembersID) != 1 {
		t.Errorf("Apply mutated the input group: %v", g.MembersID)
	}
	if !u.Closes() {
		t.Error("expected update to close the group")
	}
}
