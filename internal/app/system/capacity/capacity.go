// Package capacity decides whether a student may join an existing group.
//
// Join is a pure transition: it inspects a group snapshot and returns the update
// to apply. Applying it atomically (so two joins can never both take the last
// seat) is the group store's job; see groupstore.ApplyJoin.
package capacity

import (
	"fmt"

	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/domain/models"
)

var (
	// ErrGroupClosed is returned for a group that is not open or already full.
	ErrGroupClosed = fmt.Errorf("%w: group is not accepting members", apperr.ErrCapacity)
	// ErrAssignmentMismatch is returned when the caller's assignment id is not the group's.
	ErrAssignmentMismatch = fmt.Errorf("%w: group belongs to a different assignment", apperr.ErrCapacity)
	// ErrAlreadyMember is returned when the student is already the leader or a member.
	ErrAlreadyMember = fmt.Errorf("%w: student already belongs to this group", apperr.ErrValidation)
)

// Update is the state a successful join moves the group to.
type Update struct {
	StudentID string
	// PrevCount is the members_count the update was computed from; the store
	// only applies the update while the group still has this count.
	PrevCount    int
	MembersCount int
	IsOpen       bool
	// Notify lists the leader and members that were in the group before the join.
	Notify []string
}

// Closes reports whether this join fills the group.
func (u Update) Closes() bool { return !u.IsOpen }

// Join validates a join of studentID into g for the given assignment and returns
// the resulting update. maxStudent is the assignment's group size limit.
func Join(g models.Group, maxStudent int, assignmentID, studentID string) (Update, error) {
	if assignmentID != g.AssignmentID {
		return Update{}, ErrAssignmentMismatch
	}
	if !g.IsOpen || g.MembersCount >= maxStudent {
		return Update{}, ErrGroupClosed
	}
	if g.HasParticipant(studentID) {
		return Update{}, ErrAlreadyMember
	}

	next := g.MembersCount + 1
	return Update{
		StudentID:    studentID,
		PrevCount:    g.MembersCount,
		MembersCount: next,
		IsOpen:       next < maxStudent,
		Notify:       g.Participants(),
	}, nil
}

// Apply returns g with u applied, as the store would persist it.
func Apply(g models.Group, u Update) models.Group {
	members := make([]string, 0, len(g.MembersID)+1)
	members = append(members, g.MembersID...)
	g.MembersID = append(members, u.StudentID)
	g.MembersCount = u.MembersCount
	g.IsOpen = u.IsOpen
	return g
}
