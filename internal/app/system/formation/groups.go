package formation

import (
	"context"
	"fmt"

	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/app/system/capacity"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"go.uber.org/zap"
)

// CreateGroup starts a new group for assignmentID led by studentID. The group
// is open unless the assignment allows a single student, in which case it is
// already full. Once the group is stored the call succeeds even if the
// student's membership index could not be updated.
func (s *Service) CreateGroup(ctx context.Context, assignmentID, studentID string) (models.Group, error) {
	if assignmentID == "" || studentID == "" {
		return models.Group{}, apperr.Invalid("assignmentId and studentId are required")
	}
	a, err := s.assignment(ctx, assignmentID)
	if err != nil {
		return models.Group{}, err
	}
	if _, err := s.student(ctx, studentID); err != nil {
		return models.Group{}, err
	}

	g, err := s.groups.Create(ctx, models.Group{
		AssignmentID: a.ID,
		LeaderID:     studentID,
		MembersID:    []string{},
		IsOpen:       a.MaxStudent > 1,
		Formation:    models.FormationDirect,
	})
	if err != nil {
		return models.Group{}, apperr.Store("create group", err)
	}

	// Logged, not returned: the group is already stored.
	if err := s.students.AddGroup(ctx, studentID, g.ID.Hex()); err != nil {
		s.log.Error("membership index update failed",
			zap.String("group_id", g.ID.Hex()),
			zap.String("student_id", studentID),
			zap.Error(err))
	}

	s.log.Info("group created",
		zap.String("group_id", g.ID.Hex()),
		zap.String("assignment_id", a.ID),
		zap.String("leader_id", studentID))
	return g, nil
}

// JoinGroup adds studentID to an existing group of assignmentID.
//
// The capacity check runs against a snapshot and the update is applied only
// if the group still matches that snapshot. When another join wins the race
// the group is re-read and the check repeated.
func (s *Service) JoinGroup(ctx context.Context, studentID, groupID, assignmentID string) (models.Group, error) {
	if studentID == "" || assignmentID == "" {
		return models.Group{}, apperr.Invalid("studentId and assignmentId are required")
	}
	oid, err := ParseGroupID(groupID)
	if err != nil {
		return models.Group{}, err
	}
	if _, err := s.student(ctx, studentID); err != nil {
		return models.Group{}, err
	}

	g, err := s.group(ctx, oid)
	if err != nil {
		return models.Group{}, err
	}
	a, err := s.assignment(ctx, g.AssignmentID)
	if err != nil {
		return models.Group{}, err
	}

	for attempt := 1; ; attempt++ {
		u, err := capacity.Join(g, a.MaxStudent, assignmentID, studentID)
		if err != nil {
			return models.Group{}, err
		}

		applied, err := s.groups.ApplyJoin(ctx, oid, u)
		if err != nil {
			return models.Group{}, apperr.Store("apply join", err)
		}
		if applied {
			joined := capacity.Apply(g, u)
			s.afterJoin(ctx, joined, u)
			return joined, nil
		}

		if attempt == maxJoinAttempts {
			s.log.Warn("join gave up after repeated conflicts",
				zap.String("group_id", groupID),
				zap.String("student_id", studentID),
				zap.Int("attempts", attempt))
			return models.Group{}, ErrConcurrentUpdate
		}
		if g, err = s.group(ctx, oid); err != nil {
			return models.Group{}, err
		}
	}
}

func (s *Service) afterJoin(ctx context.Context, g models.Group, u capacity.Update) {
	if err := s.students.AddGroup(ctx, u.StudentID, g.ID.Hex()); err != nil {
		s.log.Error("membership index update failed",
			zap.String("group_id", g.ID.Hex()),
			zap.String("student_id", u.StudentID),
			zap.Error(err))
	}

	s.notify(models.Notification{
		Actor:      u.StudentID,
		Recipients: u.Notify,
		Message:    fmt.Sprintf("%s joined your group", u.StudentID),
		Type:       models.NotificationMemberJoined,
		GroupID:    g.ID.Hex(),
	})

	s.log.Info("student joined group",
		zap.String("group_id", g.ID.Hex()),
		zap.String("student_id", u.StudentID),
		zap.Int("members_count", u.MembersCount),
		zap.Bool("closed", u.Closes()))
}

// Group returns one group.
func (s *Service) Group(ctx context.Context, groupID string) (models.Group, error) {
	oid, err := ParseGroupID(groupID)
	if err != nil {
		return models.Group{}, err
	}
	return s.group(ctx, oid)
}

// Members lists a group's participants.
type Members struct {
	LeaderID  string   `json:"leaderId"`
	MembersID []string `json:"membersId"`
}

// Members returns the leader and members of a group.
func (s *Service) Members(ctx context.Context, groupID string) (Members, error) {
	g, err := s.Group(ctx, groupID)
	if err != nil {
		return Members{}, err
	}
	members := g.MembersID
	if members == nil {
		members = []string{}
	}
	return Members{LeaderID: g.LeaderID, MembersID: members}, nil
}

// AssignmentGroups lists the groups formed for an assignment, oldest first.
func (s *Service) AssignmentGroups(ctx context.Context, assignmentID string, openOnly bool) ([]models.Group, error) {
	if _, err := s.assignment(ctx, assignmentID); err != nil {
		return nil, err
	}
	groups, err := s.groups.ListByAssignment(ctx, assignmentID, openOnly)
	if err != nil {
		return nil, apperr.Store("list groups", err)
	}
	return groups, nil
}
