package formation

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"github.com/dalemusser/groupwork/internal/app/system/mailer"
	"github.com/dalemusser/groupwork/internal/app/system/matchmaking"
	"github.com/dalemusser/groupwork/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/waffle/toolkit/validate"
	"go.uber.org/zap"
)

// MatchmakeResult reports a matchmaking submission. Group is set only when
// the submission completed a batch.
type MatchmakeResult struct {
	Status  matchmaking.Status `json:"status"`
	Ticket  string             `json:"ticket"`
	Pending int                `json:"pending"`
	Group   *models.Group      `json:"group,omitempty"`
}

// Matchmake puts studentID on the assignment's waiting list. When the list
// reaches the assignment's group size the whole batch becomes a new, full
// group with a randomly chosen leader.
//
// If the group cannot be stored the error is returned and the rest of the
// batch goes back on the list in arrival order; the caller's request is not
// kept, so retrying it completes the batch again without taking a second slot.
func (s *Service) Matchmake(ctx context.Context, assignmentID, studentID, email string) (MatchmakeResult, error) {
	if assignmentID == "" || studentID == "" {
		return MatchmakeResult{}, apperr.Invalid("assignmentId and studentId are required")
	}
	email = strings.TrimSpace(email)
	if email != "" && !validate.SimpleEmailValid(email) {
		return MatchmakeResult{}, apperr.Invalid("email is not a valid address")
	}
	a, err := s.assignment(ctx, assignmentID)
	if err != nil {
		return MatchmakeResult{}, err
	}
	st, err := s.student(ctx, studentID)
	if err != nil {
		return MatchmakeResult{}, err
	}
	if email == "" {
		email = st.Email
	}

	out, err := s.queue.Submit(ctx, matchmaking.Request{
		AssignmentID: a.ID,
		StudentID:    studentID,
		Email:        email,
	}, a.MaxStudent)
	if err != nil {
		return MatchmakeResult{}, err
	}
	res := MatchmakeResult{Status: out.Status, Ticket: out.Ticket, Pending: out.Pending}
	if out.Status != matchmaking.StatusGrouped {
		return res, nil
	}

	g, err := s.formBatch(ctx, a, out)
	if err != nil {
		others := out.Others()
		if rqErr := s.queue.Requeue(context.WithoutCancel(ctx), others); rqErr != nil {
			s.log.Error("matchmaking batch lost",
				zap.String("assignment_id", a.ID),
				zap.Int("requests", len(others)),
				zap.Error(rqErr))
		}
		return MatchmakeResult{}, err
	}
	res.Group = &g
	return res, nil
}

func (s *Service) formBatch(ctx context.Context, a models.Assignment, out matchmaking.Outcome) (models.Group, error) {
	members := make([]string, 0, len(out.Members))
	for _, m := range out.Members {
		members = append(members, m.StudentID)
	}

	g, err := s.groups.Create(ctx, models.Group{
		AssignmentID: a.ID,
		LeaderID:     out.Leader.StudentID,
		MembersID:    members,
		IsOpen:       false,
		Formation:    models.FormationMatchmade,
	})
	if err != nil {
		return models.Group{}, apperr.Store("create matchmade group", err)
	}

	participants := g.Participants()
	matched, err := s.students.AddGroupMany(ctx, participants, g.ID.Hex())
	if err != nil {
		s.log.Error("membership index update failed",
			zap.String("group_id", g.ID.Hex()),
			zap.Error(err))
	} else if int(matched) != len(participants) {
		s.log.Warn("membership index partially updated",
			zap.String("group_id", g.ID.Hex()),
			zap.Int64("matched", matched),
			zap.Int("participants", len(participants)))
	}

	s.notify(models.Notification{
		Actor:      g.LeaderID,
		Recipients: participants,
		Message:    fmt.Sprintf("You have been placed in a group for %s", a.ID),
		Type:       models.NotificationAutoGrouped,
		GroupID:    g.ID.Hex(),
	})

	data := mailer.AutoGroupedEmailData{
		SiteName:     s.siteName,
		AssignmentID: a.ID,
		GroupURL:     s.groupURL(g.ID),
		LeaderID:     g.LeaderID,
		MemberIDs:    participants[1:],
	}
	sent := make(map[string]bool, len(out.Batch()))
	for _, r := range out.Batch() {
		key := text.Fold(r.Email)
		if key == "" || sent[key] {
			continue
		}
		sent[key] = true
		e := mailer.BuildAutoGroupedEmail(data)
		e.To = r.Email
		s.email(e)
	}

	s.log.Info("matchmade group created",
		zap.String("group_id", g.ID.Hex()),
		zap.String("assignment_id", a.ID),
		zap.String("leader_id", g.LeaderID),
		zap.Int("members_count", g.MembersCount))
	return g, nil
}
