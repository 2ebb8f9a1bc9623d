// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Formation values record how a group came to exist.
const (
	FormationDirect    = "direct"
	FormationMatchmade = "matchmade"
)

// Group is a bounded set of students working together on one assignment.
//
// NOTE:
//   - MembersID excludes the leader; MembersCount is 1 + len(MembersID).
//   - IsOpen flips to false in the same write that makes MembersCount reach the
//     assignment's MaxStudent, and is never flipped back.
//   - BookingVersion is bumped on every booking write; ConfirmedVersion records the
//     BookingVersion that produced ConfirmedTime.
type Group struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	AssignmentID string             `bson:"assignment_id" json:"assignmentId"`
	LeaderID     string             `bson:"leader_id" json:"leaderId"`
	MembersID    []string           `bson:"members_id" json:"membersId"`
	MembersCount int                `bson:"members_count" json:"membersCount"`
	IsOpen       bool               `bson:"is_open" json:"isOpen"`
	Formation    string             `bson:"formation" json:"formation"`

	ConfirmedTime    *ConfirmedTime `bson:"confirmed_time,omitempty" json:"confirmedTime,omitempty"`
	BookingVersion   int64          `bson:"booking_version" json:"-"`
	ConfirmedVersion int64          `bson:"confirmed_version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Participants returns the leader followed by the members, without duplicates.
func (g Group) Participants() []string {
	seen := make(map[string]bool, len(g.MembersID)+1)
	out := make([]string, 0, len(g.MembersID)+1)
	for _, id := range append([]string{g.LeaderID}, g.MembersID...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// HasParticipant reports whether studentID is the leader or a member.
func (g Group) HasParticipant(studentID string) bool {
	if g.LeaderID == studentID {
		return true
	}
	for _, id := range g.MembersID {
		if id == studentID {
			return true
		}
	}
	return false
}
