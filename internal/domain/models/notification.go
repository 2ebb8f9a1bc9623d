// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types emitted by group formation.
const (
	NotificationMemberJoined      = "member-joined"
	NotificationAutoGrouped       = "auto-grouped"
	NotificationScheduleConfirmed = "schedule-confirmed"
)

// Notification is an in-app message addressed to one or more students.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Actor      string             `bson:"actor" json:"actor"`
	Recipients []string           `bson:"recipients" json:"recipients"`
	Message    string             `bson:"message" json:"message"`
	Type       string             `bson:"type" json:"type"`
	GroupID    string             `bson:"group_id,omitempty" json:"groupId,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
