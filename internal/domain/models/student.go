// internal/domain/models/student.go
package models

import "time"

// Student is a student record. GroupsID is the membership index: the hex ids of
// every group the student belongs to, as leader or member.
type Student struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	GroupsID  []string  `bson:"groups_id" json:"groupsId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
