// internal/domain/models/assignment.go
package models

import "time"

// Assignment is a published piece of coursework. Groups are formed per assignment
// and may never hold more than MaxStudent students (leader included).
type Assignment struct {
	ID          string    `bson:"_id" json:"id"`
	SubjectCode string    `bson:"subject_code" json:"subjectCode"`
	Name        string    `bson:"name" json:"name"`
	MaxStudent  int       `bson:"max_student" json:"maxStudent"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}
