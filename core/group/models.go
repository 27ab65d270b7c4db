package group

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type Group struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	JoinCode    string    `json:"join_code" db:"join_code"`
	TeacherID   string    `json:"teacher_id" db:"teacher_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC, set exactly once
}

type Enrollment struct {
	ID         string    `json:"id" db:"id"`
	GroupID    string    `json:"group_id" db:"group_id"`
	StudentID  string    `json:"student_id" db:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at" db:"enrolled_at"` // UTC
}

// NewGroup contains information needed to create a new Group. The join code is
// generated server-side, never supplied.
type NewGroup struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// UpdateGroup defines what may be modified on an existing Group. The join code
// and creation time are immutable.
type UpdateGroup struct {
	Name        null.String `json:"name"`
	Description null.String `json:"description"`
}
