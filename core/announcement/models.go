package announcement

import "time"

type Announcement struct {
	ID        string    `json:"id" db:"id"`
	GroupID   string    `json:"group_id" db:"group_id"`
	TeacherID string    `json:"teacher_id" db:"teacher_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC, set exactly once
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type NewAnnouncement struct {
	Content string `json:"content" validate:"required"`
}

type UpdateAnnouncement struct {
	Content string `json:"content" validate:"required"`
}
