package comment

import "time"

type Comment struct {
	ID             string    `json:"id" db:"id"`
	AnnouncementID string    `json:"announcement_id" db:"announcement_id"`
	AuthorID       string    `json:"author_id" db:"author_id"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"` // UTC, set exactly once
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type NewComment struct {
	Content string `json:"content" validate:"required"`
}

type UpdateComment struct {
	Content string `json:"content" validate:"required"`
}
