package models

import "time"

// Post is a "vision" post written by a user.
type Post struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	AuthorID  int       `json:"authorId"`
	Author    *User     `json:"author,omitempty"` // set only by list queries
	CreatedAt time.Time `json:"createdAt"`
}

// Future is a standalone "future" entry with no author.
type Future struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
