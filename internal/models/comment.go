package models

import "time"

// Comment belongs to exactly one post and has a mandatory author.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    int64     `db:"user_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Author    UserInfo  `db:"author" json:"author"`
}
