package models

import "time"

// Post is a user's post. Author is joined from the users table on reads.
type Post struct {
	ID        int64     `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	UserID    int64     `db:"user_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	Author    UserInfo  `db:"author" json:"author"`
}

// PostPage is one offset-based slice of a newest-first post listing.
type PostPage struct {
	Posts      []*Post `json:"posts"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalItems int64   `json:"total_items"`
	TotalPages int     `json:"total_pages"`
}
