package models

import "time"

// User is a registered account. The password hash is never serialized.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Bio          string    `db:"bio" json:"bio"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserInfo is the lightweight author projection embedded in posts and comments.
type UserInfo struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}
