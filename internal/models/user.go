package models

// User is a registered account. PasswordHash is a bcrypt hash and is never serialized.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
