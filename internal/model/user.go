package model

import "time"

type User struct {
	UUID         string    `db:"uuid" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	RefreshToken *string   `db:"refresh_token" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// PublicUser : поля пользователя, которые можно отдавать клиенту
type PublicUser struct {
	UUID     string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		UUID:     u.UUID,
		Username: u.Username,
		Email:    u.Email,
	}
}
