package model

import "time"

type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RegisterInput carries every name source a client may send.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Name      string
	Email     string
	Password  string
	Role      string
}

type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}
