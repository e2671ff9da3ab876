package models

import "time"

// User is the account metadata kept by the user directory.
type User struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Grade     string    `json:"grade,omitempty"`
	Class     string    `json:"class,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserUpdate carries optional field changes. Nil fields are left untouched.
type UserUpdate struct {
	Nickname *string `json:"nickname,omitempty"`
	Grade    *string `json:"grade,omitempty"`
	Class    *string `json:"class,omitempty"`
}

// UserFilter narrows List. Nil fields match everything.
type UserFilter struct {
	Grade *string
	Class *string
}
