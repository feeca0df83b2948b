package domain

import "time"

// User represents an authenticated identity in the service.
// The password hash never leaves the persistence and auth layers.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"hashed_password"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

func (u *User) Active() bool {
	return u != nil && u.IsActive
}
