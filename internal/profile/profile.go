package profile

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("profile not found")
	ErrNameTaken = errors.New("public name already taken")
	ErrExists    = errors.New("profile already exists")
)

// Profile belongs to an authenticated caller. ID is the caller's identity as
// issued by the identity provider.
type Profile struct {
	ID         string
	PublicName string
	Email      string
	Currency   string
	Language   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
