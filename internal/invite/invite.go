package invite

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("invite not found")
	ErrExpired   = errors.New("invite has expired")
	ErrExhausted = errors.New("invite has reached its maximum uses")
	ErrCodeTaken = errors.New("invite code already in use")
)

// Invite grants membership of a group to whoever presents its code, until it
// expires, runs out of uses, or is deactivated.
type Invite struct {
	ID          uuid.UUID
	GroupID     uuid.UUID
	Code        string
	InvitedBy   string
	ExpiresAt   *time.Time
	MaxUses     *int // nil means unlimited
	CurrentUses int
	IsActive    bool
	CreatedAt   time.Time
}

func (i *Invite) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

func (i *Invite) Exhausted() bool {
	return i.MaxUses != nil && i.CurrentUses >= *i.MaxUses
}

// Usable reports whether a redemption at now would be accepted.
func (i *Invite) Usable(now time.Time) bool {
	return i.IsActive && !i.Expired(now) && !i.Exhausted()
}
