// Package events carries ledger change notifications from the services to
// whoever is listening. Publishing never fails the write that triggered it.
package events

import (
	"context"
	"time"
)

const (
	TransactionCreated = "transaction_created"
	TransactionUpdated = "transaction_updated"
	TransactionDeleted = "transaction_deleted"
	SplitUpdated       = "split_updated"
	GroupCreated       = "group_created"
	GroupDeleted       = "group_deleted"
	MemberAdded        = "group_member_added"
	MemberUpdated      = "group_member_updated"
	MemberRemoved      = "group_member_removed"
	BalanceAdjusted    = "balance_adjusted"
	InviteCreated      = "invite_created"
	InviteDeactivated  = "invite_deactivated"
	MemberJoined       = "member_joined"
	ProfileCreated     = "profile_created"
	ProfileUpdated     = "profile_updated"
)

// Event is a single notification. Data is encoded as JSON by transports.
type Event struct {
	Name      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

func New(name string, data any) Event {
	return Event{Name: name, Data: data, Timestamp: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Multi fans a single event out to several publishers in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) {
	for _, p := range m {
		p.Publish(ctx, e)
	}
}
