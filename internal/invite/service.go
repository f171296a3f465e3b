package invite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/group"
	"github.com/MrJamesThe3rd/tally/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invite
type Repository interface {
	CreateInvite(ctx context.Context, inv *Invite) error
	GetByCode(ctx context.Context, code string) (*Invite, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Invite, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Invite, error)

	BeginRedeem(ctx context.Context) (RedeemTx, error)
}

// RedeemTx runs one redemption. The invite row stays locked from LockByCode
// until Commit or Rollback.
type RedeemTx interface {
	LockByCode(ctx context.Context, code string) (*Invite, error)
	AddMember(ctx context.Context, m *group.Member) error
	// IncrementUses bumps the use count only while it is below the cap and
	// returns ErrExhausted otherwise.
	IncrementUses(ctx context.Context, id uuid.UUID) (int, error)
	Group(ctx context.Context, id uuid.UUID) (*group.Group, error)
	Commit() error
	Rollback() error
}

// GroupReader resolves the group behind an invite for display.
type GroupReader interface {
	Get(ctx context.Context, id uuid.UUID) (*group.Group, error)
}

type Service struct {
	repo      Repository
	groups    GroupReader
	publisher events.Publisher
	now       func() time.Time
}

func NewService(repo Repository, groups GroupReader, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}

	return &Service{repo: repo, groups: groups, publisher: publisher, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateParams struct {
	GroupID   uuid.UUID
	InvitedBy string `validate:"required,max=100"`
	MaxUses   *int
	ExpiresAt *time.Time
}

const codeAttempts = 3

// NewCode returns a 32 character hex token with 122 random bits.
func NewCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Invite, error) {
	params.InvitedBy = strings.TrimSpace(params.InvitedBy)

	verr := validation.Struct(params)
	if params.MaxUses != nil && *params.MaxUses < 1 {
		verr.Add("maxUses", "must be at least 1")
	}

	if params.ExpiresAt != nil && !params.ExpiresAt.After(s.now()) {
		verr.Add("expiresAt", "must be in the future")
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}

	inv := &Invite{
		GroupID:   params.GroupID,
		InvitedBy: params.InvitedBy,
		MaxUses:   params.MaxUses,
		ExpiresAt: params.ExpiresAt,
		IsActive:  true,
	}

	var err error

	for range codeAttempts {
		inv.Code = NewCode()

		err = s.repo.CreateInvite(ctx, inv)
		if !errors.Is(err, ErrCodeTaken) {
			break
		}
	}

	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.InviteCreated, inv))

	return inv, nil
}

func (s *Service) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Invite, error) {
	return s.repo.ListByGroup(ctx, groupID)
}

// Lookup returns an active invite and the group it leads to.
func (s *Service) Lookup(ctx context.Context, code string) (*Invite, *group.Group, error) {
	inv, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	if !inv.IsActive {
		return nil, nil, ErrNotFound
	}

	g, err := s.groups.Get(ctx, inv.GroupID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading group: %w", err)
	}

	return inv, g, nil
}

type RedeemParams struct {
	MemberName  string `validate:"required,max=100"`
	MemberEmail string `validate:"omitempty,email"`
}

type Redemption struct {
	Invite *Invite
	Group  *group.Group
	Member *group.Member
}

// Redeem adds a new member to the invite's group. The checks and the use
// count increment happen under the invite's row lock, so concurrent
// redemptions cannot push the count past the cap.
func (s *Service) Redeem(ctx context.Context, code string, params RedeemParams) (*Redemption, error) {
	params.MemberName = strings.TrimSpace(params.MemberName)
	params.MemberEmail = strings.TrimSpace(params.MemberEmail)

	if err := validation.Struct(params).Err(); err != nil {
		return nil, err
	}

	rtx, err := s.repo.BeginRedeem(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin redeem: %w", err)
	}
	defer rtx.Rollback()

	inv, err := rtx.LockByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	switch {
	case !inv.IsActive:
		return nil, ErrNotFound
	case inv.Expired(s.now()):
		return nil, ErrExpired
	case inv.Exhausted():
		return nil, ErrExhausted
	}

	member := &group.Member{
		GroupID:        inv.GroupID,
		Name:           params.MemberName,
		Email:          params.MemberEmail,
		OpeningBalance: decimal.Zero,
	}
	if err := rtx.AddMember(ctx, member); err != nil {
		return nil, err
	}

	uses, err := rtx.IncrementUses(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	inv.CurrentUses = uses

	g, err := rtx.Group(ctx, inv.GroupID)
	if err != nil {
		return nil, fmt.Errorf("loading group: %w", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit redeem: %w", err)
	}

	s.publisher.Publish(ctx, events.New(events.MemberJoined, map[string]any{
		"groupId": g.ID,
		"member":  member,
	}))

	return &Redemption{Invite: inv, Group: g, Member: member}, nil
}

// Deactivate switches an invite off for good. Repeating it is harmless.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*Invite, error) {
	inv, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.InviteDeactivated, inv))

	return inv, nil
}
