package group

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=group
type Repository interface {
	CreateGroup(ctx context.Context, g *Group) error
	GetGroup(ctx context.Context, id uuid.UUID) (*Group, error)
	ListGroups(ctx context.Context) ([]*Group, error)
	DeleteGroup(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, m *Member) error
	GetMember(ctx context.Context, groupID, memberID uuid.UUID) (*Member, error)
	UpdateMember(ctx context.Context, m *Member) error
	DeleteMember(ctx context.Context, groupID, memberID uuid.UUID) error
}

type Service struct {
	repo      Repository
	publisher events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}

	return &Service{repo: repo, publisher: publisher}
}

type MemberParams struct {
	Name           string `validate:"required,max=100"`
	Email          string `validate:"omitempty,email"`
	OpeningBalance decimal.Decimal
}

type CreateParams struct {
	Name        string         `validate:"required,max=100"`
	Description string         `validate:"max=500"`
	Members     []MemberParams `validate:"dive"`
}

func (p *CreateParams) validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)

	for i := range p.Members {
		p.Members[i].Name = strings.TrimSpace(p.Members[i].Name)
	}

	verr := validation.Struct(p)

	seen := make(map[string]bool, len(p.Members))
	for _, m := range p.Members {
		key := strings.ToLower(m.Name)
		if seen[key] {
			verr.Add("members", fmt.Sprintf("duplicate member name %q", m.Name))
		}

		seen[key] = true
	}

	return verr.Err()
}

// Create stores a group together with its initial members.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Group, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	g := &Group{Name: params.Name, Description: params.Description}
	for _, m := range params.Members {
		g.Members = append(g.Members, Member{
			Name:           m.Name,
			Email:          strings.TrimSpace(m.Email),
			OpeningBalance: m.OpeningBalance.Round(2),
		})
	}

	if err := s.repo.CreateGroup(ctx, g); err != nil {
		return nil, err
	}

	g.MemberCount = len(g.Members)

	s.publisher.Publish(ctx, events.New(events.GroupCreated, g))

	return g, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Group, error) {
	return s.repo.GetGroup(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Group, error) {
	return s.repo.ListGroups(ctx)
}

// Delete removes the group along with its members, invites and transactions.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteGroup(ctx, id); err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.New(events.GroupDeleted, map[string]string{"id": id.String()}))

	return nil
}

func (s *Service) AddMember(ctx context.Context, groupID uuid.UUID, params MemberParams) (*Member, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Email = strings.TrimSpace(params.Email)

	if err := validation.Struct(params).Err(); err != nil {
		return nil, err
	}

	m := &Member{
		GroupID:        groupID,
		Name:           params.Name,
		Email:          params.Email,
		OpeningBalance: params.OpeningBalance.Round(2),
	}
	if err := s.repo.AddMember(ctx, m); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.MemberAdded, m))

	return m, nil
}

type UpdateMemberParams struct {
	Name  *string
	Email *string
}

// UpdateMember changes a member's name or email. Splits recorded under the
// old name keep that name.
func (s *Service) UpdateMember(ctx context.Context, groupID, memberID uuid.UUID, params UpdateMemberParams) (*Member, error) {
	m, err := s.repo.GetMember(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		m.Name = strings.TrimSpace(*params.Name)
	}

	if params.Email != nil {
		m.Email = strings.TrimSpace(*params.Email)
	}

	if err := validation.Struct(MemberParams{Name: m.Name, Email: m.Email}).Err(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateMember(ctx, m); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.MemberUpdated, m))

	return m, nil
}

func (s *Service) RemoveMember(ctx context.Context, groupID, memberID uuid.UUID) error {
	if err := s.repo.DeleteMember(ctx, groupID, memberID); err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.New(events.MemberRemoved, map[string]string{
		"groupId":  groupID.String(),
		"memberId": memberID.String(),
	}))

	return nil
}
