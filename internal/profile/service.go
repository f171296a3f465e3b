package profile

import (
	"context"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=profile
type Repository interface {
	CreateProfile(ctx context.Context, p *Profile) error
	GetProfile(ctx context.Context, id string) (*Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) error
	DeleteProfile(ctx context.Context, id string) error
	// PublicNameTaken reports whether another profile than excludeID uses name.
	PublicNameTaken(ctx context.Context, name, excludeID string) (bool, error)
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

const (
	defaultCurrency = "EUR"
	defaultLanguage = "en"
)

type CreateParams struct {
	PublicName string `validate:"required,min=2,max=50"`
	Email      string `validate:"omitempty,email"`
	Currency   string `validate:"omitempty,len=3"`
	Language   string `validate:"omitempty,min=2,max=8"`
}

func (p *CreateParams) normalize() {
	p.PublicName = strings.TrimSpace(p.PublicName)
	p.Email = strings.TrimSpace(p.Email)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	p.Language = strings.ToLower(strings.TrimSpace(p.Language))
}

func (s *Service) Create(ctx context.Context, id string, params CreateParams) (*Profile, error) {
	params.normalize()

	verr := validation.Struct(params)
	if strings.TrimSpace(id) == "" {
		verr.Add("id", "is required")
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, params.PublicName, id); err != nil {
		return nil, err
	}

	p := &Profile{
		ID:         id,
		PublicName: params.PublicName,
		Email:      params.Email,
		Currency:   orDefault(params.Currency, defaultCurrency),
		Language:   orDefault(params.Language, defaultLanguage),
	}
	if err := s.repo.CreateProfile(ctx, p); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.ProfileCreated, p))

	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetProfile(ctx, id)
}

type UpdateParams struct {
	PublicName *string
	Email      *string
	Currency   *string
	Language   *string
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	next := CreateParams{PublicName: p.PublicName, Email: p.Email, Currency: p.Currency, Language: p.Language}

	if params.PublicName != nil {
		next.PublicName = *params.PublicName
	}

	if params.Email != nil {
		next.Email = *params.Email
	}

	if params.Currency != nil {
		next.Currency = *params.Currency
	}

	if params.Language != nil {
		next.Language = *params.Language
	}

	next.normalize()

	if err := validation.Struct(next).Err(); err != nil {
		return nil, err
	}

	if !strings.EqualFold(next.PublicName, p.PublicName) {
		if err := s.ensureNameFree(ctx, next.PublicName, id); err != nil {
			return nil, err
		}
	}

	p.PublicName = next.PublicName
	p.Email = next.Email
	p.Currency = orDefault(next.Currency, defaultCurrency)
	p.Language = orDefault(next.Language, defaultLanguage)

	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.ProfileUpdated, p))

	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteProfile(ctx, id)
}

// ensureNameFree is the early check; the unique index catches the race.
func (s *Service) ensureNameFree(ctx context.Context, name, id string) error {
	taken, err := s.repo.PublicNameTaken(ctx, name, id)
	if err != nil {
		return err
	}

	if taken {
		return ErrNameTaken
	}

	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}

	return v
}
