package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/profile"
	"github.com/MrJamesThe3rd/tally/internal/validation"
)

func TestService_Create(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		params    profile.CreateParams
		setupMock func(m *profile.MockRepository)
		wantErr   error
		wantField string
		check     func(t *testing.T, p *profile.Profile)
	}{
		{
			name:   "AppliesDefaults",
			id:     "user-1",
			params: profile.CreateParams{PublicName: " ana ", Email: "ana@example.com"},
			setupMock: func(m *profile.MockRepository) {
				m.EXPECT().PublicNameTaken(gomock.Any(), "ana", "user-1").Return(false, nil)
				m.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, p *profile.Profile) {
				assert.Equal(t, "user-1", p.ID)
				assert.Equal(t, "ana", p.PublicName)
				assert.Equal(t, "EUR", p.Currency)
				assert.Equal(t, "en", p.Language)
			},
		},
		{
			name:   "NormalizesCurrency",
			id:     "user-1",
			params: profile.CreateParams{PublicName: "ana", Currency: "usd", Language: "PT"},
			setupMock: func(m *profile.MockRepository) {
				m.EXPECT().PublicNameTaken(gomock.Any(), "ana", "user-1").Return(false, nil)
				m.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, p *profile.Profile) {
				assert.Equal(t, "USD", p.Currency)
				assert.Equal(t, "pt", p.Language)
			},
		},
		{
			name:   "NameTaken",
			id:     "user-2",
			params: profile.CreateParams{PublicName: "ana"},
			setupMock: func(m *profile.MockRepository) {
				m.EXPECT().PublicNameTaken(gomock.Any(), "ana", "user-2").Return(true, nil)
			},
			wantErr: profile.ErrNameTaken,
		},
		{
			name:   "NameTakenByConcurrentWrite",
			id:     "user-2",
			params: profile.CreateParams{PublicName: "ana"},
			setupMock: func(m *profile.MockRepository) {
				m.EXPECT().PublicNameTaken(gomock.Any(), "ana", "user-2").Return(false, nil)
				m.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).Return(profile.ErrNameTaken)
			},
			wantErr: profile.ErrNameTaken,
		},
		{
			name:      "MissingIdentity",
			params:    profile.CreateParams{PublicName: "ana"},
			wantField: "id",
		},
		{
			name:      "BadCurrency",
			id:        "user-1",
			params:    profile.CreateParams{PublicName: "ana", Currency: "EURO"},
			wantField: "currency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := profile.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := profile.NewService(repo, nil).Create(context.Background(), tt.id, tt.params)

			switch {
			case tt.wantField != "":
				var verr *validation.Error
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, tt.wantField)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				tt.check(t, got)
			}
		})
	}
}

func TestService_Update(t *testing.T) {
	current := func() *profile.Profile {
		return &profile.Profile{ID: "user-1", PublicName: "ana", Currency: "EUR", Language: "en"}
	}

	t.Run("SameNameSkipsUniquenessCheck", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := profile.NewMockRepository(ctrl)
		repo.EXPECT().GetProfile(gomock.Any(), "user-1").Return(current(), nil)
		repo.EXPECT().UpdateProfile(gomock.Any(), gomock.Any()).Return(nil)

		got, err := profile.NewService(repo, nil).Update(context.Background(), "user-1", profile.UpdateParams{
			PublicName: new("Ana"),
			Language:   new("pt"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.PublicName)
		assert.Equal(t, "pt", got.Language)
		assert.Equal(t, "EUR", got.Currency)
	})

	t.Run("RenameToTakenName", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := profile.NewMockRepository(ctrl)
		repo.EXPECT().GetProfile(gomock.Any(), "user-1").Return(current(), nil)
		repo.EXPECT().PublicNameTaken(gomock.Any(), "bruno", "user-1").Return(true, nil)

		_, err := profile.NewService(repo, nil).Update(context.Background(), "user-1", profile.UpdateParams{
			PublicName: new("bruno"),
		})
		assert.ErrorIs(t, err, profile.ErrNameTaken)
	})

	t.Run("Missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := profile.NewMockRepository(ctrl)
		repo.EXPECT().GetProfile(gomock.Any(), "ghost").Return(nil, profile.ErrNotFound)

		_, err := profile.NewService(repo, nil).Update(context.Background(), "ghost", profile.UpdateParams{})
		assert.ErrorIs(t, err, profile.ErrNotFound)
	})
}
