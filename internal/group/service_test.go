package group_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/group"
	"github.com/MrJamesThe3rd/tally/internal/validation"
)

type capture struct {
	names []string
}

func (c *capture) Publish(_ context.Context, e events.Event) {
	c.names = append(c.names, e.Name)
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name      string
		params    group.CreateParams
		setupMock func(m *group.MockRepository)
		wantField string
		wantCount int
	}{
		{
			name: "WithMembers",
			params: group.CreateParams{
				Name: "  Flat 3B ",
				Members: []group.MemberParams{
					{Name: "Ana", OpeningBalance: decimal.RequireFromString("12.345")},
					{Name: "Bruno", Email: "bruno@example.com"},
				},
			},
			setupMock: func(m *group.MockRepository) {
				m.EXPECT().CreateGroup(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, g *group.Group) error {
						assert.Equal(t, "Flat 3B", g.Name)
						assert.Equal(t, "12.35", g.Members[0].OpeningBalance.StringFixed(2))

						g.ID = uuid.New()
						g.CreatedAt = time.Now()

						return nil
					})
			},
			wantCount: 2,
		},
		{
			name:      "MissingName",
			params:    group.CreateParams{},
			wantField: "name",
		},
		{
			name: "DuplicateMemberNames",
			params: group.CreateParams{
				Name:    "Trip",
				Members: []group.MemberParams{{Name: "Ana"}, {Name: "ana"}},
			},
			wantField: "members",
		},
		{
			name: "InvalidMemberEmail",
			params: group.CreateParams{
				Name:    "Trip",
				Members: []group.MemberParams{{Name: "Ana", Email: "not-an-email"}},
			},
			wantField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := group.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			pub := &capture{}
			got, err := group.NewService(repo, pub).Create(context.Background(), tt.params)

			if tt.wantField != "" {
				var verr *validation.Error
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, tt.wantField)
				assert.Empty(t, pub.names)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, got.MemberCount)
			assert.Equal(t, []string{events.GroupCreated}, pub.names)
		})
	}
}

func TestService_AddMember(t *testing.T) {
	groupID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := group.NewMockRepository(ctrl)
		repo.EXPECT().AddMember(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, m *group.Member) error {
				m.ID = uuid.New()
				return nil
			})

		pub := &capture{}
		m, err := group.NewService(repo, pub).AddMember(context.Background(), groupID, group.MemberParams{Name: " Carla "})
		require.NoError(t, err)
		assert.Equal(t, "Carla", m.Name)
		assert.Equal(t, groupID, m.GroupID)
		assert.True(t, m.OpeningBalance.IsZero())
		assert.Equal(t, []string{events.MemberAdded}, pub.names)
	})

	t.Run("Duplicate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := group.NewMockRepository(ctrl)
		repo.EXPECT().AddMember(gomock.Any(), gomock.Any()).Return(group.ErrDuplicateMember)

		_, err := group.NewService(repo, nil).AddMember(context.Background(), groupID, group.MemberParams{Name: "Ana"})
		assert.ErrorIs(t, err, group.ErrDuplicateMember)
	})

	t.Run("EmptyName", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := group.NewMockRepository(ctrl)

		_, err := group.NewService(repo, nil).AddMember(context.Background(), groupID, group.MemberParams{Name: "  "})
		assert.True(t, validation.Is(err))
	})
}

func TestService_UpdateMember(t *testing.T) {
	groupID, memberID := uuid.New(), uuid.New()

	ctrl := gomock.NewController(t)
	repo := group.NewMockRepository(ctrl)
	repo.EXPECT().GetMember(gomock.Any(), groupID, memberID).Return(&group.Member{
		ID: memberID, GroupID: groupID, Name: "Bob", Email: "bob@example.com",
	}, nil)
	repo.EXPECT().UpdateMember(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, m *group.Member) error {
			assert.Equal(t, "Robert", m.Name)
			assert.Equal(t, "bob@example.com", m.Email)

			return nil
		})

	got, err := group.NewService(repo, nil).UpdateMember(context.Background(), groupID, memberID, group.UpdateMemberParams{
		Name: new("Robert"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Robert", got.Name)
}

func TestService_RemoveMember(t *testing.T) {
	groupID, memberID := uuid.New(), uuid.New()

	ctrl := gomock.NewController(t)
	repo := group.NewMockRepository(ctrl)
	repo.EXPECT().DeleteMember(gomock.Any(), groupID, memberID).Return(group.ErrMemberNotFound)

	err := group.NewService(repo, nil).RemoveMember(context.Background(), groupID, memberID)
	assert.ErrorIs(t, err, group.ErrMemberNotFound)
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()

	ctrl := gomock.NewController(t)
	repo := group.NewMockRepository(ctrl)
	repo.EXPECT().DeleteGroup(gomock.Any(), id).Return(nil)

	pub := &capture{}
	require.NoError(t, group.NewService(repo, pub).Delete(context.Background(), id))
	assert.Equal(t, []string{events.GroupDeleted}, pub.names)
}
