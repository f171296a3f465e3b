package invite_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tally/internal/events"
	"github.com/MrJamesThe3rd/tally/internal/group"
	"github.com/MrJamesThe3rd/tally/internal/invite"
	"github.com/MrJamesThe3rd/tally/internal/validation"
)

var now = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type capture struct {
	mu    sync.Mutex
	names []string
}

func (c *capture) Publish(_ context.Context, e events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.names = append(c.names, e.Name)
}

func TestNewCode(t *testing.T) {
	seen := make(map[string]bool)

	for range 1000 {
		code := invite.NewCode()
		assert.Len(t, code, 32)
		assert.Regexp(t, `^[0-9a-f]{32}$`, code)
		assert.False(t, seen[code])

		seen[code] = true
	}
}

func TestService_Create(t *testing.T) {
	groupID := uuid.New()

	tests := []struct {
		name      string
		params    invite.CreateParams
		setupMock func(m *invite.MockRepository)
		wantErr   error
		wantField string
	}{
		{
			name:   "Unlimited",
			params: invite.CreateParams{GroupID: groupID, InvitedBy: "Ana"},
			setupMock: func(m *invite.MockRepository) {
				m.EXPECT().CreateInvite(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, inv *invite.Invite) error {
						assert.Len(t, inv.Code, 32)
						assert.True(t, inv.IsActive)
						assert.Zero(t, inv.CurrentUses)
						assert.Nil(t, inv.MaxUses)

						inv.ID = uuid.New()

						return nil
					})
			},
		},
		{
			name:   "RetriesOnCodeCollision",
			params: invite.CreateParams{GroupID: groupID, InvitedBy: "Ana", MaxUses: new(3)},
			setupMock: func(m *invite.MockRepository) {
				gomock.InOrder(
					m.EXPECT().CreateInvite(gomock.Any(), gomock.Any()).Return(invite.ErrCodeTaken),
					m.EXPECT().CreateInvite(gomock.Any(), gomock.Any()).Return(nil),
				)
			},
		},
		{
			name:   "UnknownGroup",
			params: invite.CreateParams{GroupID: groupID, InvitedBy: "Ana"},
			setupMock: func(m *invite.MockRepository) {
				m.EXPECT().CreateInvite(gomock.Any(), gomock.Any()).Return(group.ErrNotFound)
			},
			wantErr: group.ErrNotFound,
		},
		{
			name:      "ZeroMaxUses",
			params:    invite.CreateParams{GroupID: groupID, InvitedBy: "Ana", MaxUses: new(0)},
			wantField: "maxUses",
		},
		{
			name:      "ExpiryInThePast",
			params:    invite.CreateParams{GroupID: groupID, InvitedBy: "Ana", ExpiresAt: new(now.Add(-time.Minute))},
			wantField: "expiresAt",
		},
		{
			name:      "MissingInviter",
			params:    invite.CreateParams{GroupID: groupID},
			wantField: "invitedBy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invite.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			pub := &capture{}
			svc := invite.NewService(repo, nil, pub).WithClock(clock)

			got, err := svc.Create(context.Background(), tt.params)

			switch {
			case tt.wantField != "":
				var verr *validation.Error
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, tt.wantField)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, groupID, got.GroupID)
				assert.Equal(t, []string{events.InviteCreated}, pub.names)
			}
		})
	}
}

func TestService_Redeem(t *testing.T) {
	type testCase struct {
		name        string
		invite      func(groupID uuid.UUID) *invite.Invite
		redeemAs    []string
		wantErrs    []error
		wantMembers int
		wantUses    int
	}

	tests := []testCase{
		{
			name: "SingleUseThenExhausted",
			invite: func(groupID uuid.UUID) *invite.Invite {
				return &invite.Invite{GroupID: groupID, Code: "single", MaxUses: new(1), IsActive: true}
			},
			redeemAs:    []string{"Carla", "Duarte"},
			wantErrs:    []error{nil, invite.ErrExhausted},
			wantMembers: 3,
			wantUses:    1,
		},
		{
			name: "ExpiredRegardlessOfUses",
			invite: func(groupID uuid.UUID) *invite.Invite {
				return &invite.Invite{GroupID: groupID, Code: "old", MaxUses: new(10), ExpiresAt: new(now.Add(-time.Second)), IsActive: true}
			},
			redeemAs:    []string{"Carla"},
			wantErrs:    []error{invite.ErrExpired},
			wantMembers: 2,
			wantUses:    0,
		},
		{
			name: "ExpiryInTheFutureIsFine",
			invite: func(groupID uuid.UUID) *invite.Invite {
				return &invite.Invite{GroupID: groupID, Code: "fresh", ExpiresAt: new(now.Add(time.Hour)), IsActive: true}
			},
			redeemAs:    []string{"Carla", "Duarte"},
			wantErrs:    []error{nil, nil},
			wantMembers: 4,
			wantUses:    2,
		},
		{
			name: "Deactivated",
			invite: func(groupID uuid.UUID) *invite.Invite {
				return &invite.Invite{GroupID: groupID, Code: "off", IsActive: false}
			},
			redeemAs:    []string{"Carla"},
			wantErrs:    []error{invite.ErrNotFound},
			wantMembers: 2,
		},
		{
			name: "DuplicateNameDoesNotConsumeUse",
			invite: func(groupID uuid.UUID) *invite.Invite {
				return &invite.Invite{GroupID: groupID, Code: "dup", MaxUses: new(1), IsActive: true}
			},
			redeemAs:    []string{"ana", "Carla"},
			wantErrs:    []error{group.ErrDuplicateMember, nil},
			wantMembers: 3,
			wantUses:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(true)
			g := store.addGroup("Trip", "Ana", "Bruno")

			inv := tt.invite(g.ID)
			store.addInvite(inv)

			svc := invite.NewService(store, groupReader{store}, nil).WithClock(clock)

			for i, name := range tt.redeemAs {
				got, err := svc.Redeem(context.Background(), inv.Code, invite.RedeemParams{MemberName: name})

				if tt.wantErrs[i] != nil {
					assert.ErrorIs(t, err, tt.wantErrs[i], "redemption %d", i)
					assert.Nil(t, got)

					continue
				}

				require.NoError(t, err, "redemption %d", i)
				assert.Equal(t, name, got.Member.Name)
				assert.True(t, got.Member.OpeningBalance.IsZero())
				assert.Equal(t, g.ID, got.Group.ID)
				assert.Contains(t, memberNames(got.Group), name)
			}

			assert.Equal(t, tt.wantMembers, store.memberCount(g.ID))
			assert.Equal(t, tt.wantUses, store.invite(inv.Code).CurrentUses)
		})
	}

	t.Run("UnknownCode", func(t *testing.T) {
		store := newMemStore(true)
		svc := invite.NewService(store, groupReader{store}, nil).WithClock(clock)

		_, err := svc.Redeem(context.Background(), "nope", invite.RedeemParams{MemberName: "Carla"})
		assert.ErrorIs(t, err, invite.ErrNotFound)
	})

	t.Run("MissingName", func(t *testing.T) {
		store := newMemStore(true)
		svc := invite.NewService(store, groupReader{store}, nil)

		_, err := svc.Redeem(context.Background(), "any", invite.RedeemParams{MemberName: " "})
		assert.True(t, validation.Is(err))
	})
}

func TestService_Redeem_Concurrent(t *testing.T) {
	for _, lockRows := range []bool{true, false} {
		name := "RowLock"
		if !lockRows {
			name = "ConditionalIncrementOnly"
		}

		t.Run(name, func(t *testing.T) {
			store := newMemStore(lockRows)
			g := store.addGroup("Trip", "Ana")

			inv := &invite.Invite{GroupID: g.ID, Code: "race", MaxUses: new(1), IsActive: true}
			store.addInvite(inv)

			pub := &capture{}
			svc := invite.NewService(store, groupReader{store}, pub).WithClock(clock)

			const workers = 16

			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				exhausted int
			)

			start := make(chan struct{})

			for i := range workers {
				wg.Add(1)

				go func() {
					defer wg.Done()
					<-start

					_, err := svc.Redeem(context.Background(), "race", invite.RedeemParams{
						MemberName: "Guest " + uuid.NewString()[:8] + string(rune('A'+i)),
					})

					mu.Lock()
					defer mu.Unlock()

					switch {
					case err == nil:
						successes++
					case errors.Is(err, invite.ErrExhausted):
						exhausted++
					default:
						t.Errorf("unexpected error: %v", err)
					}
				}()
			}

			close(start)
			wg.Wait()

			assert.Equal(t, 1, successes)
			assert.Equal(t, workers-1, exhausted)
			assert.Equal(t, 2, store.memberCount(g.ID))
			assert.Equal(t, 1, store.invite("race").CurrentUses)
			assert.Equal(t, []string{events.MemberJoined}, pub.names)
		})
	}
}

func TestService_Deactivate(t *testing.T) {
	store := newMemStore(true)
	g := store.addGroup("Trip")

	inv := &invite.Invite{GroupID: g.ID, Code: "bye", IsActive: true}
	store.addInvite(inv)

	svc := invite.NewService(store, groupReader{store}, nil).WithClock(clock)

	for range 2 {
		got, err := svc.Deactivate(context.Background(), inv.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	}

	_, err := svc.Redeem(context.Background(), "bye", invite.RedeemParams{MemberName: "Carla"})
	assert.ErrorIs(t, err, invite.ErrNotFound)

	_, err = svc.Deactivate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, invite.ErrNotFound)
}

func TestService_Lookup(t *testing.T) {
	store := newMemStore(true)
	g := store.addGroup("Trip", "Ana")

	store.addInvite(&invite.Invite{GroupID: g.ID, Code: "open", IsActive: true})
	store.addInvite(&invite.Invite{GroupID: g.ID, Code: "closed", IsActive: false})

	svc := invite.NewService(store, groupReader{store}, nil)

	inv, got, err := svc.Lookup(context.Background(), "open")
	require.NoError(t, err)
	assert.Equal(t, "open", inv.Code)
	assert.Equal(t, "Trip", got.Name)

	_, _, err = svc.Lookup(context.Background(), "closed")
	assert.ErrorIs(t, err, invite.ErrNotFound)

	list, err := svc.ListByGroup(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestInvite_Usable(t *testing.T) {
	tests := []struct {
		name string
		inv  invite.Invite
		want bool
	}{
		{name: "Active", inv: invite.Invite{IsActive: true}, want: true},
		{name: "Inactive", inv: invite.Invite{}, want: false},
		{name: "AtCap", inv: invite.Invite{IsActive: true, MaxUses: new(2), CurrentUses: 2}, want: false},
		{name: "BelowCap", inv: invite.Invite{IsActive: true, MaxUses: new(2), CurrentUses: 1}, want: true},
		{name: "Expired", inv: invite.Invite{IsActive: true, ExpiresAt: new(now.Add(-time.Nanosecond))}, want: false},
		{name: "ExactlyAtExpiry", inv: invite.Invite{IsActive: true, ExpiresAt: new(now)}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.inv.Usable(now))
		})
	}
}

func memberNames(g *group.Group) []string {
	var out []string
	for _, m := range g.Members {
		out = append(out, m.Name)
	}

	return out
}
