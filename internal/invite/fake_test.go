package invite_test

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/group"
	"github.com/MrJamesThe3rd/tally/internal/invite"
)

// memStore keeps invites and members in memory and mimics the row locking
// and conditional increment of the SQL store.
type memStore struct {
	mu       sync.Mutex
	lockRows bool
	invites  map[string]*invite.Invite
	rowLocks map[uuid.UUID]*sync.Mutex
	groups   map[uuid.UUID]*group.Group
}

func newMemStore(lockRows bool) *memStore {
	return &memStore{
		lockRows: lockRows,
		invites:  make(map[string]*invite.Invite),
		rowLocks: make(map[uuid.UUID]*sync.Mutex),
		groups:   make(map[uuid.UUID]*group.Group),
	}
}

func (s *memStore) addGroup(name string, members ...string) *group.Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := &group.Group{ID: uuid.New(), Name: name}
	for _, m := range members {
		g.Members = append(g.Members, group.Member{ID: uuid.New(), GroupID: g.ID, Name: m})
	}

	s.groups[g.ID] = g

	return g
}

func (s *memStore) addInvite(inv *invite.Invite) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv.ID = uuid.New()
	s.invites[inv.Code] = inv
	s.rowLocks[inv.ID] = &sync.Mutex{}
}

func (s *memStore) memberCount(groupID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.groups[groupID].Members)
}

func (s *memStore) invite(code string) invite.Invite {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.invites[code]
}

func (s *memStore) CreateInvite(_ context.Context, inv *invite.Invite) error {
	s.addInvite(inv)
	return nil
}

func (s *memStore) GetByCode(_ context.Context, code string) (*invite.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invites[code]
	if !ok {
		return nil, invite.ErrNotFound
	}

	cp := *inv

	return &cp, nil
}

func (s *memStore) ListByGroup(_ context.Context, groupID uuid.UUID) ([]*invite.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*invite.Invite

	for _, inv := range s.invites {
		if inv.GroupID == groupID {
			cp := *inv
			out = append(out, &cp)
		}
	}

	return out, nil
}

func (s *memStore) Deactivate(_ context.Context, id uuid.UUID) (*invite.Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inv := range s.invites {
		if inv.ID == id {
			inv.IsActive = false
			cp := *inv

			return &cp, nil
		}
	}

	return nil, invite.ErrNotFound
}

func (s *memStore) BeginRedeem(context.Context) (invite.RedeemTx, error) {
	return &memTx{s: s}, nil
}

type memTx struct {
	s           *memStore
	held        *sync.Mutex
	staged      []group.Member
	incremented *invite.Invite
	done        bool
}

func (t *memTx) LockByCode(_ context.Context, code string) (*invite.Invite, error) {
	t.s.mu.Lock()
	inv, ok := t.s.invites[code]

	var lock *sync.Mutex
	if ok {
		lock = t.s.rowLocks[inv.ID]
	}
	t.s.mu.Unlock()

	if !ok {
		return nil, invite.ErrNotFound
	}

	if t.s.lockRows {
		lock.Lock()
		t.held = lock
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	cp := *inv

	return &cp, nil
}

func (t *memTx) AddMember(_ context.Context, m *group.Member) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	g, ok := t.s.groups[m.GroupID]
	if !ok {
		return group.ErrNotFound
	}

	for _, list := range [][]group.Member{g.Members, t.staged} {
		for _, existing := range list {
			if strings.EqualFold(existing.Name, m.Name) {
				return group.ErrDuplicateMember
			}
		}
	}

	m.ID = uuid.New()
	t.staged = append(t.staged, *m)

	return nil
}

func (t *memTx) IncrementUses(_ context.Context, id uuid.UUID) (int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	for _, inv := range t.s.invites {
		if inv.ID != id {
			continue
		}

		if !inv.IsActive || (inv.MaxUses != nil && inv.CurrentUses >= *inv.MaxUses) {
			return 0, invite.ErrExhausted
		}

		inv.CurrentUses++
		t.incremented = inv

		return inv.CurrentUses, nil
	}

	return 0, invite.ErrNotFound
}

func (t *memTx) Group(_ context.Context, id uuid.UUID) (*group.Group, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	g, ok := t.s.groups[id]
	if !ok {
		return nil, group.ErrNotFound
	}

	cp := *g
	cp.Members = append(append([]group.Member(nil), g.Members...), t.staged...)
	cp.MemberCount = len(cp.Members)

	return &cp, nil
}

func (t *memTx) Commit() error {
	t.s.mu.Lock()
	for _, m := range t.staged {
		g := t.s.groups[m.GroupID]
		g.Members = append(g.Members, m)
	}
	t.s.mu.Unlock()

	t.finish()

	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}

	t.s.mu.Lock()
	if t.incremented != nil {
		t.incremented.CurrentUses--
	}
	t.s.mu.Unlock()

	t.finish()

	return nil
}

func (t *memTx) finish() {
	t.done = true

	if t.held != nil {
		t.held.Unlock()
		t.held = nil
	}
}

type groupReader struct {
	s *memStore
}

func (r groupReader) Get(_ context.Context, id uuid.UUID) (*group.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	g, ok := r.s.groups[id]
	if !ok {
		return nil, group.ErrNotFound
	}

	return g, nil
}
