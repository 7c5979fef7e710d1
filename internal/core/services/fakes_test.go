package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"sensitive-field-gate/internal/core/domain"
)

const (
	testUser       = domain.Identity("5f0c3f0e-8d7a-4b8e-9a55-0c3d8c1f2a11")
	testPrivileged = domain.Identity("9b1d2c3e-1111-4a2b-8c3d-4e5f6a7b8c9d")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRoleRepository is an in-memory role store that counts lookups.
type fakeRoleRepository struct {
	mu       sync.Mutex
	members  map[string]map[string]bool
	err      error
	lookups  int
	lastRole string
}

func newFakeRoleRepository() *fakeRoleRepository {
	return &fakeRoleRepository{members: make(map[string]map[string]bool)}
}

func (f *fakeRoleRepository) HasRole(_ context.Context, user, role string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	f.lastRole = role
	if f.err != nil {
		return false, f.err
	}
	return f.members[user][role], nil
}

func (f *fakeRoleRepository) AddRoleForUser(_ context.Context, user, role string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.members[user] == nil {
		f.members[user] = make(map[string]bool)
	}
	if f.members[user][role] {
		return false, nil
	}
	f.members[user][role] = true
	return true, nil
}

func (f *fakeRoleRepository) RemoveRoleForUser(_ context.Context, user, role string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.members[user][role] {
		return false, nil
	}
	delete(f.members[user], role)
	return true, nil
}

func (f *fakeRoleRepository) GetRolesForUser(_ context.Context, user string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var roles []string
	for role := range f.members[user] {
		roles = append(roles, role)
	}
	return roles, nil
}

// fakeChecker answers entitlement checks with a fixed result.
type fakeChecker struct {
	authorized bool
	err        error
	calls      int
}

func (f *fakeChecker) HasProtectedRole(_ context.Context, identity domain.Identity) (bool, error) {
	f.calls++
	if err := identity.Validate(); err != nil {
		return false, err
	}
	return f.authorized, f.err
}

// fakeNotifier records sent notifications.
type fakeNotifier struct {
	id   string
	err  error
	sent []domain.AppNotification
}

func (f *fakeNotifier) Send(_ context.Context, n domain.AppNotification) (string, error) {
	f.sent = append(f.sent, n)
	if f.err != nil {
		return "", f.err
	}
	return f.id, nil
}
