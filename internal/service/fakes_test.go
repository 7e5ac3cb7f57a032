package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"plate-server/internal/entity"
	"plate-server/internal/repository"

	"github.com/google/uuid"
)

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*entity.User
	err   error
	// staleExists makes ExistsByEmail miss rows, as a concurrent insert would.
	staleExists bool
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepository) find(match func(*entity.User) bool, activeOnly bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if match(u) && (!activeOnly || !u.IsRemoved()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }, false)
}

func (r *fakeUserRepository) FindActiveByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }, true)
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }, false)
}

func (r *fakeUserRepository) FindActiveByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }, true)
}

func (r *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if r.staleExists {
		return false, nil
	}
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepository) Save(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for id, u := range r.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
		if u.Name == user.Name || u.Phone == user.Phone {
			return repository.ErrDuplicate
		}
	}
	if user.IsNew() {
		user.ID = uuid.NewString()
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type fakeTenantRepository struct {
	tenants []entity.Tenant
	err     error
}

func (r *fakeTenantRepository) FindActiveByUserID(_ context.Context, userID string) ([]entity.Tenant, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.Tenant
	for _, t := range r.tenants {
		if t.UserID == userID && !t.IsRemoved() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTenantRepository) FindMainByUserID(_ context.Context, userID string) (*entity.Tenant, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, t := range r.tenants {
		if t.UserID == userID && t.Main && !t.IsRemoved() {
			cp := t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type passThroughTx struct {
	calls int
}

func (tx *passThroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []AuditEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}
