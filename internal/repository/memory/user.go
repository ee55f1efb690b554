package memory

import (
	"context"
	"sort"

	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

type UserRepository struct{ s *Store }

func (r *UserRepository) CreateUser(_ context.Context, u user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	r.s.users[u.ID] = u
	if u.Role == user.RoleCandidate {
		r.s.profiles[u.ID] = user.Profile{UserID: u.ID, Skills: []string{}}
	}
	return nil
}

func (r *UserRepository) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (r *UserRepository) UpdateUser(_ context.Context, u user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	for id, existing := range r.s.users {
		if id != u.ID && existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	r.s.users[u.ID] = u
	return nil
}

func (r *UserRepository) ListUsers(_ context.Context, f user.ListFilter) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]user.User, 0)
	for _, u := range r.s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *UserRepository) GetProfile(_ context.Context, userID uuid.UUID) (user.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return user.Profile{}, user.ErrNotFound
	}
	p.Skills = cloneStrings(p.Skills)
	return p, nil
}

func (r *UserRepository) UpsertProfile(_ context.Context, p user.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[p.UserID]; !ok {
		return user.ErrNotFound
	}
	p.Skills = cloneStrings(p.Skills)
	r.s.profiles[p.UserID] = p
	return nil
}

var _ user.Repository = (*UserRepository)(nil)
