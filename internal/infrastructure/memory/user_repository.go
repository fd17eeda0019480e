package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.guard(false)()
	for _, other := range r.s.users {
		if other.Username == u.Username {
			return domain.ErrConflict
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.guard(false)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	defer r.s.guard(false)()
	for _, u := range r.s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	defer r.s.guard(false)()
	list := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		c := *u
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
	return list, nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	defer r.s.guard(false)()
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *UserRepo) Count(_ context.Context) (int, error) {
	defer r.s.guard(false)()
	return len(r.s.users), nil
}
