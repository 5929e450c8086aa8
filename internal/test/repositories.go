package test

import (
	"context"
	"fmt"
	"sync"

	domainErrors "github.com/polkiloo/usercreds/internal/domain/errors"
	"github.com/polkiloo/usercreds/internal/domain/model"
	"github.com/polkiloo/usercreds/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests. Function overrides
// take precedence over the map-backed behaviour.
type UserRepositoryStub struct {
	mu    sync.Mutex
	Users map[string]*model.User
	Next  int
	Err   error

	LoadFn func(context.Context, string, ...string) (*model.User, error)
	SaveFn func(context.Context, *model.User) (string, error)
	FindFn func(context.Context, string, any, ...string) (*model.User, error)

	Loads int
	Saves int
	Finds int
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{Users: make(map[string]*model.User), Next: 1}
}

// LoadByID fetches user by id or returns not found.
func (s *UserRepositoryStub) LoadByID(ctx context.Context, id string, fields ...string) (*model.User, error) {
	s.mu.Lock()
	s.Loads++
	s.mu.Unlock()
	if s.LoadFn != nil {
		return s.LoadFn(ctx, id, fields...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.Users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return project(u, fields), nil
}

// Save registers or replaces user unless the username is taken.
func (s *UserRepositoryStub) Save(ctx context.Context, u *model.User) (string, error) {
	s.mu.Lock()
	s.Saves++
	s.mu.Unlock()
	if s.SaveFn != nil {
		return s.SaveFn(ctx, u)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	for id, existing := range s.Users {
		if existing.Username == u.Username && id != u.ID {
			return "", domainErrors.ErrAlreadyExists
		}
	}

	stored := u.Record()
	if u.ID == "" {
		if s.Next == 0 {
			s.Next = 1
		}
		stored.ID = fmt.Sprintf("user-%d", s.Next)
		s.Next++
	} else {
		existing, ok := s.Users[u.ID]
		if !ok {
			return "", domainErrors.ErrNotFound
		}
		stored.CreatedAt = existing.CreatedAt
		if stored.PasswordHash == "" {
			stored.PasswordHash = existing.PasswordHash
		}
	}
	s.Users[stored.ID] = stored
	u.ID = stored.ID
	return stored.ID, nil
}

// FindByField supports username lookups, which is all the use cases need.
func (s *UserRepositoryStub) FindByField(ctx context.Context, name string, value any, fields ...string) (*model.User, error) {
	s.mu.Lock()
	s.Finds++
	s.mu.Unlock()
	if s.FindFn != nil {
		return s.FindFn(ctx, name, value, fields...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if name != model.FieldUsername {
		return nil, domainErrors.ErrUnknownField
	}
	for _, u := range s.Users {
		if u.Username == value {
			return project(u, fields), nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Stored returns the raw record including its hash.
func (s *UserRepositoryStub) Stored(id string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Users[id].Clone()
}

func project(u *model.User, fields []string) *model.User {
	c := u.Clone()
	if !model.HasField(fields, model.FieldPassword) {
		c.PasswordHash = ""
	}
	return c
}

var _ repository.UserRepository = (*UserRepositoryStub)(nil)
