package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/usercreds/internal/domain/errors"
	"github.com/polkiloo/usercreds/internal/domain/model"
	"github.com/polkiloo/usercreds/internal/domain/repository"
)

// Storage keeps user records in process memory. Records are copied on the
// way in and out, so callers never share state with the store.
type Storage struct {
	mu         sync.RWMutex
	users      map[string]*model.User
	byUsername map[string]string
	order      []string
}

// New creates empty in-memory storage.
func New() *Storage {
	return &Storage{
		users:      make(map[string]*model.User),
		byUsername: make(map[string]string),
	}
}

// Users returns the user repository backed by this storage.
func (s *Storage) Users() repository.UserRepository {
	return s
}

// LoadByID returns a copy of the record with the requested projection.
func (s *Storage) LoadByID(ctx context.Context, id string, fields ...string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return project(u, fields), nil
}

// Save inserts records without an id and updates the rest.
func (s *Storage) Save(ctx context.Context, u *model.User) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *model.User
	if u.ID != "" {
		var ok bool
		if existing, ok = s.users[u.ID]; !ok {
			return "", domainErrors.ErrNotFound
		}
	}

	if owner, taken := s.byUsername[u.Username]; taken && owner != u.ID {
		return "", domainErrors.ErrAlreadyExists
	}

	if existing == nil {
		id := uuid.NewString()
		stored := u.Record()
		stored.ID = id
		s.users[id] = stored
		s.byUsername[stored.Username] = id
		s.order = append(s.order, id)
		u.ID = id
		return id, nil
	}

	stored := u.Record()
	stored.CreatedAt = existing.CreatedAt
	if stored.PasswordHash == "" {
		stored.PasswordHash = existing.PasswordHash
	}
	if existing.Username != stored.Username {
		delete(s.byUsername, existing.Username)
		s.byUsername[stored.Username] = stored.ID
	}
	s.users[u.ID] = stored
	return u.ID, nil
}

// FindByField returns the oldest record whose field equals value.
func (s *Storage) FindByField(ctx context.Context, name string, value any, fields ...string) (*model.User, error) {
	if !model.IsLookupField(name) {
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrUnknownField, name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *model.User
	for _, id := range s.order {
		u := s.users[id]
		if !matches(u, name, value) {
			continue
		}
		if found == nil || u.CreatedAt.Before(found.CreatedAt) {
			found = u
		}
	}
	if found == nil {
		return nil, domainErrors.ErrNotFound
	}
	return project(found, fields), nil
}

func project(u *model.User, fields []string) *model.User {
	c := u.Clone()
	if !model.HasField(fields, model.FieldPassword) {
		c.PasswordHash = ""
	}
	return c
}

func matches(u *model.User, name string, value any) bool {
	switch name {
	case model.FieldUsername:
		return value == u.Username
	case model.FieldFirstName:
		return value == u.FirstName
	case model.FieldLastName:
		return value == u.LastName
	case model.FieldSign:
		return value == u.Sign
	case model.FieldAge:
		if u.Age == nil {
			return value == nil
		}
		age, ok := toInt(value)
		return ok && age == *u.Age
	default:
		return false
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case *int:
		if v == nil {
			return 0, false
		}
		return *v, true
	default:
		return 0, false
	}
}
