package repository

import (
	"context"

	"github.com/polkiloo/usercreds/internal/domain/model"
)

// UserRepository describes the document store holding user records.
//
// Reads use a default projection without the password hash; pass
// model.FieldPassword in fields to include it.
type UserRepository interface {
	LoadByID(ctx context.Context, id string, fields ...string) (*model.User, error)
	Save(ctx context.Context, user *model.User) (string, error)
	FindByField(ctx context.Context, name string, value any, fields ...string) (*model.User, error)
}
