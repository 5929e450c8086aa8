package memory

import (
	"go.uber.org/fx"

	"github.com/polkiloo/usercreds/internal/domain/repository"
)

// Module wires in-memory storage.
var Module = fx.Options(
	fx.Provide(New),
	fx.Provide(func(s *Storage) repository.UserRepository { return s.Users() }),
)
