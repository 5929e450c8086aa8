package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/usercreds/internal/domain/errors"
	"github.com/polkiloo/usercreds/internal/domain/model"
	"github.com/polkiloo/usercreds/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

const uniqueViolation = "23505"

// columns maps lookup fields onto table columns.
var columns = map[string]string{
	model.FieldUsername:  "username",
	model.FieldPassword:  "password_hash",
	model.FieldFirstName: "first_name",
	model.FieldLastName:  "last_name",
	model.FieldAge:       "age",
	model.FieldSign:      "sign",
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Users returns the user repository backed by this storage.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            username TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            age INTEGER,
            sign TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_users_created ON users(created_at, id)`,
	}

	err := s.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	s.logger.Debug("postgres schema ready")
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// --- UserRepository implementation ---

func selectColumns(fields []string) []string {
	cols := []string{"id", "username"}
	if model.HasField(fields, model.FieldPassword) {
		cols = append(cols, "password_hash")
	}
	return append(cols, "first_name", "last_name", "age", "sign", "created_at", "updated_at")
}

func scanUser(row pgx.Row, fields []string) (*model.User, error) {
	var u model.User
	dest := []any{&u.ID, &u.Username}
	if model.HasField(fields, model.FieldPassword) {
		dest = append(dest, &u.PasswordHash)
	}
	dest = append(dest, &u.FirstName, &u.LastName, &u.Age, &u.Sign, &u.CreatedAt, &u.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) LoadByID(ctx context.Context, id string, fields ...string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id=$1`, strings.Join(selectColumns(fields), ", "))
	return scanUser(r.storage.pool.QueryRow(ctx, query, id), fields)
}

func (r *userRepository) FindByField(ctx context.Context, name string, value any, fields ...string) (*model.User, error) {
	column, ok := columns[name]
	if !ok || !model.IsLookupField(name) {
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrUnknownField, name)
	}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s=$1 ORDER BY created_at, id LIMIT 1`,
		strings.Join(selectColumns(fields), ", "), column)
	return scanUser(r.storage.pool.QueryRow(ctx, query, value), fields)
}

func (r *userRepository) Save(ctx context.Context, u *model.User) (string, error) {
	if u.ID == "" {
		return r.insert(ctx, u)
	}
	return u.ID, r.update(ctx, u)
}

func (r *userRepository) insert(ctx context.Context, u *model.User) (string, error) {
	const query = `INSERT INTO users (id, username, password_hash, first_name, last_name, age, sign, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	id := uuid.NewString()
	_, err := r.storage.pool.Exec(ctx, query,
		id, u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Age, u.Sign, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return "", mapWriteError(err)
	}
	u.ID = id
	return id, nil
}

func (r *userRepository) update(ctx context.Context, u *model.User) error {
	const query = `UPDATE users SET username=$2, password_hash=COALESCE(NULLIF($3, ''), password_hash),
                   first_name=$4, last_name=$5, age=$6, sign=$7, updated_at=$8 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query,
		u.ID, u.Username, u.PasswordHash, u.FirstName, u.LastName, u.Age, u.Sign, u.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domainErrors.ErrAlreadyExists
	}
	return err
}
