package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/oops"

	domainErrors "github.com/polkiloo/usercreds/internal/domain/errors"
	"github.com/polkiloo/usercreds/internal/domain/model"
)

// Clock returns the current time.
type Clock func() time.Time

// CredentialManager owns the password lifecycle of a user record: hashing a
// staged plaintext before persistence and verifying candidates afterwards.
//
// A record must not be passed to two concurrent PrepareForPersist calls.
type CredentialManager struct {
	hasher PasswordHasher
	now    Clock
}

// NewCredentialManager builds CredentialManager. A nil clock means time.Now.
func NewCredentialManager(hasher PasswordHasher, clock Clock) *CredentialManager {
	if clock == nil {
		clock = time.Now
	}
	return &CredentialManager{hasher: hasher, now: clock}
}

// PrepareForPersist stamps the record and, when passwordDirty is set, replaces
// the staged plaintext with a salted hash.
//
// On error the record is left exactly as it was.
func (m *CredentialManager) PrepareForPersist(u *model.User, passwordDirty bool) error {
	// Timestamps never move backwards, even if the clock does.
	now := m.now()
	if now.Before(u.CreatedAt) {
		now = u.CreatedAt
	}
	if now.Before(u.UpdatedAt) {
		now = u.UpdatedAt
	}

	var hash string
	if passwordDirty {
		plain, ok := u.PendingPassword()
		if !ok {
			return oops.Code("PASSWORD_NOT_SET").
				With("user_id", u.ID).
				Wrap(domainErrors.ErrPasswordNotSet)
		}
		var err error
		if hash, err = m.HashPassword(plain); err != nil {
			return err
		}
	}

	u.UpdatedAt = now
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if passwordDirty {
		u.ApplyPasswordHash(hash)
	}
	return nil
}

// HashPassword returns a fresh salted hash of plain.
func (m *CredentialManager) HashPassword(plain string) (string, error) {
	hash, err := m.hasher.Hash(plain)
	if err != nil {
		return "", oops.Code("HASHING_FAILURE").
			With("operation", "hash password").
			Wrap(fmt.Errorf("%w: %w", domainErrors.ErrHashingFailure, err))
	}
	return hash, nil
}

// VerifyPassword reports whether candidate matches storedHash. A missing or
// malformed hash yields ErrInvalidCredentialState instead of false.
func (m *CredentialManager) VerifyPassword(candidate, storedHash string) (bool, error) {
	if storedHash == "" {
		return false, oops.Code("INVALID_CREDENTIAL_STATE").
			Wrap(fmt.Errorf("%w: stored hash is empty", domainErrors.ErrInvalidCredentialState))
	}

	err := m.hasher.Compare(storedHash, candidate)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrPasswordMismatch):
		return false, nil
	default:
		return false, oops.Code("INVALID_CREDENTIAL_STATE").
			Wrap(fmt.Errorf("%w: %w", domainErrors.ErrInvalidCredentialState, err))
	}
}

// NeedsRehash reports whether storedHash should be replaced by a hash made
// with the current work factor.
func (m *CredentialManager) NeedsRehash(storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return m.hasher.NeedsRehash(storedHash)
}
