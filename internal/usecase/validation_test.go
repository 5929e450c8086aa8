package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/usercreds/internal/domain/errors"
)

func TestNormalizeUsername(t *testing.T) {
	got, err := NormalizeUsername("  alice  ")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	got, err = NormalizeUsername(strings.Repeat("я", MaxUsernameLength))
	require.NoError(t, err)
	assert.Len(t, []rune(got), MaxUsernameLength)

	invalid := []string{"", "   ", strings.Repeat("a", MaxUsernameLength+1), "bad\nname"}
	for _, name := range invalid {
		_, err := NormalizeUsername(name)
		assert.ErrorIs(t, err, domainErrors.ErrInvalidUsername, "%q", name)
	}
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, ValidatePassword("secret123", 8))
	require.NoError(t, ValidatePassword(strings.Repeat("x", MaxPasswordBytes), 8))
	require.NoError(t, ValidatePassword("пароль12", 8))

	for _, p := range []string{"", "short", strings.Repeat("x", MaxPasswordBytes+1), strings.Repeat("ж", 40)} {
		assert.ErrorIs(t, ValidatePassword(p, 8), domainErrors.ErrInvalidPassword, "%q", p)
	}
}

func TestValidateAge(t *testing.T) {
	valid := []int{0, 30, maxAge}
	for _, age := range valid {
		age := age
		assert.NoError(t, ValidateAge(&age))
	}
	assert.NoError(t, ValidateAge(nil))

	for _, age := range []int{-1, maxAge + 1} {
		age := age
		assert.ErrorIs(t, ValidateAge(&age), domainErrors.ErrInvalidProfile)
	}
}
