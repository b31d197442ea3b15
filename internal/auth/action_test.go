// AngelaMos | 2026
// action_test.go

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/messhall/internal/config"
	"github.com/carterperez-dev/messhall/internal/core"
)

func newActionTokens(now time.Time) *ActionTokens {
	a := NewActionTokens(config.TokensConfig{
		Secret:             testTokenSecret,
		VerificationExpire: 24 * time.Hour,
		ResetExpire:        15 * time.Minute,
	})
	a.now = func() time.Time { return now }
	return a
}

func TestActionTokens_RoundTrip(t *testing.T) {
	a := newActionTokens(time.Now())

	token, err := a.Issue(PurposeVerifyEmail, "u-1")
	require.NoError(t, err)

	claims, err := a.Parse(token, PurposeVerifyEmail)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, PurposeVerifyEmail, claims.Purpose)
}

func TestActionTokens_WrongPurpose(t *testing.T) {
	a := newActionTokens(time.Now())

	token, err := a.Issue(PurposeVerifyEmail, "u-1")
	require.NoError(t, err)

	_, err = a.Parse(token, PurposeResetPassword)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestActionTokens_Expired(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	token, err := newActionTokens(issued).Issue(PurposeResetPassword, "u-1")
	require.NoError(t, err)

	_, err = newActionTokens(time.Now()).Parse(token, PurposeResetPassword)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestActionTokens_WrongSecret(t *testing.T) {
	token, err := newActionTokens(time.Now()).Issue(PurposeVerifyEmail, "u-1")
	require.NoError(t, err)

	other := NewActionTokens(config.TokensConfig{
		Secret:             "another-secret-another-secret-xx",
		VerificationExpire: time.Hour,
	})
	_, err = other.Parse(token, PurposeVerifyEmail)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = other.Parse("garbage", PurposeVerifyEmail)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestActionTokens_TTL(t *testing.T) {
	a := newActionTokens(time.Now())
	assert.Equal(t, 24*time.Hour, a.TTL(PurposeVerifyEmail))
	assert.Equal(t, 15*time.Minute, a.TTL(PurposeResetPassword))
}
