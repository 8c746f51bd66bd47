package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/quotekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, exp *time.Time) string {
	t.Helper()
	claims := Claims{UserID: "u1"}
	if exp != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*exp)
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-only-secret"))
	require.NoError(t, err)
	return s
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	claims, err := ParseClaims(makeToken(t, &exp))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, exp.Equal(claims.ExpiresAt.Time))

	_, err = ParseClaims("not-a-jwt")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestCheckExpiry(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name       string
		credential string
		wantErr    error
	}{
		{name: "expired", credential: makeToken(t, &past), wantErr: common.ErrTokenExpired},
		{name: "valid", credential: makeToken(t, &future)},
		{name: "no exp claim", credential: makeToken(t, nil)},
		{name: "opaque credential", credential: "opaque-session-id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExpiry(tt.credential, now)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsExpired(err))
		})
	}
}

func TestExpiresAt(t *testing.T) {
	_, ok := ExpiresAt("opaque")
	assert.False(t, ok)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := ExpiresAt(makeToken(t, &exp))
	assert.True(t, ok)
	assert.True(t, exp.Equal(got))
}
