package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("secret"))

	token, expiresAt, err := svc.GenerateAccessToken("anna", "Anna K.", []string{"operator"})
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	user, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "anna", user.UserID)
	assert.Equal(t, "Anna K.", user.Name)
	assert.Equal(t, []string{"operator"}, user.Roles)
}

func TestJWTRejects(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret"))
	token, _, err := issuer.GenerateAccessToken("anna", "", nil)
	require.NoError(t, err)

	expired := NewJWTService(DefaultJWTConfig("secret"))
	expired.now = func() time.Time { return time.Now().Add(13 * time.Hour) }

	tests := []struct {
		name  string
		svc   *JWTService
		token string
	}{
		{name: "wrong secret", svc: NewJWTService(DefaultJWTConfig("other")), token: token},
		{name: "expired", svc: expired, token: token},
		{name: "garbage", svc: issuer, token: "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}
}
