package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func TestIssuer_Issue_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	iss := NewIssuer(testSecret, time.Hour)
	token, exp, err := iss.Issue(Identity{ID: 7, Email: "ann@example.com", Name: "Ann"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := iss.Parse(token)
	require.NoError(t, err)

	assert.Equal(t, uint(7), claims.ID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, "Ann", claims.Name)
	assert.Equal(t, "7", claims.Subject)
	assert.NotEmpty(t, claims.RegisteredClaims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)
	assert.Equal(t, Identity{ID: 7, Email: "ann@example.com", Name: "Ann"}, claims.Identity())
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 24*time.Hour, NewIssuer(testSecret, 0).TTL)
}

func TestIssuer_Parse_Rejects(t *testing.T) {
	t.Parallel()

	iss := NewIssuer(testSecret, time.Hour)
	valid, _, err := iss.Issue(Identity{ID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	expiredIss := &Issuer{Secret: testSecret, TTL: time.Hour, Now: func() time.Time { return time.Now().Add(-2 * time.Hour) }}
	expired, _, err := expiredIss.Issue(Identity{ID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	otherKey, _, err := NewIssuer([]byte("other-secret"), time.Hour).Issue(Identity{ID: 1})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 1, "exp": time.Now().Add(time.Hour).Unix()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"id": 1, "exp": time.Now().Add(time.Hour).Unix()}).
		SignedString(testSecret)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": 1}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		is    error
	}{
		{name: "garbage", token: "not-a-jwt", is: jwt.ErrTokenMalformed},
		{name: "expired", token: expired, is: jwt.ErrTokenExpired},
		{name: "wrong key", token: otherKey, is: jwt.ErrTokenSignatureInvalid},
		{name: "alg none", token: none},
		{name: "alg hs512", token: hs512},
		{name: "missing exp", token: noExp, is: jwt.ErrTokenRequiredClaimMissing},
		{name: "tampered", token: valid + "x"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := iss.Parse(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is), "got %v", err)
			}
		})
	}
}
