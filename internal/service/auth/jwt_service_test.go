package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short"})
	require.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: -1})
	require.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("without lifetime has no expiry", func(t *testing.T) {
		t.Parallel()

		svc := newHMACJWTService(testSecret, 0, fixedClock(fixedTime))
		token, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		// Validate far in the future: tokens without exp stay valid.
		later := newHMACJWTService(testSecret, 0, fixedClock(fixedTime.Add(24*365*time.Hour)))
		claims, err := later.ValidateToken(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.True(t, claims.ExpiresAt.IsZero())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("with lifetime sets expiry", func(t *testing.T) {
		t.Parallel()

		svc := newHMACJWTService(testSecret, time.Hour, fixedClock(fixedTime))
		token, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("token ids are unique", func(t *testing.T) {
		t.Parallel()

		svc := newHMACJWTService(testSecret, 0, fixedClock(fixedTime))
		first, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)
		second, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("rejects nil user", func(t *testing.T) {
		t.Parallel()

		svc := newHMACJWTService(testSecret, 0, fixedClock(fixedTime))
		_, err := svc.GenerateToken(context.Background(), uuid.Nil)
		require.Error(t, err)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	sign := func(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newHMACJWTService(testSecret, time.Hour, fixedClock(fixedTime))
				token, err := svc.GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return svc, token
			},
		},
		{
			name: "empty token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				return newHMACJWTService(testSecret, 0, fixedClock(fixedTime)), ""
			},
			wantErr: ErrMissingToken,
		},
		{
			name: "expired token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newHMACJWTService(testSecret, time.Hour, fixedClock(fixedTime))
				token, err := genSvc.GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return newHMACJWTService(testSecret, time.Hour, fixedClock(fixedTime.Add(3*time.Hour))), token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "issued in the future",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newHMACJWTService(testSecret, 0, fixedClock(fixedTime.Add(time.Hour)))
				token, err := genSvc.GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return newHMACJWTService(testSecret, 0, fixedClock(fixedTime)), token
			},
			wantErr: ErrTokenNotYetValid,
		},
		{
			name: "invalid signature",
			setupFunc: func(t *testing.T) (JWTService, string) {
				genSvc := newHMACJWTService(testSecret, 0, fixedClock(fixedTime))
				token, err := genSvc.GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return newHMACJWTService(wrongSecret, 0, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				return newHMACJWTService(testSecret, 0, fixedClock(fixedTime)), "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "none algorithm",
			setupFunc: func(t *testing.T) (JWTService, string) {
				token := sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwtCustomClaims{
					UserID: userID,
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:  userID.String(),
						IssuedAt: jwt.NewNumericDate(fixedTime),
					},
				})
				return newHMACJWTService(testSecret, 0, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "different hmac algorithm",
			setupFunc: func(t *testing.T) (JWTService, string) {
				token := sign(t, jwt.SigningMethodHS512, []byte(testSecret), jwtCustomClaims{
					UserID: userID,
					RegisteredClaims: jwt.RegisteredClaims{
						IssuedAt: jwt.NewNumericDate(fixedTime),
					},
				})
				return newHMACJWTService(testSecret, 0, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing user id",
			setupFunc: func(t *testing.T) (JWTService, string) {
				token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
					Subject:  "someone",
					IssuedAt: jwt.NewNumericDate(fixedTime),
				})
				return newHMACJWTService(testSecret, 0, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, token := tc.setupFunc(t)
			claims, err := svc.ValidateToken(context.Background(), token)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}
