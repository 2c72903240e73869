package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caltrack/caltrack/internal/model"
)

const testSecret = "test-secret"

func testUser() *model.User {
	return &model.User{ID: "01HUSER", Email: "alice@example.com", Role: model.RoleUser}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := m.Issue(testUser())
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "01HUSER", claims.UserID)
	assert.Equal(t, "01HUSER", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestTokenManager_NoExpiry(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager(testSecret, 0)
	require.NoError(t, err)

	token, err := m.Issue(testUser())
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().AddDate(10, 0, 0) }
	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestTokenManager_Expired(t *testing.T) {
	t.Parallel()

	m, err := NewTokenManager(testSecret, time.Minute)
	require.NoError(t, err)

	token, err := m.Issue(testUser())
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer, _ := NewTokenManager("one", time.Hour)
	verifier, _ := NewTokenManager("two", time.Hour)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager(testSecret, time.Hour)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "x"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RequiresUserID(t *testing.T) {
	t.Parallel()

	m, _ := NewTokenManager(testSecret, time.Hour)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: "x@example.com"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	user := &model.AuthContext{UserID: "u1", Role: model.RoleUser}
	admin := &model.AuthContext{UserID: "a1", Role: model.RoleAdmin}

	testCases := []struct {
		name    string
		actor   *model.AuthContext
		target  string
		wantErr error
	}{
		{"owner", user, "u1", nil},
		{"other user", user, "u2", ErrForbidden},
		{"admin on anyone", admin, "u2", nil},
		{"nil actor", nil, "u1", ErrUnauthenticated},
		{"empty actor", &model.AuthContext{}, "", ErrUnauthenticated},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Authorize(tc.actor, tc.target)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	user := &model.AuthContext{UserID: "u1", Role: model.RoleUser}
	admin := &model.AuthContext{UserID: "a1", Role: model.RoleAdmin}

	assert.NoError(t, RequireRole(admin, model.RoleAdmin))
	assert.NoError(t, RequireRole(admin, model.RoleUser))
	assert.NoError(t, RequireRole(user, model.RoleUser))
	assert.ErrorIs(t, RequireRole(user, model.RoleAdmin), ErrForbidden)
	assert.ErrorIs(t, RequireRole(nil, model.RoleUser), ErrUnauthenticated)
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Nil(t, AuthFromContext(ctx))
	assert.Empty(t, UserIDFromContext(ctx))

	ctx = ContextWithAuth(ctx, &model.AuthContext{UserID: "u1"})
	assert.Equal(t, "u1", UserIDFromContext(ctx))
}
