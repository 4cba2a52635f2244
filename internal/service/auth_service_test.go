package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"employee-directory/internal/apperr"
	"employee-directory/internal/models"
	"employee-directory/internal/store"
)

func newAuthService(t *testing.T) (*AuthService, *TokenIssuer) {
	t.Helper()
	tokens, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	svc := NewAuthService(store.NewMemoryStore(), tokens)
	svc.cost = bcrypt.MinCost
	return svc, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, models.RegisterRequest{Name: " Alice ", Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", reg.User.Name)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.NotEmpty(t, reg.User.ID)

	id, err := tokens.Parse(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User, id)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "ALICE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User, login.User)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, models.RegisterRequest{Name: "B", Email: "A@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, apperr.ErrEmailTaken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, models.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "nope"})
	_, unknownEmail := svc.Login(ctx, models.LoginRequest{Email: "ghost@example.com", Password: "secret1"})
	assert.ErrorIs(t, wrongPassword, apperr.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestAuthenticate(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, models.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	id, err := svc.Authenticate(ctx, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, id.ID)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	orphan, err := tokens.Issue(models.Identity{ID: "deleted-user", Email: "x@example.com"})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, orphan)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestTokenExpiryAndSignature(t *testing.T) {
	issuer, err := NewTokenIssuer("one", time.Minute)
	require.NoError(t, err)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return start }

	token, err := issuer.Issue(models.Identity{ID: "u1", Name: "U", Email: "u@example.com"})
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other, err := NewTokenIssuer("two", time.Minute)
	require.NoError(t, err)
	other.now = func() time.Time { return start }
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = NewTokenIssuer(" ", time.Minute)
	assert.Error(t, err)
}

func TestMe(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, models.RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	user, err := svc.Me(ctx, reg.User)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRegisterRejectsPasswordBcryptCannotHash(t *testing.T) {
	svc, _ := newAuthService(t)

	// 40 two-byte runes: within a rune-counted limit, over bcrypt's byte limit
	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "A", Email: "a@example.com", Password: strings.Repeat("é", 40),
	})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Fields[0].Field)

	_, found, err := svc.users.GetUserByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}
