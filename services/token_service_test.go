package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zirdl/bunubon/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenService_IssueAndValidate(t *testing.T) {
	ts := NewTokenService(testSecret, time.Hour)
	user := &models.User{ID: uuid.New(), Username: "encoder1", Role: models.RoleEncoder}

	issued, err := ts.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)

	claims, err := ts.Validate(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "encoder1", claims.Username)
	assert.Equal(t, models.RoleEncoder, claims.Role)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.Equal(t, issued.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestTokenService_RejectsExpired(t *testing.T) {
	ts := NewTokenService(testSecret, time.Minute)
	ts.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	issued, err := ts.Issue(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = ts.Validate(issued.Token)
	assert.Error(t, err)
}

func TestTokenService_RejectsOtherSecret(t *testing.T) {
	issued, err := NewTokenService(testSecret, time.Hour).Issue(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = NewTokenService("another-secret-another-secret-xx", time.Hour).Validate(issued.Token)
	assert.Error(t, err)
}

func TestTokenService_RejectsWrongType(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.NewString(),
		"typ": "refresh",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour).Validate(signed)
	assert.EqualError(t, err, "invalid token type")
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisTokenDenylist(t *testing.T) {
	mr, rdb := newTestRedis(t)
	d := NewTokenDenylist(rdb)
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestNewTokenDenylist_NilRedisIsNoop(t *testing.T) {
	d := NewTokenDenylist(nil)
	assert.NoError(t, d.Revoke(context.Background(), "x", time.Now().Add(time.Hour)))
	revoked, err := d.IsRevoked(context.Background(), "x")
	assert.NoError(t, err)
	assert.False(t, revoked)
}
