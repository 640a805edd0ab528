package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func newTestManager() *Manager {
	return NewManager("test-secret-for-unit-tests", 2*time.Hour, 7*24*time.Hour)
}

// TestGenerateAndParse 生成Token后应能解析出原始Claims
func TestGenerateAndParse(t *testing.T) {
	m := newTestManager()

	pair, err := m.GenerateToken(42, "alice", "member")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(7200), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "member", claims.Role)
}

// TestParseToken_WrongSecret 密钥不一致的Token必须被拒绝
func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager("another-secret", 2*time.Hour, 7*24*time.Hour)

	pair, err := other.GenerateToken(1, "bob", "staff")
	require.NoError(t, err)

	_, err = m.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

// TestParseToken_Expired 过期Token返回专用错误
func TestParseToken_Expired(t *testing.T) {
	m := NewManager("test-secret-for-unit-tests", -time.Minute, 7*24*time.Hour)

	pair, err := m.GenerateToken(1, "bob", "member")
	require.NoError(t, err)

	_, err = m.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

// TestRefreshAccessToken 刷新后的Token保留用户与角色信息
func TestRefreshAccessToken(t *testing.T) {
	m := newTestManager()

	pair, err := m.GenerateToken(7, "carol", "staff")
	require.NoError(t, err)

	newAccess, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := m.ParseToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "staff", claims.Role)
}
