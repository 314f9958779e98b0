package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateAndParseToken 測試 token 的簽發與解析
func TestGenerateAndParseToken(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

// TestParseToken_Invalid 測試無效 token 被拒絕
func TestParseToken_Invalid(t *testing.T) {
	SetSecret("test-secret")

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

// TestParseToken_WrongSecret 測試密鑰不符的 token 被拒絕
func TestParseToken_WrongSecret(t *testing.T) {
	SetSecret("first-secret")
	token, err := GenerateToken(1)
	require.NoError(t, err)

	SetSecret("second-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}
