package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"notes-web-server/internal/security"
)

func TestHashPassword_CheckPassword(t *testing.T) {
	hash, err := security.HashPassword("password1")

	assert.NoError(t, err)
	assert.NotEqual(t, "password1", hash)
	assert.True(t, security.CheckPassword("password1", hash))
	assert.False(t, security.CheckPassword("password2", hash))
}

// Одинаковые пароли дают разные хэши: соль индивидуальная
func TestHashPassword_UniqueSalt(t *testing.T) {
	first, err := security.HashPassword("password1")
	assert.NoError(t, err)

	second, err := security.HashPassword("password1")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}
