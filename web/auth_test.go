package web

import (
	"testing"

	"github.com/dumpersafety/dumperwatch/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthenticatorPlainPassword(t *testing.T) {
	auth := newAuthenticator(config.DashboardConfig{Username: "operator", Password: "hunter2"})

	_, ok := auth.login("operator", "wrong")
	assert.False(t, ok)

	_, ok = auth.login("somebody", "hunter2")
	assert.False(t, ok)

	token, ok := auth.login("operator", "hunter2")
	assert.True(t, ok)
	assert.NotEmpty(t, token)
}

func TestAuthenticatorBcryptHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	auth := newAuthenticator(config.DashboardConfig{
		Username:     "operator",
		Password:     "ignored",
		PasswordHash: string(hash),
	})

	_, ok := auth.login("operator", "ignored")
	assert.False(t, ok, "the plaintext is ignored once a hash is configured")

	token, ok := auth.login("operator", "s3cret")
	assert.True(t, ok)
	assert.NotEmpty(t, token)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	auth := newAuthenticator(config.DashboardConfig{Username: "operator", Password: "hunter2"})
	token, ok := auth.login("operator", "hunter2")
	require.True(t, ok)

	auth.logout(token)
	auth.mu.Lock()
	_, stillThere := auth.sessions[token]
	auth.mu.Unlock()
	assert.False(t, stillThere)
}
