package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_IssueVerify(t *testing.T) {
	s := NewSessionService("session-secret")

	token := s.Issue("admin")
	user, ok := s.Verify(token)
	require.True(t, ok)
	assert.Equal(t, "admin", user)
}

func TestSessionService_RejectsTampering(t *testing.T) {
	s := NewSessionService("session-secret")
	token := s.Issue("admin")

	_, ok := s.Verify(token + "x")
	assert.False(t, ok)

	payload, _, found := strings.Cut(token, ".")
	require.True(t, found)
	_, ok = s.Verify(payload + ".deadbeef")
	assert.False(t, ok)

	_, ok = s.Verify("")
	assert.False(t, ok)
	_, ok = s.Verify("no-dot-here")
	assert.False(t, ok)
}

func TestSessionService_RejectsForeignSecret(t *testing.T) {
	token := NewSessionService("secret-a").Issue("admin")
	_, ok := NewSessionService("secret-b").Verify(token)
	assert.False(t, ok)
}

func TestSessionService_DisabledWithoutSecret(t *testing.T) {
	s := NewSessionService("")

	assert.Empty(t, s.Issue("admin"))

	// even a token minted with a real secret must not verify
	token := NewSessionService("secret-a").Issue("admin")
	_, ok := s.Verify(token)
	assert.False(t, ok)
	_, ok = s.Verify("")
	assert.False(t, ok)
}
