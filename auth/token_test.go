package auth

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("unit-test-secret", logrus.New())

	signed, err := tokens.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	sub, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)
}

func TestTokenWrongSecretFails(t *testing.T) {
	issuer := NewTokens("secret-a", logrus.New())
	verifier := NewTokens("secret-b", logrus.New())

	signed, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Parse(signed)
	assert.Error(t, err)
}

func TestTokenGarbageFails(t *testing.T) {
	tokens := NewTokens("unit-test-secret", logrus.New())

	_, err := tokens.Parse("not.a.token")
	assert.Error(t, err)

	_, err = tokens.Parse("")
	assert.Error(t, err)
}

func TestEphemeralSecretStillSigns(t *testing.T) {
	tokens := NewTokens("", logrus.New())

	signed, err := tokens.Issue("user-123")
	require.NoError(t, err)

	sub, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)

	// A second process gets a different ephemeral secret, so the token
	// stops verifying across a restart.
	restarted := NewTokens("", logrus.New())
	_, err = restarted.Parse(signed)
	assert.Error(t, err)
}
