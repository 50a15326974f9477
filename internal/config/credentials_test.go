package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsFromEnv(t *testing.T) {
	c := CredentialsFromEnv([]string{
		"PATH=/usr/bin",
		"CANVAS_TOKEN_ANGEL=abc",
		"CANVAS_TOKEN_EMPTY=",
		"CANVAS_TOKEN_EQ=a=b",
		"CANVAS_BASE_URL=https://x.test",
	})

	assert.Equal(t, 2, c.Len())
	tok, ok := c.Token("Angel")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	tok, _ = c.Token("eq")
	assert.Equal(t, "a=b", tok)

	_, ok = c.Token("Empty")
	assert.False(t, ok)
	_, ok = c.Token("Nobody")
	assert.False(t, ok)
}

func TestCredentialsNameNormalization(t *testing.T) {
	c := NewCredentials(map[string]string{"David S": "tok"})
	for _, name := range []string{"DavidS", "davids", "david-s", "DAVID_S"} {
		tok, ok := c.Token(name)
		assert.True(t, ok, name)
		assert.Equal(t, "tok", tok, name)
	}
}

func TestLoadCredentialsFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tokens.env")
	require.NoError(t, os.WriteFile(p, []byte("# roster tokens\nMelody=m-token\nexport Tava=\"t-token\"\n"), 0o600))

	c, err := LoadCredentialsFile(p)
	require.NoError(t, err)
	tok, ok := c.Token("melody")
	assert.True(t, ok)
	assert.Equal(t, "m-token", tok)
	tok, _ = c.Token("Tava")
	assert.Equal(t, "t-token", tok)

	_, err = LoadCredentialsFile(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}
