package config

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/joho/godotenv"

	"github.com/Afrawles/classmonitor/internal/monitor"
)

const tokenEnvPrefix = "CANVAS_TOKEN_"

// Credentials maps student names to bearer tokens. Lookups are keyed by the
// normalized name, so "DavidS", "davids" and "DAVIDS" share one entry.
type Credentials struct {
	tokens map[string]string
}

var _ monitor.TokenStore = (*Credentials)(nil)

func NewCredentials(tokens map[string]string) *Credentials {
	c := &Credentials{tokens: make(map[string]string, len(tokens))}
	for name, token := range tokens {
		c.Set(name, token)
	}
	return c
}

func (c *Credentials) Set(student, token string) {
	if token = strings.TrimSpace(token); token != "" {
		c.tokens[tokenKey(student)] = token
	}
}

func (c *Credentials) Token(student string) (string, bool) {
	t, ok := c.tokens[tokenKey(student)]
	return t, ok
}

func (c *Credentials) Len() int { return len(c.tokens) }

// Merge copies other's tokens over c's.
func (c *Credentials) Merge(other *Credentials) {
	for k, v := range other.tokens {
		c.tokens[k] = v
	}
}

// CredentialsFromEnv picks CANVAS_TOKEN_<NAME>=<token> pairs out of environ.
func CredentialsFromEnv(environ []string) *Credentials {
	c := NewCredentials(nil)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, tokenEnvPrefix) {
			continue
		}
		c.Set(strings.TrimPrefix(key, tokenEnvPrefix), value)
	}
	return c
}

// LoadCredentialsFile reads a dotenv-format file of NAME=token lines. Keys
// may carry the CANVAS_TOKEN_ prefix or be bare student names.
func LoadCredentialsFile(path string) (*Credentials, error) {
	entries, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokens file %s: %w", path, err)
	}
	c := NewCredentials(nil)
	for key, value := range entries {
		c.Set(strings.TrimPrefix(key, tokenEnvPrefix), value)
	}
	return c, nil
}

func tokenKey(student string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToUpper(r)
		}
		return -1
	}, student)
}
