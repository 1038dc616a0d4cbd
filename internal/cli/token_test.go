package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dafibh/huddle/huddle-backend/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_ISSUER", "huddle-test")
	t.Setenv("JWT_TTL", "1h")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--subject", "dev|ada", "--email", "ada@example.com", "--name", "Ada"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	claims, err := auth.ParseToken(strings.TrimSpace(out.String()), "huddle-test", testSecret)
	require.NoError(t, err)
	assert.Equal(t, "dev|ada", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
}

func TestTokenCommand_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	rootCmd.SetArgs([]string{"token", "--subject", "dev|ada"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	assert.ErrorContains(t, rootCmd.Execute(), "JWT_SECRET")
}
