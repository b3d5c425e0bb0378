package cmd

import (
	"bytes"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"

	"go-logsink/internal/utils"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestEnv(t *testing.T, secret string) {
	t.Helper()
	t.Setenv("APP_ENV", "unittest")
	for _, key := range []string{"DB_DRIVER", "DB_DSN", "LOG_COLUMN_MAP", "LOG_COLUMN_MAP_FILE", "LOG_PROCESSORS", "JWT_SECRET"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	if secret != "" {
		t.Setenv("JWT_SECRET", secret)
	}
}

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		tokenTTL = 24 * time.Hour
		color.NoColor = noColor
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTokenCommandIssuesValidToken(t *testing.T) {
	setTestEnv(t, "cli-test-secret")

	stdout, stderr, err := runRoot(t, "token", "billing-api", "--ttl", "1h")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"billing-api"`)

	token := strings.TrimSpace(stdout)
	require.NotEmpty(t, token)
	claims, err := utils.ValidateToken(token, "cli-test-secret")
	require.NoError(t, err)
	assert.Equal(t, "billing-api", claims.Source)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenCommandRequiresSecret(t *testing.T) {
	setTestEnv(t, "")

	stdout, _, err := runRoot(t, "token", "billing-api")
	assert.ErrorContains(t, err, "JWT_SECRET is not set")
	assert.Empty(t, stdout)
}

func TestTokenCommandRequiresSource(t *testing.T) {
	setTestEnv(t, "cli-test-secret")

	_, _, err := runRoot(t, "token")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	Version, GitCommit = "1.2.3", "abc123"
	t.Cleanup(func() { Version, GitCommit = "", "" })

	stdout, _, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "logsink 1.2.3")
	assert.Contains(t, stdout, "Git commit: abc123")
	assert.Contains(t, stdout, "Go version: "+runtime.Version())
}

func TestVersionCommandDefaults(t *testing.T) {
	stdout, _, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "logsink dev")
	assert.Contains(t, stdout, "Git commit: unknown")
}
