package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
)

// unsetEnv clears a variable for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestSecretsLoader_FromEnvironment(t *testing.T) {
	t.Setenv("ROOTLY_API_TOKEN", "rootly-env")
	t.Setenv("GLEAN_API_TOKEN", "glean-env")

	secrets, err := NewSecretsLoader("").Secrets()
	require.NoError(t, err)
	assert.Equal(t, "rootly-env", secrets.RootlyToken.Reveal())
	assert.Equal(t, "glean-env", secrets.GleanToken.Reveal())
}

func TestSecretsLoader_FileFillsMissingVariables(t *testing.T) {
	unsetEnv(t, "ROOTLY_API_TOKEN")
	t.Setenv("GLEAN_API_TOKEN", "glean-env")

	path := filepath.Join(t.TempDir(), "secrets.env")
	content := strings.Join([]string{
		"# tokens",
		"",
		`export ROOTLY_API_TOKEN="rootly-file"`,
		"GLEAN_API_TOKEN='glean-file'",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	secrets, err := NewSecretsLoader(path).Secrets()
	require.NoError(t, err)
	assert.Equal(t, "rootly-file", secrets.RootlyToken.Reveal())
	assert.Equal(t, "glean-env", secrets.GleanToken.Reveal(), "environment wins over the file")
}

func TestSecretsLoader_MissingFileIsOptional(t *testing.T) {
	t.Setenv("ROOTLY_API_TOKEN", "r")
	t.Setenv("GLEAN_API_TOKEN", "g")

	_, err := NewSecretsLoader(filepath.Join(t.TempDir(), "absent.env")).Secrets()
	assert.NoError(t, err)
}

func TestSecretsLoader_MissingToken(t *testing.T) {
	unsetEnv(t, "ROOTLY_API_TOKEN", "GLEAN_API_TOKEN")
	t.Setenv("ROOTLY_API_TOKEN", "r")

	_, err := NewSecretsLoader("").Secrets()
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
	assert.Contains(t, err.Error(), "GLEAN_API_TOKEN")
}

func TestSecretsLoader_MalformedFileHidesValues(t *testing.T) {
	unsetEnv(t, "ROOTLY_API_TOKEN", "GLEAN_API_TOKEN")

	path := filepath.Join(t.TempDir(), "secrets.env")
	require.NoError(t, os.WriteFile(path, []byte("ROOTLY_API_TOKEN=ok\nsupersecretvalue\n"), 0600))

	_, err := NewSecretsLoader(path).Secrets()
	require.Error(t, err)
	assert.True(t, domain.IsConfigError(err))
	assert.Contains(t, err.Error(), "line 2")
	assert.NotContains(t, err.Error(), "supersecretvalue")
}

func TestSecretsLoader_RedactsFormatting(t *testing.T) {
	t.Setenv("ROOTLY_API_TOKEN", "rootly-secret")
	t.Setenv("GLEAN_API_TOKEN", "glean-secret")

	secrets, err := NewSecretsLoader("").Secrets()
	require.NoError(t, err)

	formatted := strings.Join([]string{
		secrets.RootlyToken.String(),
		secrets.GleanToken.GoString(),
	}, " ")
	assert.NotContains(t, formatted, "secret")
}
