package file

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/custodia-labs/rootly-sync/internal/core/domain"
	"github.com/custodia-labs/rootly-sync/internal/core/ports/driven"
)

// Ensure SecretsLoader implements the interface.
var _ driven.SecretsProvider = (*SecretsLoader)(nil)

// DefaultSecretsFile is the optional secrets file read when none is given.
const DefaultSecretsFile = "secrets.env"

// tokenSpec is filled from the environment by envconfig.
type tokenSpec struct {
	RootlyToken domain.Secret `envconfig:"ROOTLY_API_TOKEN"`
	GleanToken  domain.Secret `envconfig:"GLEAN_API_TOKEN"`
}

// SecretsLoader reads the API tokens from the environment. Values from an
// optional KEY=VALUE file fill in variables the environment does not set.
type SecretsLoader struct {
	path string
}

// NewSecretsLoader creates a loader for the secrets file at path.
// A missing file is not an error.
func NewSecretsLoader(path string) *SecretsLoader {
	return &SecretsLoader{path: path}
}

// Secrets returns both tokens or a *domain.ConfigError naming the missing one.
func (l *SecretsLoader) Secrets() (domain.Secrets, error) {
	if err := l.loadFile(); err != nil {
		return domain.Secrets{}, err
	}

	var spec tokenSpec
	if err := envconfig.Process("", &spec); err != nil {
		// The envconfig error may quote the value.
		return domain.Secrets{}, &domain.ConfigError{Reason: "cannot read API tokens from the environment"}
	}

	secrets := domain.Secrets{
		RootlyToken: domain.Secret(strings.TrimSpace(spec.RootlyToken.Reveal())),
		GleanToken:  domain.Secret(strings.TrimSpace(spec.GleanToken.Reveal())),
	}
	if err := secrets.Validate(); err != nil {
		return domain.Secrets{}, err
	}
	return secrets, nil
}

// loadFile exports the file's variables that are not already set.
func (l *SecretsLoader) loadFile() error {
	if l.path == "" {
		return nil
	}
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &domain.ConfigError{Reason: fmt.Sprintf("open secrets file %s: %v", l.path, err)}
	}
	defer f.Close()

	values, err := parseEnvFile(f)
	if err != nil {
		return &domain.ConfigError{Reason: fmt.Sprintf("secrets file %s: %v", l.path, err)}
	}
	for key, value := range values {
		if existing, ok := os.LookupEnv(key); ok && existing != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return &domain.ConfigError{Key: key, Reason: "cannot export secrets file variable"}
		}
	}
	return nil
}

// parseEnvFile reads KEY=VALUE lines. Blank lines and # comments are
// skipped, an "export " prefix is allowed and matching quotes are removed.
// Errors name the line number only, never the value.
func parseEnvFile(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("line %d: expected KEY=VALUE", n)
		}
		values[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return values, nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
