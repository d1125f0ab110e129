package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Store struct {
		Path string `koanf:"path"`
	} `koanf:"store"`
	Shutdown struct {
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"shutdown"`
	Debug bool `koanf:"debug"`
}

func (c *testConfig) Validate() error {
	if c.Store.Path == "" {
		return errors.New("store path is not configured")
	}
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	// given
	dir := t.TempDir()
	yamlFile := writeFile(t, dir, "config.yaml", "store:\n  path: data/products.json\nshutdown:\n  timeout: 3s\n")

	// when
	cfg, err := Load[testConfig]("loadertest", WithConfigFile(yamlFile), WithEnvFile(filepath.Join(dir, ".env")))

	// then
	require.NoError(t, err)
	assert.Equal(t, "data/products.json", cfg.Store.Path)
	assert.Equal(t, 3*time.Second, cfg.Shutdown.Timeout)
	assert.False(t, cfg.Debug)
}

func TestLoad_Precedence(t *testing.T) {
	// given
	dir := t.TempDir()
	yamlFile := writeFile(t, dir, "config.yaml", "store:\n  path: from-yaml.json\ndebug: false\n")
	envFile := writeFile(t, dir, ".env", "LOADERTEST_STORE_PATH=from-dotenv.json\nLOADERTEST_DEBUG=true\nOTHER_STORE_PATH=ignored.json\n")
	t.Setenv("LOADERTEST_STORE_PATH", "from-env.json")

	// when
	cfg, err := Load[testConfig]("loadertest", WithConfigFile(yamlFile), WithEnvFile(envFile))

	// then
	require.NoError(t, err)
	assert.Equal(t, "from-env.json", cfg.Store.Path, "process env wins over .env and yaml")
	assert.True(t, cfg.Debug, ".env wins over yaml")
}

func TestLoad_ValidationError(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load[testConfig]("loadertest",
		WithConfigFile(filepath.Join(dir, "missing.yaml")),
		WithEnvFile(filepath.Join(dir, "missing.env")))

	require.Error(t, err)
	assert.ErrorContains(t, err, "config validation failed")
	assert.Nil(t, cfg)
}
