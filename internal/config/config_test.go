package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "t3compat/internal/errors"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	c, err := LoadFrom(afero.NewMemMapFs(), "/cfg/config.json")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestSaveTo_RoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	c := Default()
	c.DB.Driver = "mysql"
	c.DB.DSN = "mysql://root:secret@db/typo3"
	c.DB.Provided = true
	c.Registry.Path = "/srv/packages.yaml"
	c.Registry.NamespaceMode = "key"

	require.NoError(t, SaveTo(fsys, "/cfg/config.json", c))

	raw, err := afero.ReadFile(fsys, "/cfg/config.json")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	st, err := fsys.Stat("/cfg/config.json")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	got, err := LoadFrom(fsys, "/cfg/config.json")
	require.NoError(t, err)
	c.DB.DSN = ""
	assert.Equal(t, c, got)
}

func TestLoadFrom_Invalid(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/c.json", []byte("{"), 0o600))
	_, err := LoadFrom(fsys, "/c.json")
	assert.True(t, cerrors.IsKind(err, cerrors.ConfigInvalid))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDSN:           "postgres://u:p@h/db",
		EnvDriver:        "postgres",
		EnvNamespaceMode: "registry",
		EnvRegistryKey:   "/etc/t3compat/registry.pem",
		EnvLogLevel:      "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	c := Default()
	ApplyEnv(&c, lookup)
	assert.Equal(t, "postgres://u:p@h/db", c.DB.DSN)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, "registry", c.Registry.NamespaceMode)
	assert.Equal(t, "/etc/t3compat/registry.pem", c.Registry.PublicKey)
	assert.Equal(t, "warn", c.LogLevel, "empty values do not override")
	assert.Equal(t, "127.0.0.1:8080", c.Serve.Listen)
}

func TestValidate(t *testing.T) {
	c := Default()
	assert.NoError(t, c.Validate())

	c.DB.Driver = "oracle"
	assert.True(t, cerrors.IsKind(c.Validate(), cerrors.ConfigInvalid))

	c = Default()
	c.Registry.NamespaceMode = "casing"
	assert.True(t, cerrors.IsKind(c.Validate(), cerrors.ConfigInvalid))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(p, []byte("T3COMPAT_REGISTRY=/from/dotenv.yaml\nT3COMPAT_LOG_LEVEL=debug\n"), 0o600))

	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvRegistry, "")
	require.NoError(t, os.Unsetenv(EnvRegistry))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), p))
	assert.Equal(t, "/from/dotenv.yaml", os.Getenv(EnvRegistry))
	assert.Equal(t, "error", os.Getenv(EnvLogLevel), "existing variables win")
}
