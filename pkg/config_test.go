package autoversion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestLoaderDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := NewLoader(quietLogger, WithDir(dir), WithGetenv(envMap(nil))).Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultVersionFile, cfg.VersionFile)
	assert.Equal(t, DefaultIdentifier, cfg.Identifier)
	assert.False(t, cfg.Commit)
	assert.False(t, cfg.Tag)
}

func TestLoaderProjectConfigInParent(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	yml := "version_file: src/pkg/__init__.py\nidentifier: VERSION\ntag: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte(yml), 0644))

	cfg, err := NewLoader(quietLogger, WithDir(nested), WithGetenv(envMap(nil))).Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "src", "pkg", "__init__.py"), cfg.VersionFile)
	assert.Equal(t, "VERSION", cfg.Identifier)
	assert.True(t, cfg.Tag)
}

func TestLoaderEnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte("version_file: from-file.py\n"), 0644))

	env := map[string]string{EnvVersionFile: "from-env.py", EnvIdentifier: "version"}
	cfg, err := NewLoader(quietLogger, WithDir(root), WithGetenv(envMap(env))).Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env.py", cfg.VersionFile)
	assert.Equal(t, "version", cfg.Identifier)
}

func TestLoaderLeavesValidationToCaller(t *testing.T) {
	env := map[string]string{EnvIdentifier: "not valid"}
	cfg, err := NewLoader(quietLogger, WithDir(t.TempDir()), WithGetenv(envMap(env))).Load("")
	require.NoError(t, err)
	assert.Equal(t, "not valid", cfg.Identifier)
	assert.Error(t, cfg.Validate())

	cfg.Identifier = "VERSION"
	assert.NoError(t, cfg.Validate())
}

func TestLoaderExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version_file: /abs/__version__.py\ncommit: true\n"), 0644))

	cfg, err := NewLoader(quietLogger, WithGetenv(envMap(nil))).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/abs/__version__.py", cfg.VersionFile)
	assert.True(t, cfg.Commit)

	_, err = NewLoader(quietLogger, WithGetenv(envMap(nil))).Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoaderBrokenProjectConfigIsIgnored(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte("version_file: [unclosed\n"), 0644))

	cfg, err := NewLoader(quietLogger, WithDir(root), WithGetenv(envMap(nil))).Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultVersionFile, cfg.VersionFile)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", *DefaultConfig(), false},
		{"dotted identifier", Config{VersionFile: "v.py", Identifier: "pkg.version"}, false},
		{"empty path", Config{Identifier: "x"}, true},
		{"empty identifier", Config{VersionFile: "v.py"}, true},
		{"identifier with space", Config{VersionFile: "v.py", Identifier: "my version"}, true},
		{"identifier starting with digit", Config{VersionFile: "v.py", Identifier: "1version"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
