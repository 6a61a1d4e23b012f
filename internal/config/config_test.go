package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Default(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.Equal(BackendTextIR, cfg.Backend)
	assert.True(cfg.Cache.Enabled)
	assert.NotEmpty(cfg.Cache.Dir)
	assert.NoError(cfg.Validate())
}

func Test_Load_MissingFileReturnsDefault(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	assert.NoError(err)
	assert.Equal(Default(), cfg)
}

func Test_Load_OverridesOnlySetFields(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "minic.toml")
	assert.NoError(os.WriteFile(path, []byte(`target_triple = "x86_64-unknown-linux-gnu"`), 0o644))

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal("x86_64-unknown-linux-gnu", cfg.TargetTriple)
	// fields the file didn't mention keep Default()'s values
	assert.Equal(BackendTextIR, cfg.Backend)
	assert.True(cfg.Cache.Enabled)
}

func Test_Load_InvalidConfigRejected(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "minic.toml")
	assert.NoError(os.WriteFile(path, []byte(`backend = "nonexistent-backend"`), 0o644))

	_, err := Load(path)
	assert.Error(err)
}

func Test_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{name: "default is valid", cfg: Default()},
		{name: "unknown backend", cfg: Config{Backend: "nope"}, expectErr: true},
		{name: "cache enabled with no dir", cfg: Config{Backend: BackendTextIR, Cache: Cache{Enabled: true, Dir: ""}}, expectErr: true},
		{name: "cache disabled with no dir is fine", cfg: Config{Backend: BackendTextIR, Cache: Cache{Enabled: false, Dir: ""}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
