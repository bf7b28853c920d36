package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xss/internal/errs"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "absent.yaml"), filepath.Join(dir, "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "xss.yaml")
	require.NoError(t, os.WriteFile(path, []byte("save_file: slot1.json\nseed: 7\nsound: false\nautosave_turns: 3\n"), 0o600))

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "slot1.json", cfg.SaveFile)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.False(t, cfg.Sound)
	assert.Equal(t, 3, cfg.AutosaveTurns)
	assert.Equal(t, "xss_stats.db", cfg.StatsDB)
}

func TestEnvFileAndProcessEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("XSS_SEED=42\nXSS_UI=plain\nXSS_MINIGAMES=false\n"), 0o600))
	t.Setenv("XSS_UI", "tui")

	cfg, err := Load(filepath.Join(dir, "absent.yaml"), envFile)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, UITUI, cfg.UI)
	assert.False(t, cfg.CheckpointMinigames)
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"seed", map[string]string{"XSS_SEED": "lots"}},
		{"sound", map[string]string{"XSS_SOUND": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().ApplyEnv(tt.env)
			assert.True(t, errs.IsKind(err, errs.KindValidation))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"bad ui", func(c *Config) { c.UI = "gui" }, false},
		{"no save file", func(c *Config) { c.SaveFile = "" }, false},
		{"negative decay", func(c *Config) { c.HeatDecay = -1 }, false},
		{"autosave off", func(c *Config) { c.AutosaveTurns = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errs.IsKind(err, errs.KindValidation))
			}
		})
	}
}

func TestBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xss.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: [1, 2"), 0o600))
	_, err := Load(path, "")
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}
