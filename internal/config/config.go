// Package config loads game settings from a YAML file, an optional .env
// file and XSS_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"xss/internal/errs"
)

// UI modes.
const (
	UIAuto  = "auto"
	UITUI   = "tui"
	UIPlain = "plain"
)

// Config holds the game settings.
type Config struct {
	SaveFile            string `yaml:"save_file" json:"save_file"`
	StatsDB             string `yaml:"stats_db" json:"stats_db"`
	LogFile             string `yaml:"log_file" json:"log_file"`
	LogLevel            string `yaml:"log_level" json:"log_level"`
	Seed                uint64 `yaml:"seed" json:"seed"`
	UI                  string `yaml:"ui" json:"ui"`
	Theme               string `yaml:"theme" json:"theme"`
	Sound               bool   `yaml:"sound" json:"sound"`
	CheckpointMinigames bool   `yaml:"checkpoint_minigames" json:"checkpoint_minigames"`
	AutosaveTurns       int    `yaml:"autosave_turns" json:"autosave_turns"`
	HeatDecay           int    `yaml:"heat_decay" json:"heat_decay"`
}

// DefaultPath is read when no --config flag is given.
const DefaultPath = "xss.yaml"

// DefaultEnvFile is merged under the process environment when present.
const DefaultEnvFile = ".env"

func Default() *Config {
	return &Config{
		SaveFile:            "xss_save.json",
		StatsDB:             "xss_stats.db",
		LogFile:             "xss_debug.log",
		LogLevel:            "info",
		UI:                  UIAuto,
		Theme:               "phosphor",
		Sound:               true,
		CheckpointMinigames: true,
		AutosaveTurns:       10,
		HeatDecay:           1,
	}
}

// Load reads path over the defaults. A missing file is not an error.
// Environment overrides come from envFile (if present) and then the
// process environment, which wins.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, errs.Persistence(err, "read config %s", path)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.Validation("parse config %s: %v", path, err)
		}
	}

	env, err := Environ(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Environ merges envFile under the process environment.
func Environ(envFile string) (map[string]string, error) {
	env := make(map[string]string)
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, errs.Validation("parse %s: %v", envFile, err)
		default:
			for k, v := range vars {
				env[k] = v
			}
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, "XSS_") {
			env[k] = v
		}
	}
	return env, nil
}

// ApplyEnv applies XSS_* overrides from env.
func (c *Config) ApplyEnv(env map[string]string) error {
	strs := map[string]*string{
		"XSS_SAVE_FILE": &c.SaveFile,
		"XSS_STATS_DB":  &c.StatsDB,
		"XSS_LOG_FILE":  &c.LogFile,
		"XSS_LOG_LEVEL": &c.LogLevel,
		"XSS_UI":        &c.UI,
		"XSS_THEME":     &c.Theme,
	}
	for key, dst := range strs {
		if v, ok := env[key]; ok && v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"XSS_SOUND":     &c.Sound,
		"XSS_MINIGAMES": &c.CheckpointMinigames,
	}
	for key, dst := range bools {
		v, ok := env[key]
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errs.Validation("%s: %q is not a boolean", key, v)
		}
		*dst = b
	}

	if v := env["XSS_SEED"]; v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errs.Validation("XSS_SEED: %q is not a number", v)
		}
		c.Seed = seed
	}
	return nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	switch c.UI {
	case UIAuto, UITUI, UIPlain:
	default:
		return errs.Validation("ui must be auto, tui or plain, got %q", c.UI)
	}
	if c.SaveFile == "" {
		return errs.Validation("save_file must not be empty")
	}
	if c.AutosaveTurns < 0 {
		return errs.Validation("autosave_turns must be >= 0")
	}
	if c.HeatDecay < 0 {
		return errs.Validation("heat_decay must be >= 0")
	}
	return nil
}

// String renders the config as YAML.
func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return string(out)
}
