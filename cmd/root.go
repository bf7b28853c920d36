// Package cmd is the xss command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"xss/internal/config"
	"xss/internal/errs"
	"xss/internal/log"
	"xss/internal/save"
	"xss/internal/theme"
)

// options holds the global flags and the config they resolve to. Each root
// command gets its own so tests can run commands side by side.
type options struct {
	cfgFile  string
	saveFile string
	seed     uint64
	ui       string

	cfg *config.Config
}

func (o *options) store() *save.Store {
	return save.NewStore(o.cfg.SaveFile)
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo records build metadata for `xss version`.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "xss",
		Short: "XSS: a terminal hacker RPG",
		Long: `XSS is a single-player hacking RPG played at a terminal prompt.
Take jobs from the underground board, scan and break into hosts, train
your skills with mini-games and keep your heat down.

Run without a subcommand to play.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, o, "")
		},
	}

	root.PersistentFlags().StringVar(&o.cfgFile, "config", "", "config file (default is ./"+config.DefaultPath+")")
	root.PersistentFlags().StringVar(&o.saveFile, "save", "", "save file (default from config)")
	root.PersistentFlags().Uint64Var(&o.seed, "seed", 0, "random seed, 0 for time-seeded")
	root.PersistentFlags().StringVar(&o.ui, "ui", "", "interface: auto, tui or plain")

	root.AddCommand(
		newPlayCmd(o),
		newNewCmd(o),
		newStatusCmd(o),
		newMissionsCmd(o),
		newMapCmd(o),
		newStatsCmd(o),
		newSchemaCmd(),
		newVersionCmd(),
	)
	return root
}

// load resolves the config file, .env, environment and flags, in
// increasing order of precedence, and points logging at the log file.
func (o *options) load(cmd *cobra.Command) error {
	path := o.cfgFile
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path, config.DefaultEnvFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("save") {
		cfg.SaveFile = o.saveFile
	}
	if flags.Changed("seed") {
		cfg.Seed = o.seed
	}
	if flags.Changed("ui") {
		cfg.UI = o.ui
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := theme.GetThemeManager().SetTheme(cfg.Theme); err != nil {
		return errs.Validation("%v (available: %v)", err, theme.GetThemeManager().Available())
	}

	if cfg.LogFile != "" {
		if err := log.SetFileOutput(cfg.LogFile); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not open log file %s: %v\n", cfg.LogFile, err)
		}
	}
	log.SetLevel(cfg.LogLevel)
	log.Debug("config loaded", "path", path, "save", cfg.SaveFile, "ui", cfg.UI)

	o.cfg = cfg
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		log.Close()
		os.Exit(1)
	}
}

// RootCmd returns a fresh root command for testing purposes.
func RootCmd() *cobra.Command {
	return newRootCmd()
}
