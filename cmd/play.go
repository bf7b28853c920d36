package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"xss/internal/api"
	"xss/internal/config"
	"xss/internal/console"
	"xss/internal/dice"
	"xss/internal/game"
	"xss/internal/log"
	"xss/internal/stats"
	"xss/internal/tui"
)

func newPlayCmd(o *options) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the game (default command)",
		Long: `Play the game. An existing save is resumed; otherwise a new game
starts under the handle given by --name, or one you type in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, o, name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "handle for a new game")
	return cmd
}

func runPlay(cmd *cobra.Command, o *options, name string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if useTUI(cmd, o.cfg) {
		return tui.NewApplication().Run(ctx, func(ctx context.Context, cio console.IO, ui api.UIAPI) error {
			return play(ctx, o, cio, ui, newSounder(o.cfg, os.Stdout), name)
		})
	}
	out := cmd.OutOrStdout()
	plain := console.NewPlain(cmd.InOrStdin(), out, isTerminal(out))
	return play(ctx, o, plain, nil, newSounder(o.cfg, out), name)
}

// useTUI resolves ui=auto against the terminal the command writes to.
func useTUI(cmd *cobra.Command, cfg *config.Config) bool {
	switch cfg.UI {
	case config.UITUI:
		return true
	case config.UIPlain:
		return false
	}
	return isTerminal(cmd.OutOrStdout()) && isTerminal(cmd.InOrStdin())
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newSounder(cfg *config.Config, out io.Writer) console.Sounder {
	if !cfg.Sound {
		return console.Silent{}
	}
	return console.NewBell(out)
}

// play builds a session, resumes the save if there is one and runs the
// command loop. The statistics database is optional: failing to open it
// only costs the stats command.
func play(ctx context.Context, o *options, cio console.IO, ui api.UIAPI, sound console.Sounder, name string) error {
	cfg := o.cfg
	store := o.store()

	var db *stats.DB
	if cfg.StatsDB != "" {
		var err error
		db, err = stats.Open(cfg.StatsDB)
		if err != nil {
			log.Warn("statistics disabled", "path", cfg.StatsDB, "error", err)
			cio.Println(console.Muted, "statistics disabled: "+err.Error())
		} else {
			defer db.Close()
		}
	}

	resume := store.Exists()
	if !resume && name == "" {
		var err error
		name, err = askName(cio)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	opts := game.Options{
		Name:          name,
		Rng:           dice.New(cfg.Seed),
		IO:            cio,
		Sound:         sound,
		Store:         store,
		Checkpoints:   cfg.CheckpointMinigames,
		AutosaveTurns: cfg.AutosaveTurns,
		HeatDecay:     cfg.HeatDecay,
		UI:            ui,
		Stats:         db,
	}
	session, err := game.New(opts)
	if err != nil {
		return err
	}
	defer session.Close()

	if resume {
		snap, err := session.Load()
		if err != nil {
			cio.Println(console.Danger, err.Error())
			cio.Println(console.Warning, "Starting a new game instead. Your old save is left alone until you save.")
		} else {
			cio.Println(console.Info, fmt.Sprintf("Resumed %s from %s", snap.PlayerStats.Name, store.Path()))
		}
	}
	return session.Run(ctx)
}

// askName reads a handle, falling back to "anon" on a blank line.
func askName(cio console.IO) (string, error) {
	line, err := cio.ReadLine("Choose your handle: ")
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(line)
	if name == "" {
		name = "anon"
	}
	return name, nil
}
