package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"xss/internal/dice"
	"xss/internal/errs"
	"xss/internal/events"
	"xss/internal/netmap"
	"xss/internal/network"
)

const renderTimeout = 30 * time.Second

func newMapCmd(o *options) *cobra.Command {
	var (
		format string
		out    string
		width  int
		dither bool
	)
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Draw the discovered network from the save",
		Long: `Draw the part of the network the saved game has discovered.

Formats: text (default on a terminal), png, svg, dot and sixel. With --out
and no --format the format follows the file extension.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, _, err := o.store().Load()
			if err != nil {
				return err
			}
			g := network.New(snap.PlayerStats, dice.New(o.cfg.Seed), events.NopPublisher())
			if snap.NetworkState != nil {
				g.Restore(*snap.NetworkState)
			}
			view := netmap.FromGraph(g)

			if format == "" {
				format = "text"
				if out != "" {
					format = string(netmap.FormatFor(out))
				}
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return errs.Persistence(err, "create %s", out)
				}
				defer f.Close()
				bw := bufio.NewWriter(f)
				defer bw.Flush()
				w = bw
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), renderTimeout)
			defer cancel()
			if err := renderMap(ctx, view, format, width, dither, w); err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Map written to %s\n", out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "text, png, svg, dot or sixel")
	cmd.Flags().StringVar(&out, "out", "", "write to a file instead of stdout")
	cmd.Flags().IntVar(&width, "width", 800, "maximum sixel width in pixels")
	cmd.Flags().BoolVar(&dither, "dither", false, "dither sixel output")
	return cmd
}

func renderMap(ctx context.Context, view netmap.View, format string, width int, dither bool, w io.Writer) error {
	switch format {
	case "text":
		_, err := io.WriteString(w, netmap.Text(view))
		return err
	case "sixel":
		img, err := netmap.Image(ctx, view, width)
		if err != nil {
			return err
		}
		return netmap.WriteSixel(w, img, dither)
	case string(netmap.PNG), string(netmap.SVG), string(netmap.DOT):
		return netmap.Render(ctx, view, netmap.Format(format), w)
	}
	return errs.Validation("format must be text, png, svg, dot or sixel, got %q", format)
}
