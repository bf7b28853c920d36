// Package netmap draws the discovered part of the network: a graphviz
// rendering for files and sixel-capable terminals, and a text listing for
// everything else.
package netmap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/png"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BourgeoisBear/rasterm"
	"github.com/dominikbraun/graph"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/mattn/go-sixel"
	xdraw "golang.org/x/image/draw"
	"xss/internal/network"
)

// View is the fog-of-war slice of the network the player can see.
type View struct {
	Current string
	Nodes   []network.Node
}

// FromGraph keeps only discovered nodes.
func FromGraph(g *network.Graph) View {
	v := View{Current: g.CurrentAddress()}
	for _, n := range g.Nodes() {
		if g.IsDiscovered(n.Address) {
			v.Nodes = append(v.Nodes, n)
		}
	}
	return v
}

// adjacency builds the visible directed graph. Edges to hidden nodes are dropped.
func (v View) adjacency() (graph.Graph[string, network.Node], error) {
	g := graph.New(func(n network.Node) string { return n.Address }, graph.Directed())
	for _, n := range v.Nodes {
		if err := g.AddVertex(n); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, err
		}
	}
	for _, n := range v.Nodes {
		for _, next := range n.ConnectedNodes {
			if _, err := g.Vertex(next); err != nil {
				continue
			}
			if err := g.AddEdge(n.Address, next); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, err
			}
		}
	}
	return g, nil
}

func (v View) fill(n network.Node) string {
	switch {
	case n.Address == v.Current:
		return "yellow"
	case n.IsCompromised:
		return "palegreen"
	case n.Uptime < network.FullUptime:
		return "gray"
	case n.SecurityLevel >= 7:
		return "lightcoral"
	default:
		return "lightblue"
	}
}

// Format is a render output format.
type Format string

const (
	DOT Format = "dot"
	PNG Format = "png"
	SVG Format = "svg"
)

// FormatFor picks a format from a file extension, defaulting to PNG.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return DOT
	case ".svg":
		return SVG
	default:
		return PNG
	}
}

// Render writes the map in the requested format.
func Render(ctx context.Context, v View, format Format, w io.Writer) error {
	if len(v.Nodes) == 0 {
		return fmt.Errorf("nothing discovered to draw")
	}
	adj, err := v.adjacency()
	if err != nil {
		return fmt.Errorf("build map graph: %w", err)
	}
	adjacency, err := adj.AdjacencyMap()
	if err != nil {
		return fmt.Errorf("adjacency map: %w", err)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("create graphviz instance: %w", err)
	}
	defer gv.Close()

	gvGraph, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("create graphviz graph: %w", err)
	}
	defer gvGraph.Close()

	gvGraph.SetLayout("neato")
	gvGraph.SetBackgroundColor("black")
	gvGraph.SetOverlap(false)
	gvGraph.SetSplines("true")
	gvGraph.Set("sep", "0.6")
	if _, err := gvGraph.Attr(int(cgraph.EDGE), "color", "white"); err != nil {
		return fmt.Errorf("edge defaults: %w", err)
	}
	if _, err := gvGraph.Attr(int(cgraph.NODE), "style", "filled,rounded"); err != nil {
		return fmt.Errorf("node defaults: %w", err)
	}

	gvNodes := make(map[string]*graphviz.Node, len(adjacency))
	addresses := make([]string, 0, len(adjacency))
	for addr := range adjacency {
		addresses = append(addresses, addr)
	}
	slices.Sort(addresses)

	for _, addr := range addresses {
		n, _ := adj.Vertex(addr)
		node, err := gvGraph.CreateNodeByName(addr)
		if err != nil {
			return fmt.Errorf("create node %s: %w", addr, err)
		}
		label := fmt.Sprintf("%s\\nsec %d", addr, n.SecurityLevel)
		if addr == v.Current {
			label = "YOU\\n" + label
		}
		node.SetLabel(label)
		node.SetFillColor(v.fill(n))
		node.SetShape("box")
		node.SetFontColor("black")
		gvNodes[addr] = node
	}

	seen := make(map[string]bool)
	for _, source := range addresses {
		targets := adjacency[source]
		for target := range targets {
			key := source + "|" + target
			if target < source {
				key = target + "|" + source
			}
			if seen[key] {
				continue
			}
			seen[key] = true

			edge, err := gvGraph.CreateEdgeByName("", gvNodes[source], gvNodes[target])
			if err != nil {
				return fmt.Errorf("create edge %s->%s: %w", source, target, err)
			}
			if _, back := adjacency[target][source]; back {
				edge.SetDir("both")
			} else {
				edge.SetDir("forward")
			}
		}
	}

	var gvFormat graphviz.Format
	switch format {
	case DOT:
		gvFormat = "dot"
	case SVG:
		gvFormat = graphviz.SVG
	default:
		gvFormat = graphviz.PNG
	}
	if err := gv.Render(ctx, gvGraph, gvFormat, w); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return nil
}

// Image renders the map and scales it to fit within maxWidth pixels.
func Image(ctx context.Context, v View, maxWidth int) (image.Image, error) {
	var buf bytes.Buffer
	if err := Render(ctx, v, PNG, &buf); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode PNG: %w", err)
	}
	bounds := img.Bounds()
	if maxWidth <= 0 || bounds.Dx() <= maxWidth {
		return img, nil
	}
	scale := float64(maxWidth) / float64(bounds.Dx())
	scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, max(1, int(float64(bounds.Dy())*scale))))
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)
	return scaled, nil
}

// WriteSixel encodes img as a sixel stream. Dithered output goes through
// go-sixel's encoder; otherwise the image is reduced to the Plan9 palette and
// written with rasterm.
func WriteSixel(w io.Writer, img image.Image, dither bool) error {
	if dither {
		enc := sixel.NewEncoder(w)
		enc.Dither = true
		return enc.Encode(img)
	}
	bounds := img.Bounds()
	paletted := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(paletted, bounds, img, bounds.Min)
	return rasterm.SixelWriteImage(w, paletted)
}

// Text lists the visible network one node per line.
func Text(v View) string {
	nodes := slices.Clone(v.Nodes)
	slices.SortFunc(nodes, func(a, b network.Node) int { return strings.Compare(a.Address, b.Address) })
	visible := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		visible[n.Address] = true
	}

	var b strings.Builder
	for _, n := range nodes {
		marker := "  "
		if n.Address == v.Current {
			marker = "> "
		}
		status := ""
		if n.IsCompromised {
			status = " [owned]"
		}
		if n.Uptime < network.FullUptime {
			status += fmt.Sprintf(" [down %d%%]", n.Uptime)
		}
		var links []string
		hidden := 0
		for _, next := range n.ConnectedNodes {
			if visible[next] {
				links = append(links, next)
			} else {
				hidden++
			}
		}
		fmt.Fprintf(&b, "%s%s (sec %d)%s", marker, n.Address, n.SecurityLevel, status)
		if len(links) > 0 {
			fmt.Fprintf(&b, " -> %s", strings.Join(links, ", "))
		}
		if hidden > 0 {
			fmt.Fprintf(&b, " +%d unknown", hidden)
		}
		b.WriteString("\n")
	}
	return b.String()
}
