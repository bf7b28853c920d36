package components

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
	"xss/internal/api"
	"xss/internal/network"
	"xss/internal/theme"
)

// NodeComponent shows the node the player is connected to.
type NodeComponent struct {
	view *tview.TextView
}

func NewNodeComponent() *NodeComponent {
	view := theme.NewPanelView()
	view.SetTitle(" Node ")
	return &NodeComponent{view: view}
}

func (nc *NodeComponent) Update(node api.NodeInfo) {
	nc.view.SetText(FormatNode(theme.Current(), node))
}

func (nc *NodeComponent) GetView() *tview.TextView {
	return nc.view
}

// FormatNode renders node as tview markup.
func FormatNode(th theme.Theme, n api.NodeInfo) string {
	c := th.StatusColors()
	label := theme.ColorTag(c.Label)
	value := theme.ColorTag(c.Value)

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s\n", value, tview.Escape(n.Address))
	if n.Name != "" && n.Name != n.Address {
		fmt.Fprintf(&b, "%s%s\n", label, tview.Escape(n.Name))
	}

	secColor := c.Good
	switch {
	case n.SecurityLevel >= 7:
		secColor = c.Bad
	case n.SecurityLevel >= 4:
		secColor = c.Caution
	}
	fmt.Fprintf(&b, "%sSec  %s%s %d\n", label, theme.ColorTag(secColor), gauge(n.SecurityLevel, network.MaxSecurity, 10), n.SecurityLevel)
	if n.Compromised {
		fmt.Fprintf(&b, "%s%s\n", theme.ColorTag(c.Good), tview.Escape("[OWNED]"))
	}

	b.WriteString("\n" + label + "Links\n")
	if len(n.Neighbors) == 0 {
		b.WriteString(value + " (scan to discover)\n")
	}
	for _, addr := range n.Neighbors {
		fmt.Fprintf(&b, "%s %s\n", value, tview.Escape(addr))
	}
	return b.String()
}
