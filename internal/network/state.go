package network

import (
	"maps"
	"slices"

	"xss/internal/log"
	"xss/internal/player"
)

// State is the persisted form of the graph.
type State struct {
	Nodes           map[string]Node `json:"nodes"`
	DiscoveredNodes []string        `json:"discovered_nodes"`
	CurrentPath     []string        `json:"current_path"`
}

// State snapshots the graph. The returned value shares nothing with g.
func (g *Graph) State() State {
	nodes := make(map[string]Node, len(g.nodes))
	for addr, n := range g.nodes {
		nodes[addr] = n.Clone()
	}
	return State{
		Nodes:           nodes,
		DiscoveredNodes: g.discovered.Items(),
		CurrentPath:     slices.Clone(g.path),
	}
}

// Restore replaces the graph with a saved state. Identifiers that no longer
// resolve are dropped with a warning; a position on a missing node resets
// the player to localhost.
func (g *Graph) Restore(s State) {
	if len(s.Nodes) > 0 {
		g.nodes = make(map[string]Node, len(s.Nodes))
		for _, addr := range slices.Sorted(maps.Keys(s.Nodes)) {
			n := s.Nodes[addr]
			n.Address = addr
			g.insert(n.Clone())
		}
	}
	if _, ok := g.nodes[Localhost]; !ok {
		log.Warn("saved network lacks localhost; restoring seed rig")
		for _, n := range seedNodes() {
			if n.Address == Localhost {
				g.insert(fresh(n))
			}
		}
	}

	g.discovered = player.NewSet(Localhost)
	for _, addr := range s.DiscoveredNodes {
		if _, ok := g.nodes[addr]; !ok {
			log.Warn("dropping stale discovered node", "node", addr)
			continue
		}
		g.discovered.Add(addr)
	}

	g.path = g.path[:0]
	for _, addr := range s.CurrentPath {
		if _, ok := g.nodes[addr]; !ok {
			log.Warn("dropping stale path entry", "node", addr)
			continue
		}
		g.path = append(g.path, addr)
	}

	if _, ok := g.nodes[g.player.CurrentNode]; !ok {
		log.Warn("current node missing from saved network", "node", g.player.CurrentNode)
		g.player.CurrentNode = Localhost
		g.path = g.path[:0]
	}
	g.discovered.Add(g.player.CurrentNode)
}
