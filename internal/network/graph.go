package network

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/dominikbraun/graph"
	"xss/internal/dice"
	"xss/internal/errs"
	"xss/internal/events"
	"xss/internal/log"
	"xss/internal/player"
)

// Graph owns every node and the player's traversal state. The player's
// position is the single current_node scalar on player.State.
type Graph struct {
	nodes      map[string]Node
	discovered player.Set
	path       []string

	player *player.State
	rng    dice.Source
	pub    events.Publisher
}

// New builds the seeded world with only localhost discovered.
func New(p *player.State, rng dice.Source, pub events.Publisher) *Graph {
	if pub == nil {
		pub = events.NopPublisher()
	}
	g := &Graph{
		nodes:      make(map[string]Node),
		discovered: player.NewSet(Localhost),
		player:     p,
		rng:        rng,
		pub:        pub,
	}
	for _, n := range seedNodes() {
		g.insert(fresh(n))
	}
	return g
}

// insert stores n as given apart from a missing owner. Uptime is kept, so a
// node saved while offline stays offline.
func (g *Graph) insert(n Node) {
	if n.Owner == "" {
		n.Owner = OwnerSystem
	}
	g.nodes[n.Address] = n
}

// fresh marks a newly created node as fully up.
func fresh(n Node) Node {
	if n.Uptime == 0 {
		n.Uptime = FullUptime
	}
	return n
}

// mutate applies fn to the stored node.
func (g *Graph) mutate(address string, fn func(n *Node)) {
	n, ok := g.nodes[address]
	if !ok {
		return
	}
	fn(&n)
	g.nodes[address] = n
}

// Node returns a copy of the node at address.
func (g *Graph) Node(address string) (Node, bool) {
	n, ok := g.nodes[address]
	if !ok {
		return Node{}, false
	}
	return n.Clone(), true
}

// Nodes returns copies of every node sorted by address.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// CurrentAddress is the player's position.
func (g *Graph) CurrentAddress() string {
	return g.player.CurrentNode
}

// Current returns the node the player is on.
func (g *Graph) Current() Node {
	n, ok := g.Node(g.player.CurrentNode)
	if !ok {
		n, _ = g.Node(Localhost)
	}
	return n
}

// IsDiscovered reports whether address is visible to the player.
func (g *Graph) IsDiscovered(address string) bool {
	return g.discovered.Has(address)
}

// Discovered returns the discovered addresses, sorted.
func (g *Graph) Discovered() []string {
	return g.discovered.Items()
}

// Path returns the disconnect stack, oldest first.
func (g *Graph) Path() []string {
	return slices.Clone(g.path)
}

// CompromisedCount counts player-owned nodes other than localhost.
func (g *Graph) CompromisedCount() int {
	count := 0
	for addr, n := range g.nodes {
		if addr != Localhost && n.IsCompromised {
			count++
		}
	}
	return count
}

func (g *Graph) discover(address string) bool {
	if !g.discovered.Add(address) {
		return false
	}
	events.Emit(g.pub, events.NodeDiscovered, address, "discovered "+address, nil)
	return true
}

// attackPower is the connect check's offensive score.
func (g *Graph) attackPower() int {
	return g.player.Skill(player.SkillScanning) + g.player.Skill(player.SkillCracking) + 2*g.player.Skill(player.SkillStealth)
}

// SecurityCheck is the connect gate: nothing but these three numbers decides it.
func SecurityCheck(attackPower, roll, securityLevel int) bool {
	return attackPower+roll >= securityLevel*3
}

// ConnectResult reports a connect attempt. A failed security check is a
// result, not an error.
type ConnectResult struct {
	Target      string
	Checked     bool
	AttackPower int
	Roll        int
	Required    int
	Success     bool
	Compromised bool
	HeatGained  int
	Revealed    []string
}

// Connect moves the player to an adjacent, discovered node.
func (g *Graph) Connect(target string) (ConnectResult, error) {
	res := ConnectResult{Target: target}
	current := g.Current()
	if target == current.Address {
		return res, errs.Precondition("already connected to %s", target)
	}
	node, ok := g.nodes[target]
	if !ok {
		return res, errs.Precondition("unknown host %s", target)
	}
	if !current.ConnectsTo(target) || !g.discovered.Has(target) {
		return res, errs.Precondition("%s is not reachable from %s; scan first", target, current.Address)
	}

	if !node.IsCompromised && node.SecurityLevel > 0 {
		res.Checked = true
		res.AttackPower = g.attackPower()
		res.Roll = dice.Between(g.rng, 1, 20)
		res.Required = node.SecurityLevel * 3
		if !SecurityCheck(res.AttackPower, res.Roll, node.SecurityLevel) {
			res.HeatGained = node.SecurityLevel * 2
			g.player.AddHeat(res.HeatGained, "connect:"+target)
			log.Info("connect blocked", "target", target, "attack", res.AttackPower, "roll", res.Roll, "required", res.Required)
			return res, nil
		}
	}

	if res.Checked {
		if _, err := g.Compromise(target); err != nil {
			return res, err
		}
		res.Compromised = true
	}

	g.path = append(g.path, current.Address)
	g.player.CurrentNode = target
	g.discover(target)
	for _, next := range node.ConnectedNodes {
		if _, exists := g.nodes[next]; exists && g.discover(next) {
			res.Revealed = append(res.Revealed, next)
		}
	}
	res.Success = true
	log.Info("connected", "target", target, "path_depth", len(g.path))
	events.Emit(g.pub, events.NodeConnected, target, "connected to "+target, map[string]any{"security": node.SecurityLevel})
	return res, nil
}

// Disconnect returns to the previous node, or localhost when the stack is empty.
func (g *Graph) Disconnect() (string, error) {
	current := g.player.CurrentNode
	if current == Localhost {
		return current, errs.Precondition("already at localhost")
	}
	prev := Localhost
	for len(g.path) > 0 {
		prev = g.path[len(g.path)-1]
		g.path = g.path[:len(g.path)-1]
		if _, ok := g.nodes[prev]; ok {
			break
		}
		prev = Localhost
	}
	g.player.CurrentNode = prev
	log.Info("disconnected", "from", current, "to", prev)
	return prev, nil
}

// NodeView is what a scan shows about a neighbor.
type NodeView struct {
	Address       string
	Name          string
	SecurityLevel int
	Compromised   bool
	Defenses      []string
}

// ScanResult lists the current node's neighbors.
type ScanResult struct {
	From       string
	Neighbors  []NodeView
	HiddenNode string
}

// hiddenNodeChance is the percent chance a skilled scan uncovers a hidden node.
const hiddenNodeChance = 30

// Scan reveals every neighbor of the current node.
func (g *Graph) Scan() ScanResult {
	current := g.Current()
	res := ScanResult{From: current.Address}

	if g.player.Skill(player.SkillScanning) >= 5 && dice.Chance(g.rng, hiddenNodeChance) {
		hidden := g.spawnNode(current.Address, true)
		res.HiddenNode = hidden
		current = g.Current()
		log.Info("hidden node found", "node", hidden, "from", current.Address)
	}

	for _, addr := range current.ConnectedNodes {
		n, ok := g.nodes[addr]
		if !ok {
			log.Warn("scan skipped dangling edge", "from", current.Address, "to", addr)
			continue
		}
		g.discover(addr)
		res.Neighbors = append(res.Neighbors, NodeView{
			Address:       addr,
			Name:          n.Name,
			SecurityLevel: n.SecurityLevel,
			Compromised:   n.IsCompromised,
			Defenses:      n.Defenses(),
		})
	}
	return res
}

var hiddenPrefixes = []string{"shadow", "ghost", "vault", "relay", "cache", "mirror", "backdoor"}
var hiddenServices = []string{"ssh", "http", "ftp", "mysql", "smb", "rdp", "tor"}

// spawnNode creates a random node wired from parent. Hidden-node scans wire
// it both ways and reveal it; background network events leave it dark.
func (g *Graph) spawnNode(parent string, reveal bool) string {
	var address string
	for {
		address = fmt.Sprintf("%s-%03d.onion", dice.Pick(g.rng, hiddenPrefixes), dice.Between(g.rng, 1, 999))
		if _, taken := g.nodes[address]; !taken {
			break
		}
	}
	services := []string{dice.Pick(g.rng, hiddenServices), dice.Pick(g.rng, hiddenServices)}
	if services[0] == services[1] {
		services = services[:1]
	}
	n := Node{
		Address:        address,
		Name:           "Unlisted host",
		Kind:           "hidden",
		SecurityLevel:  dice.Between(g.rng, 3, 9),
		Services:       services,
		ConnectedNodes: []string{parent},
	}
	if dice.Chance(g.rng, 50) {
		n.Firewall = firewall(float64(dice.Between(g.rng, 10, 40)) / 100)
	}
	g.insert(fresh(n))
	g.mutate(parent, func(p *Node) {
		if !p.ConnectsTo(address) {
			p.ConnectedNodes = append(p.ConnectedNodes, address)
		}
	})
	if reveal {
		g.discover(address)
	}
	return address
}

// topology builds the full directed adjacency as a dominikbraun graph.
func (g *Graph) topology() (graph.Graph[string, string], error) {
	tg := graph.New(graph.StringHash, graph.Directed())
	for addr := range g.nodes {
		if err := tg.AddVertex(addr); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, err
		}
	}
	for addr, n := range g.nodes {
		for _, next := range n.ConnectedNodes {
			if _, ok := g.nodes[next]; !ok {
				continue
			}
			if err := tg.AddEdge(addr, next); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, err
			}
		}
	}
	return tg, nil
}

// Traceroute returns the shortest hop path from the current node to a
// discovered target, or an empty path when it is unreachable. Hops along
// the path become discovered.
func (g *Graph) Traceroute(target string) ([]string, error) {
	if !g.discovered.Has(target) {
		return nil, errs.Precondition("%s has not been discovered", target)
	}
	if _, ok := g.nodes[target]; !ok {
		log.Warn("discovered node missing from graph", "node", target)
		return nil, errs.Integrity("no route data for %s", target)
	}
	source := g.Current().Address
	if source == target {
		return []string{source}, nil
	}
	tg, err := g.topology()
	if err != nil {
		return nil, fmt.Errorf("build topology: %w", err)
	}
	hops, err := graph.ShortestPath(tg, source, target)
	if err != nil {
		if errors.Is(err, graph.ErrTargetNotReachable) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("shortest path: %w", err)
	}
	for _, hop := range hops {
		g.discover(hop)
	}
	return hops, nil
}

// CompromiseReward is granted once per node.
type CompromiseReward struct {
	BTC        float64
	Reputation int
}

func rewardFor(securityLevel int) CompromiseReward {
	return CompromiseReward{BTC: float64(securityLevel) * 2.5, Reputation: securityLevel * 2}
}

// Compromise marks address as player-owned. It is idempotent: an owned node
// returns true without paying out again.
func (g *Graph) Compromise(address string) (bool, error) {
	n, ok := g.nodes[address]
	if !ok {
		return false, errs.Precondition("unknown host %s", address)
	}
	if n.IsCompromised {
		return true, nil
	}

	g.mutate(address, func(n *Node) {
		n.IsCompromised = true
		n.Owner = OwnerPlayer
		if len(n.Vulnerabilities) == 0 {
			n.Vulnerabilities = g.rollVulnerabilities(n.Services)
		}
	})
	reward := rewardFor(n.SecurityLevel)
	g.player.Earn(player.BTC, reward.BTC, "compromise:"+address)
	g.player.AddReputation(reward.Reputation, "compromise:"+address)
	log.Info("node compromised", "node", address, "security", n.SecurityLevel)
	events.Emit(g.pub, events.NodeCompromised, address, "compromised "+address, map[string]any{
		"security": n.SecurityLevel,
		"btc":      reward.BTC,
	})
	return true, nil
}

func (g *Graph) rollVulnerabilities(services []string) []string {
	var pool []string
	for _, s := range services {
		pool = append(pool, serviceVulns[s]...)
	}
	if len(pool) == 0 {
		return []string{"misconfiguration"}
	}
	dice.Shuffle(g.rng, pool)
	count := dice.Between(g.rng, 1, min(2, len(pool)))
	out := slices.Clone(pool[:count])
	sort.Strings(out)
	return out
}
