package network

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"xss/internal/dice"
	"xss/internal/errs"
	"xss/internal/events"
	"xss/internal/log"
	"xss/internal/player"
)

// ToolResult reports one offensive tool run against a node.
type ToolResult struct {
	Tool            string
	Target          string
	Chance          int
	Success         bool
	Detected        bool
	Trapped         bool
	HeatGained      int
	Services        []string
	Vulnerabilities []string
	Compromised     bool
	Message         string
}

func clampChance(v int) int {
	return max(5, min(95, v))
}

func (g *Graph) target(address string) (Node, error) {
	if address == "" {
		address = g.player.CurrentNode
	}
	n, ok := g.nodes[address]
	if !ok {
		return Node{}, errs.Precondition("unknown host %s", address)
	}
	if !g.discovered.Has(address) {
		return Node{}, errs.Precondition("%s has not been discovered", address)
	}
	return n, nil
}

func (g *Graph) heat(res *ToolResult, amount int) {
	res.HeatGained += amount
	g.player.AddHeat(amount, res.Tool+":"+res.Target)
}

// idsCheck gives the node's IDS a chance to flag the traffic.
func (g *Graph) idsCheck(n Node, res *ToolResult) {
	if !n.IDSActive() {
		return
	}
	rate := n.IDS.DetectionRate*100 - float64(g.player.Skill(player.SkillStealth)*5)
	if dice.Chance(g.rng, rate) {
		res.Detected = true
		g.heat(res, 5)
		g.mutate(n.Address, func(n *Node) { n.IDS.Alerts++ })
	}
}

// PortScan enumerates services on a discovered node.
func (g *Graph) PortScan(address string) (ToolResult, error) {
	n, err := g.target(address)
	if err != nil {
		return ToolResult{}, err
	}
	res := ToolResult{Tool: "nmap", Target: n.Address}
	chance := 95 - n.SecurityLevel*5 + g.player.Skill(player.SkillScanning)*3
	if n.FirewallActive() {
		chance -= int(math.Round(n.Firewall.DetectionRate * 30))
	}
	res.Chance = clampChance(chance)
	g.idsCheck(n, &res)

	if !dice.Chance(g.rng, float64(res.Chance)) {
		g.heat(&res, 3)
		res.Message = "scan filtered"
		return res, nil
	}
	res.Success = true
	res.Services = slices.Clone(n.Services)
	if g.player.Skill(player.SkillScanning) >= n.SecurityLevel {
		if len(n.Vulnerabilities) == 0 {
			vulns := g.rollVulnerabilities(n.Services)
			g.mutate(n.Address, func(n *Node) { n.Vulnerabilities = vulns })
			n.Vulnerabilities = vulns
		}
		res.Vulnerabilities = slices.Clone(n.Vulnerabilities)
	}
	res.Message = fmt.Sprintf("%d services open", len(res.Services))
	log.Debug("port scan", "target", n.Address, "chance", res.Chance, "vulns", len(res.Vulnerabilities))
	return res, nil
}

// Exploit attacks a node directly. Success compromises it regardless of
// whether the player ever connected.
func (g *Graph) Exploit(address, vuln string) (ToolResult, error) {
	n, err := g.target(address)
	if err != nil {
		return ToolResult{}, err
	}
	res := ToolResult{Tool: "exploit", Target: n.Address}
	if n.IsCompromised {
		res.Success, res.Compromised = true, true
		res.Message = "already owned"
		return res, nil
	}

	chance := 30 + g.player.Skill(player.SkillCracking)*6 - n.SecurityLevel*5
	if len(n.Vulnerabilities) > 0 {
		chance += 15
	}
	if vuln != "" {
		if slices.Contains(n.Vulnerabilities, vuln) {
			chance += 20
		} else {
			chance -= 10
		}
	}
	if n.FirewallActive() {
		chance -= int(math.Round(n.Firewall.DetectionRate * 20))
	}
	res.Chance = clampChance(chance)

	for _, h := range n.Honeypots {
		if !h.Active {
			continue
		}
		if dice.Chance(g.rng, h.TrapRate*100-float64(g.player.Skill(player.SkillStealth)*3)) {
			res.Trapped = true
			g.heat(&res, 20)
			g.player.AddWarning("honeypot:" + n.Address)
			res.Message = "honeypot on " + h.Service + " logged your attack"
			log.Warn("honeypot triggered", "target", n.Address, "service", h.Service)
			events.Emit(g.pub, events.NetworkEvent, n.Address, res.Message, nil)
			return res, nil
		}
	}
	g.idsCheck(n, &res)

	if !dice.Chance(g.rng, float64(res.Chance)) {
		g.heat(&res, n.SecurityLevel*2)
		res.Message = "exploit failed"
		return res, nil
	}
	if _, err := g.Compromise(n.Address); err != nil {
		return res, err
	}
	res.Success, res.Compromised = true, true
	res.Message = "root shell obtained"
	return res, nil
}

// DDoS floods a node with the player's botnet of compromised nodes.
func (g *Graph) DDoS(address string) (ToolResult, error) {
	n, err := g.target(address)
	if err != nil {
		return ToolResult{}, err
	}
	if n.Address == Localhost {
		return ToolResult{}, errs.Precondition("refusing to flood your own rig")
	}
	botnet := g.CompromisedCount()
	if botnet < 2 {
		return ToolResult{}, errs.Precondition("botnet too small: %d compromised nodes, need 2", botnet)
	}
	res := ToolResult{Tool: "ddos", Target: n.Address}
	chance := 50 + botnet*15 + g.player.Skill(player.SkillCracking)*3 - n.SecurityLevel*10
	if n.FirewallActive() {
		chance -= int(math.Round(n.Firewall.DetectionRate * 30))
	}
	res.Chance = clampChance(chance)
	if !dice.Chance(g.rng, float64(res.Chance)) {
		g.heat(&res, 10)
		res.Message = "target absorbed the flood"
		return res, nil
	}
	g.mutate(n.Address, func(n *Node) { n.Uptime = 0 })
	g.player.AddReputation(5, "ddos:"+n.Address)
	g.heat(&res, 15)
	res.Success = true
	res.Message = n.Address + " is offline"
	events.Emit(g.pub, events.NetworkEvent, n.Address, res.Message, map[string]any{"botnet": botnet})
	return res, nil
}

const (
	uptimeRecovery = 25
	patchChance    = 8
	newNodeChance  = 3
)

// Tick advances the background network: downed hosts recover, admins patch,
// and new hosts occasionally appear.
func (g *Graph) Tick() []string {
	var messages []string
	for _, addr := range slices.Sorted(maps.Keys(g.nodes)) {
		n := g.nodes[addr]
		if n.Uptime < FullUptime {
			g.mutate(addr, func(n *Node) { n.Uptime = min(FullUptime, n.Uptime+uptimeRecovery) })
		}
	}

	if dice.Chance(g.rng, patchChance) {
		var candidates []string
		for _, addr := range slices.Sorted(maps.Keys(g.nodes)) {
			n := g.nodes[addr]
			if !n.IsCompromised && n.SecurityLevel < MaxSecurity {
				candidates = append(candidates, addr)
			}
		}
		if len(candidates) > 0 {
			addr := dice.Pick(g.rng, candidates)
			g.mutate(addr, func(n *Node) { n.SecurityLevel++ })
			messages = append(messages, "admins patched "+addr)
		}
	}

	if dice.Chance(g.rng, newNodeChance) {
		parents := g.discovered.Items()
		parent := dice.Pick(g.rng, parents)
		addr := g.spawnNode(parent, false)
		messages = append(messages, "new traffic seen near "+parent)
		log.Debug("network spawned node", "node", addr, "parent", parent)
	}

	for _, m := range messages {
		events.Emit(g.pub, events.NetworkEvent, "", m, nil)
	}
	return messages
}
