// Package network simulates the hackable topology: a directed graph of
// nodes keyed by address, fog-of-war discovery, the player's position and
// the two independent compromise paths (connect check and exploit tools).
package network

import "slices"

const (
	Localhost   = "localhost"
	OwnerSystem = "system"
	OwnerPlayer = "player"
	MaxSecurity = 10
	FullUptime  = 100
)

// Firewall filters exploit and scan traffic while active.
type Firewall struct {
	Active        bool     `json:"active"`
	DetectionRate float64  `json:"detection_rate"`
	Rules         []string `json:"rules,omitempty"`
}

// IDS raises heat when it notices tool traffic.
type IDS struct {
	Active        bool    `json:"active"`
	DetectionRate float64 `json:"detection_rate"`
	Alerts        int     `json:"alerts"`
}

// Honeypot traps careless exploit attempts.
type Honeypot struct {
	Service  string  `json:"service"`
	Active   bool    `json:"active"`
	TrapRate float64 `json:"trap_rate"`
}

// Node is a value record; the graph hands out copies and mutates its own.
type Node struct {
	Address         string     `json:"address"`
	Name            string     `json:"name"`
	Kind            string     `json:"kind"`
	Description     string     `json:"description,omitempty"`
	SecurityLevel   int        `json:"security_level"`
	Services        []string   `json:"services"`
	Vulnerabilities []string   `json:"vulnerabilities"`
	IsCompromised   bool       `json:"is_compromised"`
	Owner           string     `json:"owner"`
	Uptime          int        `json:"uptime"`
	Firewall        *Firewall  `json:"firewall,omitempty"`
	IDS             *IDS       `json:"ids_system,omitempty"`
	Honeypots       []Honeypot `json:"honeypots,omitempty"`
	ConnectedNodes  []string   `json:"connected_nodes"`
}

// Clone deep-copies n so callers never alias graph state.
func (n Node) Clone() Node {
	c := n
	c.Services = slices.Clone(n.Services)
	c.Vulnerabilities = slices.Clone(n.Vulnerabilities)
	c.Honeypots = slices.Clone(n.Honeypots)
	c.ConnectedNodes = slices.Clone(n.ConnectedNodes)
	if n.Firewall != nil {
		fw := *n.Firewall
		fw.Rules = slices.Clone(n.Firewall.Rules)
		c.Firewall = &fw
	}
	if n.IDS != nil {
		ids := *n.IDS
		c.IDS = &ids
	}
	return c
}

// ConnectsTo reports whether address is in n's adjacency list.
func (n Node) ConnectsTo(address string) bool {
	return slices.Contains(n.ConnectedNodes, address)
}

func (n Node) HasService(service string) bool {
	return slices.Contains(n.Services, service)
}

func (n Node) FirewallActive() bool {
	return n.Firewall != nil && n.Firewall.Active
}

func (n Node) IDSActive() bool {
	return n.IDS != nil && n.IDS.Active
}

// Defenses summarizes the active defensive subsystems.
func (n Node) Defenses() []string {
	var out []string
	if n.FirewallActive() {
		out = append(out, "firewall")
	}
	if n.IDSActive() {
		out = append(out, "ids")
	}
	for _, h := range n.Honeypots {
		if h.Active {
			out = append(out, "honeypot?")
			break
		}
	}
	return out
}

// serviceVulns maps a service to the vulnerabilities it may expose.
var serviceVulns = map[string][]string{
	"ssh":       {"weak_ssh_keys", "ssh_bruteforce"},
	"http":      {"sql_injection", "xss", "path_traversal"},
	"https":     {"heartbleed", "sql_injection"},
	"ftp":       {"anonymous_ftp"},
	"smtp":      {"open_relay"},
	"mysql":     {"default_credentials"},
	"rdp":       {"bluekeep"},
	"smb":       {"eternalblue"},
	"dns":       {"zone_transfer"},
	"tor":       {"deanonymization"},
	"api":       {"broken_auth"},
	"swift":     {"insider_access"},
	"vpn":       {"unpatched_vpn"},
	"k8s":       {"exposed_dashboard"},
	"bgp":       {"route_hijack"},
	"mainframe": {"legacy_cobol_overflow"},
	"shell":     {"local_root"},
}
