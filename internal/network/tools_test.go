package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xss/internal/dice"
	"xss/internal/errs"
	"xss/internal/player"
)

func discoverAll(g *Graph) {
	for addr := range g.nodes {
		g.discovered.Add(addr)
	}
}

func TestToolsRequireDiscoveredTarget(t *testing.T) {
	g, _, _ := newTestGraph(nil)

	_, err := g.PortScan("megacorp.com")
	assert.True(t, errs.IsKind(err, errs.KindPrecondition))
	_, err = g.Exploit("megacorp.com", "")
	assert.True(t, errs.IsKind(err, errs.KindPrecondition))
	_, err = g.Exploit("nowhere", "")
	assert.True(t, errs.IsKind(err, errs.KindPrecondition))
}

func TestPortScanRevealsServices(t *testing.T) {
	g, p, _ := newTestGraph(&dice.Script{FallbackFloat: 0.0})
	discoverAll(g)
	p.Skills[player.SkillScanning] = 5

	res, err := g.PortScan("pastebin.leaks")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"http"}, res.Services)
	assert.Equal(t, []string{"xss"}, res.Vulnerabilities)
	assert.Equal(t, 95, res.Chance)
}

func TestPortScanFailureAndIDS(t *testing.T) {
	g, p, _ := newTestGraph(&dice.Script{Floats: []float64{0.0, 0.999}})
	discoverAll(g)

	res, err := g.PortScan("megacorp.com")
	require.NoError(t, err)
	assert.True(t, res.Detected)
	assert.False(t, res.Success)
	assert.Equal(t, 8, res.HeatGained)
	assert.Equal(t, 8, p.HeatLevel)

	n, _ := g.Node("megacorp.com")
	assert.Equal(t, 1, n.IDS.Alerts)
}

func TestExploitCompromisesWithoutConnecting(t *testing.T) {
	g, p, _ := newTestGraph(&dice.Script{FallbackFloat: 0.0})
	g.Scan()

	res, err := g.Exploit("192.168.1.1", "default_credentials")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Compromised)
	assert.Equal(t, Localhost, p.CurrentNode)

	n, _ := g.Node("192.168.1.1")
	assert.True(t, n.IsCompromised)

	again, err := g.Exploit("192.168.1.1", "")
	require.NoError(t, err)
	assert.Equal(t, "already owned", again.Message)
}

func TestExploitChanceModifiers(t *testing.T) {
	g, _, _ := newTestGraph(nil)
	discoverAll(g)

	// 30 + 6 - 5 + 15 + 20 = 66
	res, err := g.Exploit("192.168.1.1", "default_credentials")
	require.NoError(t, err)
	assert.Equal(t, 66, res.Chance)
	assert.False(t, res.Success)
	assert.Equal(t, 2, res.HeatGained)

	// 30 + 6 - 5 + 15 - 10 = 36
	res, err = g.Exploit("192.168.1.1", "heartbleed")
	require.NoError(t, err)
	assert.Equal(t, 36, res.Chance)

	// fed reserve clamps at the floor
	res, err = g.Exploit("fed-reserve.gov", "")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Chance)
}

func TestExploitHoneypotTrap(t *testing.T) {
	g, p, _ := newTestGraph(&dice.Script{FallbackFloat: 0.0})
	discoverAll(g)

	res, err := g.Exploit("research-lab.edu", "")
	require.NoError(t, err)
	assert.True(t, res.Trapped)
	assert.False(t, res.Success)
	assert.Equal(t, 20, p.HeatLevel)
	assert.Equal(t, 1, p.Warnings)

	n, _ := g.Node("research-lab.edu")
	assert.False(t, n.IsCompromised)
}

func TestDDoSNeedsBotnet(t *testing.T) {
	g, p, _ := newTestGraph(&dice.Script{FallbackFloat: 0.0})
	discoverAll(g)

	_, err := g.DDoS("megacorp.com")
	assert.True(t, errs.IsKind(err, errs.KindPrecondition))

	_, err = g.Compromise("pastebin.leaks")
	require.NoError(t, err)
	_, err = g.Compromise("192.168.1.1")
	require.NoError(t, err)
	rep := p.Reputation

	res, err := g.DDoS("megacorp.com")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, rep+5, p.Reputation)
	n, _ := g.Node("megacorp.com")
	assert.Equal(t, 0, n.Uptime)

	g.Tick()
	n, _ = g.Node("megacorp.com")
	assert.Equal(t, 25, n.Uptime)
}

func TestTickPatchesAndSpawns(t *testing.T) {
	g, _, _ := newTestGraph(&dice.Script{FallbackFloat: 0.0})
	before := len(g.Nodes())

	messages := g.Tick()
	assert.Len(t, messages, 2)
	assert.Len(t, g.Nodes(), before+1)

	// the first uncompromised node in address order gets patched
	router, _ := g.Node("192.168.1.1")
	assert.Equal(t, 2, router.SecurityLevel)
}

func TestTickQuiet(t *testing.T) {
	g, _, _ := newTestGraph(nil)
	assert.Empty(t, g.Tick())
}
