package network

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xss/internal/dice"
	"xss/internal/errs"
	"xss/internal/events"
	"xss/internal/log"
	"xss/internal/player"
)

func init() {
	log.SetOutput(io.Discard)
}

// newTestGraph returns a graph whose probability rolls always fail unless
// the script says otherwise.
func newTestGraph(script *dice.Script) (*Graph, *player.State, *[]events.Event) {
	p := player.New("tester")
	var seen []events.Event
	pub := events.PublisherFunc(func(e events.Event) { seen = append(seen, e) })
	if script == nil {
		script = &dice.Script{FallbackFloat: 0.999}
	}
	return New(p, script, pub), p, &seen
}

func TestSecurityCheck(t *testing.T) {
	tests := []struct {
		name   string
		attack int
		roll   int
		level  int
		want   bool
	}{
		{"exactly enough", 4, 2, 2, true},
		{"one short", 4, 1, 2, false},
		{"level zero always passes", 0, 1, 0, true},
		{"max security needs 30", 10, 20, 10, true},
		{"max security short", 9, 20, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SecurityCheck(tt.attack, tt.roll, tt.level))
		})
	}
}

func TestNewGraphDefaults(t *testing.T) {
	g, p, _ := newTestGraph(nil)

	assert.Equal(t, Localhost, p.CurrentNode)
	assert.Equal(t, []string{Localhost}, g.Discovered())
	assert.Equal(t, Localhost, g.Current().Address)

	router, ok := g.Node("192.168.1.1")
	require.True(t, ok)
	assert.Equal(t, OwnerSystem, router.Owner)
	assert.Equal(t, FullUptime, router.Uptime)
	assert.False(t, router.IsCompromised)
}

func TestNodeCopiesDoNotAlias(t *testing.T) {
	g, _, _ := newTestGraph(nil)
	n, _ := g.Node("forum.xss.is")
	n.Services[0] = "gopher"
	n.ConnectedNodes = nil

	again, _ := g.Node("forum.xss.is")
	assert.Equal(t, "http", again.Services[0])
	assert.NotEmpty(t, again.ConnectedNodes)
}

func TestConnectRequiresDiscovery(t *testing.T) {
	g, p, _ := newTestGraph(&dice.Script{Ints: []int{0}, FallbackFloat: 0.999})

	_, err := g.Connect("192.168.1.1")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindPrecondition))
	assert.Equal(t, Localhost, p.CurrentNode)

	scan := g.Scan()
	assert.Len(t, scan.Neighbors, 3)
	assert.True(t, g.IsDiscovered("192.168.1.1"))

	// scanning 1 + cracking 1 + 2*stealth 1 = 4, roll 1: 5 >= 3.
	res, err := g.Connect("192.168.1.1")
	require.NoError(t, err)
	assert.True(t, res.Checked)
	assert.Equal(t, 4, res.AttackPower)
	assert.Equal(t, 1, res.Roll)
	assert.True(t, res.Success)
	assert.True(t, res.Compromised)
	assert.Equal(t, "192.168.1.1", p.CurrentNode)
	assert.Equal(t, []string{Localhost}, g.Path())
	assert.True(t, g.IsDiscovered("isp-gateway.net"))
	assert.Contains(t, res.Revealed, "isp-gateway.net")
}

func TestConnectFailedCheckAddsHeat(t *testing.T) {
	g, p, _ := newTestGraph(&dice.Script{Ints: []int{0}, FallbackFloat: 0.999})
	g.Scan()

	// attack 4 + roll 1 = 5 < 6 for forum security 2.
	res, err := g.Connect("forum.xss.is")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 6, res.Required)
	assert.Equal(t, 4, res.HeatGained)
	assert.Equal(t, 4, p.HeatLevel)
	assert.Equal(t, Localhost, p.CurrentNode)
}

func TestConnectPassedCheckCompromises(t *testing.T) {
	g, p, seen := newTestGraph(&dice.Script{FallbackInt: 19, FallbackFloat: 0.999})
	g.Scan()
	btc := p.Balance(player.BTC)
	rep := p.Reputation

	// forum security 2: attack 4 + roll 20 >= 6.
	res, err := g.Connect("forum.xss.is")
	require.NoError(t, err)
	assert.True(t, res.Checked)
	assert.True(t, res.Success)
	assert.True(t, res.Compromised)

	n, _ := g.Node("forum.xss.is")
	assert.True(t, n.IsCompromised)
	assert.Equal(t, OwnerPlayer, n.Owner)
	assert.NotEmpty(t, n.Vulnerabilities)
	assert.InDelta(t, btc+5, p.Balance(player.BTC), 0.001)
	assert.Equal(t, rep+4, p.Reputation)
	assert.Equal(t, 1, g.CompromisedCount())

	_, err = g.Disconnect()
	require.NoError(t, err)
	res, err = g.Connect("forum.xss.is")
	require.NoError(t, err)
	assert.False(t, res.Checked)
	assert.False(t, res.Compromised)
	assert.InDelta(t, btc+5, p.Balance(player.BTC), 0.001)

	var compromised int
	for _, e := range *seen {
		if e.Type == events.NodeCompromised {
			compromised++
		}
	}
	assert.Equal(t, 1, compromised)
}

func TestConnectFailedCheckDoesNotCompromise(t *testing.T) {
	g, _, _ := newTestGraph(&dice.Script{Ints: []int{0}, FallbackFloat: 0.999})
	g.Scan()

	res, err := g.Connect("forum.xss.is")
	require.NoError(t, err)
	assert.False(t, res.Compromised)
	n, _ := g.Node("forum.xss.is")
	assert.False(t, n.IsCompromised)
	assert.Equal(t, OwnerSystem, n.Owner)
}

func TestConnectRejectsSelfAndUnknown(t *testing.T) {
	g, _, _ := newTestGraph(nil)

	_, err := g.Connect(Localhost)
	assert.True(t, errs.IsKind(err, errs.KindPrecondition))

	_, err = g.Connect("nowhere.example")
	assert.True(t, errs.IsKind(err, errs.KindPrecondition))
}

func TestConnectToOwnedNodeSkipsCheck(t *testing.T) {
	g, p, _ := newTestGraph(nil)
	g.Scan()
	_, err := g.Compromise("forum.xss.is")
	require.NoError(t, err)

	res, err := g.Connect("forum.xss.is")
	require.NoError(t, err)
	assert.False(t, res.Checked)
	assert.False(t, res.Compromised)
	assert.True(t, res.Success)
	assert.Equal(t, "forum.xss.is", p.CurrentNode)
}

func TestDisconnectAndDiscoveryMonotonic(t *testing.T) {
	g, p, _ := newTestGraph(&dice.Script{FallbackInt: 19, FallbackFloat: 0.999})

	_, err := g.Disconnect()
	assert.True(t, errs.IsKind(err, errs.KindPrecondition))

	g.Scan()
	_, err = g.Connect("192.168.1.1")
	require.NoError(t, err)
	g.Scan()
	_, err = g.Connect("isp-gateway.net")
	require.NoError(t, err)
	before := g.Discovered()

	prev, err := g.Disconnect()
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.1", prev)
	prev, err = g.Disconnect()
	require.NoError(t, err)
	assert.Equal(t, Localhost, prev)
	assert.Equal(t, Localhost, p.CurrentNode)

	after := g.Discovered()
	for _, addr := range before {
		assert.Contains(t, after, addr)
	}
}

func TestScanFindsHiddenNodeWhenSkilled(t *testing.T) {
	g, p, seen := newTestGraph(&dice.Script{FallbackFloat: 0.0})
	p.Skills[player.SkillScanning] = 6

	res := g.Scan()
	require.NotEmpty(t, res.HiddenNode)
	assert.True(t, g.IsDiscovered(res.HiddenNode))
	assert.True(t, g.Current().ConnectsTo(res.HiddenNode))
	hidden, ok := g.Node(res.HiddenNode)
	require.True(t, ok)
	assert.True(t, hidden.ConnectsTo(Localhost))
	assert.GreaterOrEqual(t, hidden.SecurityLevel, 3)
	assert.Len(t, res.Neighbors, 4)

	var discovered int
	for _, e := range *seen {
		if e.Type == events.NodeDiscovered {
			discovered++
		}
	}
	assert.Equal(t, 4, discovered)
}

func TestTraceroute(t *testing.T) {
	g, _, _ := newTestGraph(nil)

	_, err := g.Traceroute("exploit.in")
	assert.True(t, errs.IsKind(err, errs.KindPrecondition))

	g.Scan()
	hops, err := g.Traceroute("forum.xss.is")
	require.NoError(t, err)
	assert.Equal(t, []string{Localhost, "forum.xss.is"}, hops)

	self, err := g.Traceroute(Localhost)
	require.NoError(t, err)
	assert.Equal(t, []string{Localhost}, self)
}

func TestTracerouteUnreachable(t *testing.T) {
	g, _, _ := newTestGraph(nil)
	g.Restore(State{
		Nodes: map[string]Node{
			Localhost: {Address: Localhost, IsCompromised: true, Owner: OwnerPlayer},
			"island":  {Address: "island", SecurityLevel: 2},
		},
		DiscoveredNodes: []string{Localhost, "island"},
	})

	hops, err := g.Traceroute("island")
	require.NoError(t, err)
	assert.Empty(t, hops)
}

func TestCompromiseIsIdempotent(t *testing.T) {
	g, p, seen := newTestGraph(nil)
	btc := p.Balance(player.BTC)
	rep := p.Reputation

	ok, err := g.Compromise("pastebin.leaks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, btc+2.5, p.Balance(player.BTC), 0.001)
	assert.Equal(t, rep+2, p.Reputation)

	ok, err = g.Compromise("pastebin.leaks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, btc+2.5, p.Balance(player.BTC), 0.001)
	assert.Equal(t, rep+2, p.Reputation)

	n, _ := g.Node("pastebin.leaks")
	assert.Equal(t, OwnerPlayer, n.Owner)
	assert.Equal(t, 1, g.CompromisedCount())

	var compromised int
	for _, e := range *seen {
		if e.Type == events.NodeCompromised {
			compromised++
		}
	}
	assert.Equal(t, 1, compromised)
}

func TestCompromiseFillsVulnerabilities(t *testing.T) {
	g, _, _ := newTestGraph(nil)
	_, err := g.Compromise("escrow.onion")
	require.NoError(t, err)
	n, _ := g.Node("escrow.onion")
	assert.NotEmpty(t, n.Vulnerabilities)
}

func TestStateRoundTrip(t *testing.T) {
	g, p, _ := newTestGraph(&dice.Script{FallbackInt: 19, FallbackFloat: 0.999})
	g.Scan()
	_, err := g.Connect("darkmarket.onion")
	require.NoError(t, err)
	_, err = g.Compromise("escrow.onion")
	require.NoError(t, err)
	g.mutate("forum.xss.is", func(n *Node) { n.Uptime = 0 })
	g.mutate("pastebin.leaks", func(n *Node) { n.Uptime = 50 })
	saved := g.State()

	restored := New(p, &dice.Script{}, nil)
	restored.Restore(saved)
	assert.Equal(t, saved, restored.State())
	assert.Equal(t, "darkmarket.onion", restored.Current().Address)

	data, err := json.Marshal(saved)
	require.NoError(t, err)
	var decoded State
	require.NoError(t, json.Unmarshal(data, &decoded))
	restored = New(p, &dice.Script{}, nil)
	restored.Restore(decoded)

	forum, _ := restored.Node("forum.xss.is")
	assert.Equal(t, 0, forum.Uptime)
	paste, _ := restored.Node("pastebin.leaks")
	assert.Equal(t, 50, paste.Uptime)
}

func TestRestoreDropsStaleIdentifiers(t *testing.T) {
	g, p, _ := newTestGraph(nil)
	state := g.State()
	state.DiscoveredNodes = append(state.DiscoveredNodes, "ghost.example")
	state.CurrentPath = []string{Localhost, "ghost.example"}
	p.CurrentNode = "ghost.example"

	g.Restore(state)

	assert.False(t, g.IsDiscovered("ghost.example"))
	assert.Equal(t, Localhost, p.CurrentNode)
	assert.Empty(t, g.Path())
}

func TestRestoreBackfillsLocalhost(t *testing.T) {
	g, p, _ := newTestGraph(nil)
	g.Restore(State{Nodes: map[string]Node{"a": {Address: "a"}}})

	_, ok := g.Node(Localhost)
	assert.True(t, ok)
	assert.Equal(t, Localhost, p.CurrentNode)
	assert.True(t, g.IsDiscovered(Localhost))
}
