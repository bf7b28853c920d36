package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xss/internal/api"
	"xss/internal/dice"
	"xss/internal/network"
	"xss/internal/player"
)

func TestStateManagerNotifiesOnNodeChangeOnly(t *testing.T) {
	ui := &recordingUI{}
	sm := NewStateManager(ui)
	g := network.New(player.New("neo"), &dice.Script{}, nil)

	sm.SetCurrentNode(g.Current(), g)
	sm.SetCurrentNode(g.Current(), g)
	require.Len(t, ui.nodes, 1)
	assert.Equal(t, network.Localhost, sm.CurrentNode())
	assert.Empty(t, ui.nodes[0].Neighbors)

	g.Scan()
	forum, ok := g.Node("forum.xss.is")
	require.True(t, ok)
	sm.SetCurrentNode(forum, g)
	require.Len(t, ui.nodes, 2)
	assert.ElementsMatch(t, []string{network.Localhost, "darkmarket.onion"}, ui.nodes[1].Neighbors)
	assert.Equal(t, 2, ui.nodes[1].SecurityLevel)
}

func TestStateManagerWithoutUI(t *testing.T) {
	sm := NewStateManager(nil)
	sm.SetStatus(api.StatusInfo{Name: "neo", Turn: 3})
	assert.Equal(t, 3, sm.Status().Turn)
}
