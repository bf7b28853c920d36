package game

import (
	"sync"

	"xss/internal/api"
	"xss/internal/log"
	"xss/internal/network"
)

// StateManager tracks what the UI last saw and forwards changes to the UIAPI
type StateManager struct {
	mu          sync.RWMutex
	currentNode string
	status      api.StatusInfo
	uiAPI       api.UIAPI
}

// NewStateManager creates a state manager; a nil uiAPI drops notifications
func NewStateManager(uiAPI api.UIAPI) *StateManager {
	return &StateManager{uiAPI: uiAPI}
}

// nodeInfo converts a graph node to the API shape, keeping only neighbors
// the player has discovered
func nodeInfo(n network.Node, g *network.Graph) api.NodeInfo {
	var neighbors []string
	for _, addr := range n.ConnectedNodes {
		if g.IsDiscovered(addr) {
			neighbors = append(neighbors, addr)
		}
	}
	return api.NodeInfo{
		Address:       n.Address,
		Name:          n.Name,
		SecurityLevel: n.SecurityLevel,
		Compromised:   n.IsCompromised,
		Neighbors:     neighbors,
	}
}

// SetCurrentNode records the player's node and notifies the UI when it changed
func (sm *StateManager) SetCurrentNode(n network.Node, g *network.Graph) {
	sm.mu.Lock()
	old := sm.currentNode
	sm.currentNode = n.Address
	sm.mu.Unlock()

	if old != n.Address && sm.uiAPI != nil {
		log.Debug("node changed", "from", old, "to", n.Address)
		sm.uiAPI.OnNodeChanged(nodeInfo(n, g))
	}
}

// SetStatus stores the latest status and pushes it to the UI
func (sm *StateManager) SetStatus(status api.StatusInfo) {
	sm.mu.Lock()
	sm.status = status
	sm.mu.Unlock()

	if sm.uiAPI != nil {
		sm.uiAPI.OnStatusChanged(status)
	}
}

// CurrentNode returns the last node reported (thread-safe)
func (sm *StateManager) CurrentNode() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentNode
}

// Status returns the last status reported (thread-safe)
func (sm *StateManager) Status() api.StatusInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.status
}
