package api

// GameAPI defines commands from the UI to the game session
type GameAPI interface {
	// Execute runs one command line and reports whether the player quit.
	Execute(line string) bool

	// Status snapshots the player for panel display.
	Status() StatusInfo
}

// UIAPI defines notifications from the game session to the UI
//
// Methods are called on the session goroutine and must return immediately.
// Queue UI updates through tview's QueueUpdateDraw.
type UIAPI interface {
	OnStatusChanged(status StatusInfo)
	OnNodeChanged(node NodeInfo)
}

// StatusInfo is the player summary shown in the status panel
type StatusInfo struct {
	Name        string             `json:"name"`
	Turn        int                `json:"turn"`
	Balances    map[string]float64 `json:"balances"`
	Reputation  int                `json:"reputation"`
	Heat        int                `json:"heat"`
	Warnings    int                `json:"warnings"`
	Faction     string             `json:"faction,omitempty"`
	StoryStage  int                `json:"story_stage"`
	Skills      map[string]int     `json:"skills"`
	Node        string             `json:"node"`
	Mission     string             `json:"mission,omitempty"`
	Progress    int                `json:"progress"`
	Duration    int                `json:"duration"`
	Discovered  int                `json:"discovered"`
	Compromised int                `json:"compromised"`
	Completed   int                `json:"completed"`
}

// NodeInfo describes the node the player sits on
type NodeInfo struct {
	Address       string   `json:"address"`
	Name          string   `json:"name"`
	SecurityLevel int      `json:"security_level"`
	Compromised   bool     `json:"compromised"`
	Neighbors     []string `json:"neighbors"`
}
