// Package minigame holds the skill puzzles played at mission checkpoints and
// during training, and the hub that picks and scores them.
package minigame

import (
	"strings"

	"xss/internal/console"
	"xss/internal/dice"
)

// MaxDifficulty caps every game's difficulty.
const MaxDifficulty = 5

// Round is everything a single play needs.
type Round struct {
	IO         console.IO
	Rng        dice.Source
	Difficulty int
}

// Minigame is a self-contained puzzle. Play blocks on input and returns
// pass or fail; errors come only from the console.
type Minigame interface {
	ID() string
	Name() string
	Skill() string
	// Difficulty maps the player's level in Skill to [1, MaxDifficulty].
	Difficulty(level int) int
	Play(r Round) (bool, error)
}

// Difficulty is the standard curve: one step per two skill levels.
func Difficulty(level int) int {
	return max(1, min(MaxDifficulty, 1+level/2))
}

// steeper starts one step above the standard curve.
func steeper(level int) int {
	return min(MaxDifficulty, Difficulty(level)+1)
}

// gentler lags the standard curve by two skill levels.
func gentler(level int) int {
	return Difficulty(max(0, level-2))
}

func normalize(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// ask reads one line, trimmed and lowercased.
func ask(r Round, prompt string) (string, error) {
	line, err := r.IO.ReadLine(prompt)
	if err != nil {
		return "", err
	}
	return normalize(line), nil
}

func pass(r Round, msg string) (bool, error) {
	r.IO.Println(console.Success, msg)
	return true, nil
}

func fail(r Round, msg string) (bool, error) {
	r.IO.Println(console.Danger, msg)
	return false, nil
}

// All returns one of every game.
func All() []Minigame {
	return []Minigame{
		CodeGuess{},
		Caesar{},
		Vigenere{},
		LogTriage{},
		PacketClassify{},
		PathFinder{},
		PortMatch{},
		HashCrack{},
		PhishingSpot{},
		SQLInjection{},
		FirewallSequence{},
		HexDecode{},
	}
}
