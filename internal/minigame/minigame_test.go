package minigame

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xss/internal/console"
	"xss/internal/dice"
)

func round(difficulty int, lines ...string) (Round, *console.Script) {
	script := console.NewScript(lines...)
	return Round{IO: script, Rng: &dice.Script{}, Difficulty: difficulty}, script
}

func TestDifficultyIsMonotonicAndCapped(t *testing.T) {
	prev := 0
	for level := 0; level <= 10; level++ {
		d := Difficulty(level)
		assert.GreaterOrEqual(t, d, prev)
		assert.GreaterOrEqual(t, d, 1)
		assert.LessOrEqual(t, d, MaxDifficulty)
		prev = d
	}
	assert.Equal(t, MaxDifficulty, Difficulty(10))
}

func TestGameDifficultyCurves(t *testing.T) {
	tests := []struct {
		game  Minigame
		level int
		want  int
	}{
		{Caesar{}, 1, 1},
		{Caesar{}, 4, 3},
		{HashCrack{}, 1, 2},
		{HashCrack{}, 10, MaxDifficulty},
		{SQLInjection{}, 0, 2},
		{PhishingSpot{}, 2, 1},
		{PortMatch{}, 4, 2},
		{HexDecode{}, 7, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.game.Difficulty(tt.level), "%s at %d", tt.game.ID(), tt.level)
	}

	h, p, _ := newTestHub(&dice.Script{})
	for _, id := range h.IDs() {
		g, _ := h.Get(id)
		for level := 0; level <= 10; level++ {
			d := g.Difficulty(level)
			assert.GreaterOrEqual(t, d, 1, id)
			assert.LessOrEqual(t, d, MaxDifficulty, id)
		}
		assert.Equal(t, g.Difficulty(p.Skill(g.Skill())), h.DifficultyFor(g), id)
	}
}

func TestCiphers(t *testing.T) {
	assert.Equal(t, "khoor", CaesarEncode("hello", 3))
	assert.Equal(t, "hello", CaesarDecode("khoor", 3))
	assert.Equal(t, "abc_xyz", CaesarDecode(CaesarEncode("abc_xyz", 29), 29))

	assert.Equal(t, "lxfopv", VigenereEncode("attack", "lemon")[:6])
	assert.Equal(t, "attackatdawn", VigenereDecode(VigenereEncode("attackatdawn", "lemon"), "lemon"))
}

func TestScore(t *testing.T) {
	tests := []struct {
		secret, guess  []int
		exact, partial int
	}{
		{[]int{1, 2, 3}, []int{1, 2, 3}, 3, 0},
		{[]int{1, 2, 3}, []int{3, 1, 2}, 0, 3},
		{[]int{1, 1, 2}, []int{1, 2, 1}, 1, 2},
		{[]int{1, 1, 2}, []int{0, 0, 0}, 0, 0},
		{[]int{0, 0, 5}, []int{0, 5, 5}, 2, 0},
	}
	for _, tt := range tests {
		exact, partial := Score(tt.secret, tt.guess)
		assert.Equal(t, tt.exact, exact, "%v vs %v", tt.secret, tt.guess)
		assert.Equal(t, tt.partial, partial, "%v vs %v", tt.secret, tt.guess)
	}
}

func TestKnockMatches(t *testing.T) {
	assert.True(t, KnockMatches([]int{22, 80, 443}, "22 80 443"))
	assert.True(t, KnockMatches([]int{22, 80, 443}, "22,80,443"))
	assert.False(t, KnockMatches([]int{22, 80, 443}, "22 80"))
	assert.False(t, KnockMatches([]int{22, 80, 443}, "22 443 80"))
}

func TestLookalikeAlwaysDiffers(t *testing.T) {
	for _, domain := range brands {
		for i := 0; i < len(lookalikes); i++ {
			fake := Lookalike(&dice.Script{Ints: []int{i}}, domain)
			assert.NotEqual(t, domain, fake)
		}
	}
}

// With every roll scripted to zero the puzzles are deterministic.
func TestGamesPassWithCorrectAnswers(t *testing.T) {
	tests := []struct {
		game   Minigame
		answer []string
	}{
		{Caesar{}, []string{"payload"}},
		{Vigenere{}, []string{"payload"}},
		{HexDecode{}, []string{"PAYLOAD"}},
		{HashCrack{}, []string{"000"}},
		{CodeGuess{}, []string{"1"}},
		{PortMatch{}, []string{"ssh"}},
		{LogTriage{}, []string{"1"}},
		{PhishingSpot{}, []string{"1"}},
		{SQLInjection{}, []string{"2"}},
		{FirewallSequence{}, []string{"21 21 21"}},
		{PathFinder{}, []string{"1"}},
		{PacketClassify{}, []string{"b", "b", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.game.ID(), func(t *testing.T) {
			r, _ := round(1, tt.answer...)
			passed, err := tt.game.Play(r)
			require.NoError(t, err)
			assert.True(t, passed)
		})
	}
}

func TestGamesFailWithWrongAnswers(t *testing.T) {
	for _, g := range All() {
		t.Run(g.ID(), func(t *testing.T) {
			lines := make([]string, 12)
			for i := range lines {
				lines[i] = "zzz"
			}
			r, _ := round(1, lines...)
			passed, err := g.Play(r)
			require.NoError(t, err)
			assert.False(t, passed)
		})
	}
}

func TestGamesPropagateEOF(t *testing.T) {
	for _, g := range All() {
		r, _ := round(3)
		_, err := g.Play(r)
		assert.ErrorIs(t, err, io.EOF, g.ID())
	}
}

func TestCaesarHintsFadeWithDifficulty(t *testing.T) {
	r, out := round(1, "payload")
	_, err := Caesar{}.Play(r)
	require.NoError(t, err)
	assert.Contains(t, out.Output(), "shifted by 1")

	r, out = round(5, "payload")
	_, err = Caesar{}.Play(r)
	require.NoError(t, err)
	assert.NotContains(t, out.Output(), "Hint")
}

func TestFirewallSequenceReversesAtHighDifficulty(t *testing.T) {
	r, script := round(4, "21 21 21 21 21 21")
	passed, err := FirewallSequence{}.Play(r)
	require.NoError(t, err)
	assert.True(t, passed)
	assert.Equal(t, []string{"Repeat it in reverse: "}, script.Prompts)
}
