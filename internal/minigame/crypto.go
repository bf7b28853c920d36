package minigame

import (
	"encoding/hex"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"xss/internal/console"
	"xss/internal/dice"
	"xss/internal/player"
)

var words = []string{"payload", "backdoor", "rootkit", "exploit", "firewall", "password", "tunnel", "botnet", "malware", "keylogger", "phantom", "shadow", "darknet", "cipher"}

func shiftRune(r rune, k int) rune {
	if r < 'a' || r > 'z' {
		return r
	}
	return 'a' + (r-'a'+rune(k%26)+26)%26
}

// CaesarEncode shifts every lowercase letter by k.
func CaesarEncode(s string, k int) string {
	return strings.Map(func(r rune) rune { return shiftRune(r, k) }, s)
}

func CaesarDecode(s string, k int) string {
	return CaesarEncode(s, -k)
}

// VigenereEncode applies a repeating lowercase key.
func VigenereEncode(s, key string) string {
	return vigenere(s, key, 1)
}

func VigenereDecode(s, key string) string {
	return vigenere(s, key, -1)
}

func vigenere(s, key string, sign int) string {
	key = strings.ToLower(key)
	var b strings.Builder
	i := 0
	for _, r := range s {
		if r < 'a' || r > 'z' {
			b.WriteRune(r)
			continue
		}
		k := int(key[i%len(key)] - 'a')
		b.WriteRune(shiftRune(r, sign*k))
		i++
	}
	return b.String()
}

// Caesar asks the player to undo a shift cipher.
type Caesar struct{}

func (Caesar) ID() string    { return "caesar" }
func (Caesar) Name() string  { return "Caesar Cipher" }
func (Caesar) Skill() string { return player.SkillCracking }

func (Caesar) Difficulty(level int) int { return Difficulty(level) }

func (Caesar) Play(r Round) (bool, error) {
	word := dice.Pick(r.Rng, words)
	shift := dice.Between(r.Rng, 1, 25)
	r.IO.Println(console.Info, "Intercepted: "+CaesarEncode(word, shift))
	switch {
	case r.Difficulty <= 2:
		r.IO.Println(console.Muted, fmt.Sprintf("Hint: shifted by %d", shift))
	case r.Difficulty == 3:
		lo := max(1, shift-2)
		r.IO.Println(console.Muted, fmt.Sprintf("Hint: shift between %d and %d", lo, lo+4))
	}
	for attempt := 0; attempt < 2; attempt++ {
		answer, err := ask(r, "Plaintext: ")
		if err != nil {
			return false, err
		}
		if answer == word {
			return pass(r, "Decrypted.")
		}
		r.IO.Println(console.Warning, "Garbage. Try again.")
	}
	return fail(r, "The plaintext was "+word)
}

var vigenereKeys = [][]string{
	{"key", "zip", "hex"},
	{"hack", "zero", "root"},
	{"cipher", "shadow", "tunnel"},
}

// Vigenere asks for a decryption with a partially known key.
type Vigenere struct{}

func (Vigenere) ID() string    { return "vigenere" }
func (Vigenere) Name() string  { return "Vigenere Cipher" }
func (Vigenere) Skill() string { return player.SkillCracking }

func (Vigenere) Difficulty(level int) int { return steeper(level) }

func (Vigenere) Play(r Round) (bool, error) {
	word := dice.Pick(r.Rng, words)
	tier := min(len(vigenereKeys)-1, (r.Difficulty-1)/2)
	key := dice.Pick(r.Rng, vigenereKeys[tier])
	shown := key
	if r.Difficulty >= 4 {
		shown = key[:len(key)-1] + "?"
	}
	r.IO.Println(console.Info, "Ciphertext: "+VigenereEncode(word, key))
	r.IO.Println(console.Muted, "Recovered key: "+shown)
	answer, err := ask(r, "Plaintext: ")
	if err != nil {
		return false, err
	}
	if answer == word {
		return pass(r, "Key fits. Message recovered.")
	}
	return fail(r, fmt.Sprintf("Wrong. Key %q gives %q", key, word))
}

// HexDecode asks for the ASCII behind a hex dump.
type HexDecode struct{}

func (HexDecode) ID() string    { return "hex_decode" }
func (HexDecode) Name() string  { return "Hex Dump" }
func (HexDecode) Skill() string { return player.SkillScanning }

func (HexDecode) Difficulty(level int) int { return gentler(level) }

func (HexDecode) Play(r Round) (bool, error) {
	plain := dice.Pick(r.Rng, words)
	if r.Difficulty >= 3 {
		plain += "_" + dice.Pick(r.Rng, words)
	}
	r.IO.Println(console.Info, "Memory dump: "+hex.EncodeToString([]byte(plain)))
	answer, err := ask(r, "ASCII: ")
	if err != nil {
		return false, err
	}
	if answer == plain {
		return pass(r, "Dump decoded.")
	}
	return fail(r, "It read "+plain)
}

// Score returns mastermind feedback: digits in place, and right digits in
// the wrong place.
func Score(secret, guess []int) (exact, partial int) {
	counts := make(map[int]int)
	for i := range secret {
		if i < len(guess) && secret[i] == guess[i] {
			exact++
			continue
		}
		counts[secret[i]]++
	}
	for i := range guess {
		if i < len(secret) && secret[i] == guess[i] {
			continue
		}
		if counts[guess[i]] > 0 {
			counts[guess[i]]--
			partial++
		}
	}
	return exact, partial
}

func parseDigits(s string, n int) ([]int, bool) {
	s = strings.ReplaceAll(s, " ", "")
	if len(s) != n {
		return nil, false
	}
	out := make([]int, n)
	for i, c := range s {
		if c < '0' || c > '5' {
			return nil, false
		}
		out[i] = int(c - '0')
	}
	return out, true
}

// HashCrack is mastermind against a PIN hash oracle.
type HashCrack struct{}

func (HashCrack) ID() string    { return "hash_crack" }
func (HashCrack) Name() string  { return "Hash Oracle" }
func (HashCrack) Skill() string { return player.SkillCracking }

func (HashCrack) Difficulty(level int) int { return steeper(level) }

func (HashCrack) Play(r Round) (bool, error) {
	length := 3 + r.Difficulty/3
	attempts := 11 - r.Difficulty
	secret := make([]int, length)
	for i := range secret {
		secret[i] = r.Rng.IntN(6)
	}
	r.IO.Println(console.Info, fmt.Sprintf("Crack a %d-digit PIN (digits 0-5) in %d tries. Feedback: exact/misplaced.", length, attempts))
	for try := 1; try <= attempts; try++ {
		line, err := ask(r, fmt.Sprintf("Guess %d: ", try))
		if err != nil {
			return false, err
		}
		guess, ok := parseDigits(line, length)
		if !ok {
			r.IO.Println(console.Warning, fmt.Sprintf("Enter %d digits between 0 and 5.", length))
			continue
		}
		exact, partial := Score(secret, guess)
		if exact == length {
			return pass(r, "Hash matched.")
		}
		r.IO.Println(console.Normal, fmt.Sprintf("  %d exact, %d misplaced", exact, partial))
	}
	var b strings.Builder
	for _, d := range secret {
		b.WriteString(strconv.Itoa(d))
	}
	return fail(r, "Locked out. PIN was "+b.String())
}

// CodeGuess is higher/lower against an access code.
type CodeGuess struct{}

func (CodeGuess) ID() string    { return "code_guess" }
func (CodeGuess) Name() string  { return "Access Code" }
func (CodeGuess) Skill() string { return player.SkillCracking }

func (CodeGuess) Difficulty(level int) int { return Difficulty(level) }

func (CodeGuess) Play(r Round) (bool, error) {
	limit := 20 * r.Difficulty
	code := dice.Between(r.Rng, 1, limit)
	attempts := bits.Len(uint(limit))
	r.IO.Println(console.Info, fmt.Sprintf("Access code is between 1 and %d. %d attempts.", limit, attempts))
	for try := 1; try <= attempts; try++ {
		line, err := ask(r, fmt.Sprintf("Attempt %d: ", try))
		if err != nil {
			return false, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			r.IO.Println(console.Warning, "Numbers only.")
			continue
		}
		switch {
		case n == code:
			return pass(r, "Access granted.")
		case n < code:
			r.IO.Println(console.Normal, "  higher")
		default:
			r.IO.Println(console.Normal, "  lower")
		}
	}
	return fail(r, fmt.Sprintf("Terminal locked. Code was %d", code))
}
