package minigame

import (
	"fmt"
	"strconv"
	"strings"

	"xss/internal/console"
	"xss/internal/dice"
	"xss/internal/player"
)

var brands = []string{"paypal.com", "microsoft.com", "google.com", "apple.com", "amazon.com", "coinbase.com", "dropbox.com", "linkedin.com"}

var lookalikes = []func(string) string{
	func(d string) string { return strings.Replace(d, "l", "1", 1) },
	func(d string) string { return strings.Replace(d, "o", "0", 1) },
	func(d string) string { return strings.Replace(d, "m", "rn", 1) },
	func(d string) string { return strings.TrimSuffix(d, ".com") + "-secure.com" },
	func(d string) string { return strings.TrimSuffix(d, ".com") + ".co" },
	func(d string) string { return "login." + strings.TrimSuffix(d, ".com") + ".support" },
}

// Lookalike disguises domain, always producing something different.
func Lookalike(rng dice.Source, domain string) string {
	start := rng.IntN(len(lookalikes))
	for i := range lookalikes {
		if fake := lookalikes[(start+i)%len(lookalikes)](domain); fake != domain {
			return fake
		}
	}
	return "secure-" + domain
}

// PhishingSpot asks which sender is forged.
type PhishingSpot struct{}

func (PhishingSpot) ID() string    { return "phishing_spot" }
func (PhishingSpot) Name() string  { return "Spot the Phish" }
func (PhishingSpot) Skill() string { return player.SkillSocialEng }

func (PhishingSpot) Difficulty(level int) int { return gentler(level) }

func (PhishingSpot) Play(r Round) (bool, error) {
	count := 3 + r.Difficulty/2
	pool := append([]string(nil), brands...)
	dice.Shuffle(r.Rng, pool)
	senders := make([]string, count)
	for i := range senders {
		senders[i] = "security@" + pool[i%len(pool)]
	}
	fake := dice.Between(r.Rng, 0, count-1)
	senders[fake] = "security@" + Lookalike(r.Rng, pool[fake%len(pool)])

	r.IO.Println(console.Info, `Inbox: "Unusual sign-in detected, verify your account"`)
	for i, s := range senders {
		r.IO.Println(console.Normal, fmt.Sprintf("  %d. %s", i+1, s))
	}
	answer, err := ask(r, "Forged sender: ")
	if err != nil {
		return false, err
	}
	if n, err := strconv.Atoi(answer); err == nil && n == fake+1 {
		return pass(r, "Good eye.")
	}
	return fail(r, fmt.Sprintf("%s was the phish.", senders[fake]))
}

type injection struct {
	query   string
	correct string
	decoys  []string
}

var injections = []injection{
	{
		query:   "SELECT * FROM users WHERE user='%s' AND pass='...'",
		correct: "' OR '1'='1' --",
		decoys:  []string{"admin", "\" OR \"\"=\"", "<script>alert(1)</script>", "'; SLEEP(5)"},
	},
	{
		query:   "SELECT * FROM orders WHERE id=%s",
		correct: "1 OR 1=1",
		decoys:  []string{"'1'", "1; --", "../../etc/passwd", "%00"},
	},
	{
		query:   "SELECT name FROM products WHERE sku='%s'",
		correct: "' UNION SELECT password FROM users --",
		decoys:  []string{"' AND 1=2", "UNION password", "{{7*7}}", "' OR SLEEP --"},
	},
}

// SQLInjection asks for the payload that dumps the table.
type SQLInjection struct{}

func (SQLInjection) ID() string    { return "sql_injection" }
func (SQLInjection) Name() string  { return "SQL Injection" }
func (SQLInjection) Skill() string { return player.SkillCracking }

func (SQLInjection) Difficulty(level int) int { return steeper(level) }

func (SQLInjection) Play(r Round) (bool, error) {
	inj := injections[min(len(injections)-1, (r.Difficulty-1)/2)]
	decoys := append([]string(nil), inj.decoys...)
	dice.Shuffle(r.Rng, decoys)
	options := append([]string{inj.correct}, decoys[:min(len(decoys), 1+r.Difficulty/2)]...)
	dice.Shuffle(r.Rng, options)

	r.IO.Println(console.Info, "Target query: "+inj.query)
	for i, o := range options {
		r.IO.Println(console.Normal, fmt.Sprintf("  %d. %s", i+1, o))
	}
	answer, err := ask(r, "Payload: ")
	if err != nil {
		return false, err
	}
	n, err := strconv.Atoi(answer)
	if err == nil && n >= 1 && n <= len(options) && options[n-1] == inj.correct {
		return pass(r, "Rows are pouring out.")
	}
	return fail(r, "Query errored out. The right payload was "+inj.correct)
}
