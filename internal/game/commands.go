package game

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"xss/internal/console"
	"xss/internal/errs"
	"xss/internal/events"
	"xss/internal/mission"
	"xss/internal/netmap"
	"xss/internal/network"
	"xss/internal/player"
)

type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	// turn marks commands that take in-game time.
	turn bool
	run  func(s *Session, args []string) error
}

// commandList is the help order.
func commandList() []*command {
	return []*command{
		{name: "help", aliases: []string{"?"}, usage: "help [command]", help: "list commands", run: (*Session).cmdHelp},
		{name: "status", aliases: []string{"st"}, usage: "status", help: "show your character", run: (*Session).cmdStatus},
		{name: "skills", usage: "skills", help: "show skill levels", run: (*Session).cmdSkills},
		{name: "inventory", aliases: []string{"inv"}, usage: "inventory", help: "items, contacts and achievements", run: (*Session).cmdInventory},
		{name: "missions", aliases: []string{"jobs"}, usage: "missions", help: "list missions you can take", run: (*Session).cmdMissions},
		{name: "info", usage: "info <mission>", help: "mission details", run: (*Session).cmdInfo},
		{name: "accept", usage: "accept <mission>", help: "take a mission", run: (*Session).cmdAccept},
		{name: "work", aliases: []string{"w"}, usage: "work", help: "advance the active mission", turn: true, run: (*Session).cmdWork},
		{name: "scan", usage: "scan", help: "reveal neighbors of the current node", turn: true, run: (*Session).cmdScan},
		{name: "nodes", usage: "nodes", help: "list discovered nodes", run: (*Session).cmdNodes},
		{name: "connect", aliases: []string{"ssh"}, usage: "connect <address>", help: "hop to an adjacent node", turn: true, run: (*Session).cmdConnect},
		{name: "disconnect", aliases: []string{"back"}, usage: "disconnect", help: "step back along your path", turn: true, run: (*Session).cmdDisconnect},
		{name: "traceroute", aliases: []string{"trace"}, usage: "traceroute <address>", help: "shortest route to a discovered node", turn: true, run: (*Session).cmdTraceroute},
		{name: "nmap", usage: "nmap [address]", help: "port scan a node", turn: true, run: (*Session).cmdNmap},
		{name: "exploit", aliases: []string{"msf"}, usage: "exploit <address> [vulnerability]", help: "attack a node directly", turn: true, run: (*Session).cmdExploit},
		{name: "ddos", usage: "ddos <address>", help: "knock a node offline with your botnet", turn: true, run: (*Session).cmdDDoS},
		{name: "games", usage: "games", help: "list training games", run: (*Session).cmdGames},
		{name: "train", usage: "train [game]", help: "practice a skill", turn: true, run: (*Session).cmdTrain},
		{name: "faction", usage: "faction [name]", help: "show or join a faction", run: (*Session).cmdFaction},
		{name: "map", usage: "map [file.png|file.svg|file.dot]", help: "draw the discovered network", run: (*Session).cmdMap},
		{name: "stats", usage: "stats", help: "lifetime statistics", run: (*Session).cmdStats},
		{name: "save", usage: "save", help: "save the game", run: (*Session).cmdSave},
		{name: "load", usage: "load", help: "load the saved game", run: (*Session).cmdLoad},
		{name: "quit", aliases: []string{"exit", "logout"}, usage: "quit", help: "save and leave", run: (*Session).cmdQuit},
	}
}

func newCommandTable() map[string]*command {
	table := make(map[string]*command)
	for _, c := range commandList() {
		table[c.name] = c
		for _, alias := range c.aliases {
			table[alias] = c
		}
	}
	return table
}

func needArg(args []string, usage string) (string, error) {
	if len(args) == 0 {
		return "", errs.Validation("usage: %s", usage)
	}
	return args[0], nil
}

func (s *Session) cmdHelp(args []string) error {
	if len(args) > 0 {
		c, ok := s.commands[strings.ToLower(args[0])]
		if !ok {
			return errs.Validation("no command %q", args[0])
		}
		s.io.Println(console.Highlight, c.usage)
		s.io.Println(console.Normal, "  "+c.help)
		if len(c.aliases) > 0 {
			s.io.Println(console.Muted, "  aliases: "+strings.Join(c.aliases, ", "))
		}
		return nil
	}
	s.io.Println(console.Highlight, "Commands:")
	for _, c := range commandList() {
		s.io.Println(console.Normal, fmt.Sprintf("  %-36s %s", c.usage, c.help))
	}
	return nil
}

func (s *Session) cmdStatus([]string) error {
	p := s.player
	s.io.Println(console.Highlight, fmt.Sprintf("%s  turn %d  story stage %d", p.Name, p.Turn, p.StoryStage))
	if p.Faction != "" {
		s.io.Println(console.Info, fmt.Sprintf("Faction: %s (standing %d)", title(p.Faction), p.FactionStanding[p.Faction]))
	}
	s.io.Println(console.Normal, "Node: "+p.CurrentNode)
	s.io.Println(console.Normal, balances(p))
	s.io.Println(console.Normal, fmt.Sprintf("Reputation %d  Heat %s %d/%d  Warnings %d",
		p.Reputation, bar(p.HeatLevel, player.MaxHeat, 10), p.HeatLevel, player.MaxHeat, p.Warnings))
	if m, _, ok := s.engine.Active(); ok {
		s.io.Println(console.Info, fmt.Sprintf("Mission: %s (%d/%d)", m.Name, p.MissionProgress, m.Duration))
	} else {
		s.io.Println(console.Muted, "Mission: none")
	}
	s.io.Println(console.Muted, fmt.Sprintf("Lifetime: %s BTC earned, %d missions done, %d failed",
		money(p.TotalEarned[player.BTC]), p.CompletedMissions.Len(), p.MissionsFailed))
	return nil
}

func (s *Session) cmdSkills([]string) error {
	for _, skill := range player.Skills {
		level := s.player.Skill(skill)
		s.io.Println(console.Normal, fmt.Sprintf("  %-12s %s %2d", title(skill), bar(level, player.MaxSkill, player.MaxSkill), level))
	}
	return nil
}

func (s *Session) cmdInventory([]string) error {
	list := func(label string, set player.Set) {
		items := set.Items()
		if len(items) == 0 {
			s.io.Println(console.Muted, label+": none")
			return
		}
		s.io.Println(console.Normal, label+": "+strings.Join(items, ", "))
	}
	list("Items", s.player.Inventory)
	list("Contacts", s.player.Contacts)
	list("Achievements", s.player.Achievements)
	return nil
}

func (s *Session) cmdMissions([]string) error {
	available := s.engine.ListAvailable()
	if len(available) == 0 {
		s.io.Println(console.Muted, "Nothing on the board right now.")
		return nil
	}
	for _, m := range available {
		style := console.Normal
		marker := " "
		unmet := s.engine.CheckRequirements(m)
		if len(unmet) > 0 {
			style, marker = console.Muted, "x"
		}
		if m.ID == s.player.ActiveMission {
			style, marker = console.Highlight, ">"
		}
		s.io.Println(style, fmt.Sprintf("%s %-24s %-30s risk %2d  %d ticks  %s BTC", marker, m.ID, m.Name, m.Risk, m.Duration, money(m.RewardBTC)))
		if len(unmet) > 0 {
			s.io.Println(console.Muted, "    needs "+strings.Join(unmet, ", "))
		}
	}
	return nil
}

func (s *Session) cmdInfo(args []string) error {
	id, err := needArg(args, "info <mission>")
	if err != nil {
		return err
	}
	m, ok := s.engine.Catalog().Get(id)
	if !ok {
		return errs.Precondition("unknown mission %q", id)
	}
	s.io.Println(console.Highlight, fmt.Sprintf("%s [%s]", m.Name, m.Type))
	s.io.Println(console.Normal, m.Desc)
	s.io.Println(console.Normal, fmt.Sprintf("Risk %d  Duration %d  Cost %s BTC/tick  Heat +%d", m.Risk, m.Duration, money(m.TickCost()), m.HeatGain))
	s.io.Println(console.Normal, fmt.Sprintf("Reward %s BTC, %d reputation", money(m.RewardBTC), m.RewardRep))
	for _, stage := range m.Stages {
		s.io.Println(console.Muted, fmt.Sprintf("  stage %s: %d ticks, risk %d", stage.Name, stage.Duration, stage.Risk))
	}
	switch m.Type {
	case mission.KindTeam:
		s.io.Println(console.Info, fmt.Sprintf("Needs a crew of %d.", m.TeamSize))
	case mission.KindTimeCritical:
		s.io.Println(console.Info, fmt.Sprintf("Must finish within %s.", time.Duration(m.TimeLimit*float64(time.Hour))))
	case mission.KindMoralChoice:
		s.io.Println(console.Info, "Expect a hard call along the way.")
	}
	if unmet := s.engine.CheckRequirements(m); len(unmet) > 0 {
		s.io.Println(console.Warning, "Needs "+strings.Join(unmet, ", "))
	}
	return nil
}

func (s *Session) cmdAccept(args []string) error {
	id, err := needArg(args, "accept <mission>")
	if err != nil {
		return err
	}
	m, err := s.engine.Accept(id)
	if err != nil {
		return err
	}
	s.io.Println(console.Success, "Accepted: "+m.Name)
	s.io.Println(console.Normal, m.Desc)
	if _, active, ok := s.engine.Active(); ok {
		if tc, ok := active.Variant.(mission.TimeCritical); ok {
			s.io.Println(console.Warning, "Deadline: "+tc.Deadline.Format(time.Kitchen))
		}
	}
	return nil
}

func (s *Session) cmdWork([]string) error {
	res, err := s.engine.Work()
	s.renderWork(res)
	return err
}

func (s *Session) renderWork(res mission.WorkResult) {
	for _, msg := range res.Messages {
		s.io.Println(console.Info, msg)
	}
	if res.Mission == "" || (res.Cost == 0 && res.Outcome == mission.OutcomeProgress) {
		return
	}
	if res.Cost > 0 {
		s.io.Println(console.Muted, fmt.Sprintf("Spent %s BTC on this step.", money(res.Cost)))
	}
	if res.Minigame != "" && res.MinigamePassed != nil {
		verdict := "failed"
		if *res.MinigamePassed {
			verdict = "passed"
		}
		s.io.Println(console.Muted, fmt.Sprintf("Checkpoint %s %s.", res.Minigame, verdict))
	}
	if res.Roll > 0 {
		s.io.Println(console.Muted, fmt.Sprintf("Fail chance %s, rolled %d", res.Breakdown, res.Roll))
	}
	for _, stage := range res.StageCompleted {
		s.io.Println(console.Success, "Stage complete: "+stage)
	}

	switch res.Outcome {
	case mission.OutcomeProgress:
		line := fmt.Sprintf("Progress %d/%d", res.Progress, res.Duration)
		if res.Stage != "" {
			line += " (" + res.Stage + ")"
		}
		s.io.Println(console.Success, line)
	case mission.OutcomeCompleted:
		s.sound.Play(console.SoundSuccess)
		s.io.Println(console.Success, "Mission complete: "+res.Name)
		for _, b := range res.Rewards {
			s.io.Println(console.Success, "  "+player.Describe(b))
		}
	case mission.OutcomeFailed:
		s.sound.Play(console.SoundFailure)
		s.io.Println(console.Danger, fmt.Sprintf("Mission failed: %s. Heat +%d, reputation -%d.", res.Name, res.HeatGained, res.ReputationLost))
	case mission.OutcomeTimedOut:
		s.sound.Play(console.SoundFailure)
		s.io.Println(console.Danger, fmt.Sprintf("Out of time on %s. Heat +%d, reputation -%d.", res.Name, res.HeatGained, res.ReputationLost))
	}
}

func (s *Session) cmdScan([]string) error {
	res := s.network.Scan()
	if res.HiddenNode != "" {
		s.io.Println(console.Success, "Found a hidden node: "+res.HiddenNode)
	}
	if len(res.Neighbors) == 0 {
		s.io.Println(console.Muted, "No links from "+res.From+".")
		return nil
	}
	s.io.Println(console.Highlight, "Links from "+res.From+":")
	for _, n := range res.Neighbors {
		line := fmt.Sprintf("  %-28s %-24s sec %d", n.Address, n.Name, n.SecurityLevel)
		if n.Compromised {
			line += " [owned]"
		}
		if len(n.Defenses) > 0 {
			line += " " + strings.Join(n.Defenses, ",")
		}
		s.io.Println(console.Normal, line)
	}
	return nil
}

func (s *Session) cmdNodes([]string) error {
	s.io.Print(console.Normal, netmap.Text(netmap.FromGraph(s.network)))
	return nil
}

func (s *Session) cmdConnect(args []string) error {
	target, err := needArg(args, "connect <address>")
	if err != nil {
		return err
	}
	res, err := s.network.Connect(target)
	if err != nil {
		return err
	}
	if res.Checked {
		s.io.Println(console.Muted, fmt.Sprintf("Security check: attack %d + roll %d vs %d", res.AttackPower, res.Roll, res.Required))
	}
	if !res.Success {
		s.sound.Play(console.SoundFailure)
		s.io.Println(console.Danger, fmt.Sprintf("Connection to %s refused. Heat +%d.", target, res.HeatGained))
		return nil
	}
	s.io.Println(console.Success, "Connected to "+target)
	if res.Compromised {
		s.sound.Play(console.SoundSuccess)
		s.io.Println(console.Highlight, fmt.Sprintf("You own %s now.", target))
	}
	if len(res.Revealed) > 0 {
		s.io.Println(console.Info, "New links: "+strings.Join(res.Revealed, ", "))
	}
	return nil
}

func (s *Session) cmdDisconnect([]string) error {
	addr, err := s.network.Disconnect()
	if err != nil {
		return err
	}
	s.io.Println(console.Info, "Back on "+addr)
	return nil
}

func (s *Session) cmdTraceroute(args []string) error {
	target, err := needArg(args, "traceroute <address>")
	if err != nil {
		return err
	}
	route, err := s.network.Traceroute(target)
	if err != nil {
		return err
	}
	if len(route) == 0 {
		s.io.Println(console.Warning, "No route to "+target)
		return nil
	}
	s.io.Println(console.Normal, strings.Join(route, " -> "))
	s.io.Println(console.Muted, fmt.Sprintf("%d hops", len(route)-1))
	return nil
}

func (s *Session) renderTool(res network.ToolResult) {
	style := console.Danger
	if res.Success {
		style = console.Success
	}
	s.io.Println(console.Muted, fmt.Sprintf("%s %s: %d%% chance", res.Tool, res.Target, res.Chance))
	s.io.Println(style, res.Message)
	if len(res.Services) > 0 {
		s.io.Println(console.Normal, "  services: "+strings.Join(res.Services, ", "))
	}
	if len(res.Vulnerabilities) > 0 {
		s.io.Println(console.Normal, "  vulnerabilities: "+strings.Join(res.Vulnerabilities, ", "))
	}
	if res.Trapped {
		s.sound.Play(console.SoundAlert)
	}
	if res.Detected {
		s.io.Println(console.Warning, "  the IDS noticed you")
	}
	if res.HeatGained > 0 {
		s.io.Println(console.Warning, fmt.Sprintf("  heat +%d", res.HeatGained))
	}
	if res.Compromised {
		s.sound.Play(console.SoundSuccess)
	}
}

func (s *Session) cmdNmap(args []string) error {
	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	res, err := s.network.PortScan(target)
	if err != nil {
		return err
	}
	s.renderTool(res)
	return nil
}

func (s *Session) cmdExploit(args []string) error {
	target, err := needArg(args, "exploit <address> [vulnerability]")
	if err != nil {
		return err
	}
	vuln := ""
	if len(args) > 1 {
		vuln = args[1]
	}
	res, err := s.network.Exploit(target, vuln)
	if err != nil {
		return err
	}
	s.renderTool(res)
	return nil
}

func (s *Session) cmdDDoS(args []string) error {
	target, err := needArg(args, "ddos <address>")
	if err != nil {
		return err
	}
	res, err := s.network.DDoS(target)
	if err != nil {
		return err
	}
	s.renderTool(res)
	return nil
}

func (s *Session) cmdGames([]string) error {
	for _, g := range s.hub.All() {
		s.io.Println(console.Normal, fmt.Sprintf("  %-18s %-24s %-12s difficulty %d", g.ID(), g.Name(), title(g.Skill()), s.hub.DifficultyFor(g)))
	}
	return nil
}

func (s *Session) cmdTrain(args []string) error {
	id := ""
	if len(args) > 0 {
		id = strings.ToLower(args[0])
	}
	res, err := s.hub.Train(id)
	if err != nil {
		return err
	}
	if !res.Passed {
		s.io.Println(console.Danger, "Training failed. Try again.")
		return nil
	}
	s.io.Println(console.Success, fmt.Sprintf("Training passed: +%s BTC, +%d reputation", money(res.BTC), res.Reputation))
	if res.SkillUp {
		s.io.Println(console.Highlight, fmt.Sprintf("%s is now %d!", title(res.Skill), res.Level))
	}
	return nil
}

func (s *Session) cmdFaction(args []string) error {
	if len(args) == 0 {
		if s.player.Faction == "" {
			s.io.Println(console.Normal, "Unaligned. Options: "+strings.Join(player.Factions, ", "))
		} else {
			s.io.Println(console.Normal, "Aligned with the "+title(s.player.Faction))
		}
		return nil
	}
	perks, err := s.player.JoinFaction(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	s.io.Println(console.Success, "You joined the "+title(s.player.Faction))
	for _, b := range perks {
		s.io.Println(console.Success, "  "+player.Describe(b))
	}
	return nil
}

func (s *Session) cmdMap(args []string) error {
	view := netmap.FromGraph(s.network)
	if len(args) == 0 {
		s.io.Print(console.Normal, netmap.Text(view))
		return nil
	}
	path := args[0]
	f, err := os.Create(path)
	if err != nil {
		return errs.Persistence(err, "create %s", path)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := netmap.Render(ctx, view, netmap.FormatFor(path), f); err != nil {
		return errs.Persistence(err, "render map")
	}
	s.io.Println(console.Success, fmt.Sprintf("Map of %d nodes written to %s", len(view.Nodes), path))
	return nil
}

func (s *Session) cmdStats([]string) error {
	if s.stats == nil {
		return errs.Precondition("statistics are disabled")
	}
	sum, err := s.stats.Summary()
	if err != nil {
		return err
	}
	s.io.Println(console.Highlight, fmt.Sprintf("%d events over %d sessions, %d player changes", sum.Events, sum.Sessions, sum.Mutations))
	types := make([]string, 0, len(sum.ByType))
	for t := range sum.ByType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		s.io.Println(console.Normal, fmt.Sprintf("  %-24s %d", t, sum.ByType[events.Type(t)]))
	}
	currencies := make([]string, 0, len(sum.Earned))
	for c := range sum.Earned {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	for _, c := range currencies {
		s.io.Println(console.Normal, fmt.Sprintf("  earned %s %s", money(sum.Earned[c]), c))
	}
	recent, err := s.stats.Recent(5)
	if err != nil {
		return err
	}
	for _, r := range recent {
		s.io.Println(console.Muted, fmt.Sprintf("  %s  %s %s", humanize.Time(r.Time), r.Type, r.Subject))
	}
	return nil
}

func (s *Session) cmdSave([]string) error {
	res, err := s.Save()
	if err != nil {
		return err
	}
	if res.Degraded {
		s.io.Println(console.Warning, "Full save failed; wrote player stats only to "+res.Path)
		return nil
	}
	s.io.Println(console.Success, fmt.Sprintf("Saved to %s (%s)", res.Path, humanize.Bytes(uint64(res.Size))))
	return nil
}

func (s *Session) cmdLoad([]string) error {
	snap, err := s.Load()
	if err != nil {
		return err
	}
	s.io.Println(console.Success, fmt.Sprintf("Loaded %s, saved %s", snap.PlayerStats.Name, humanize.Time(snap.SaveTimestamp)))
	return nil
}

func (s *Session) cmdQuit([]string) error {
	s.quit = true
	if s.store == nil {
		s.io.Println(console.Muted, "Logging off.")
		return nil
	}
	if _, err := s.Save(); err != nil {
		return err
	}
	s.io.Println(console.Muted, "Saved. Logging off.")
	return nil
}
