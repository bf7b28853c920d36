package network

func link(addrs ...string) []string { return addrs }

func firewall(rate float64) *Firewall {
	return &Firewall{Active: true, DetectionRate: rate, Rules: []string{"deny inbound *", "allow 443/tcp"}}
}

func ids(rate float64) *IDS {
	return &IDS{Active: true, DetectionRate: rate}
}

// seedNodes is the starting world.
func seedNodes() []Node {
	return []Node{
		{Address: Localhost, Name: "Your Rig", Kind: "workstation", SecurityLevel: 0, Services: link("shell"),
			IsCompromised: true, Owner: OwnerPlayer,
			ConnectedNodes: link("forum.xss.is", "darkmarket.onion", "192.168.1.1")},
		{Address: "192.168.1.1", Name: "Home Router", Kind: "router", SecurityLevel: 1, Services: link("http", "dns"),
			Vulnerabilities: link("default_credentials"),
			ConnectedNodes:  link(Localhost, "isp-gateway.net")},
		{Address: "forum.xss.is", Name: "XSS Forum", Kind: "forum", SecurityLevel: 2, Services: link("http", "https"),
			Description:    "Where deals are made and reputations are burned.",
			ConnectedNodes: link(Localhost, "exploit.in", "darkmarket.onion", "pastebin.leaks")},
		{Address: "darkmarket.onion", Name: "Dark Market", Kind: "market", SecurityLevel: 3, Services: link("http", "tor"),
			Firewall:       firewall(0.2),
			ConnectedNodes: link(Localhost, "forum.xss.is", "crypto-exchange.io", "escrow.onion")},
		{Address: "exploit.in", Name: "Exploit.in", Kind: "forum", SecurityLevel: 4, Services: link("http", "ssh"),
			ConnectedNodes: link("forum.xss.is", "zeroday.market")},
		{Address: "pastebin.leaks", Name: "Leak Paste", Kind: "paste", SecurityLevel: 1, Services: link("http"),
			Vulnerabilities: link("xss"),
			ConnectedNodes:  link("forum.xss.is", "megacorp.com")},
		{Address: "isp-gateway.net", Name: "ISP Gateway", Kind: "router", SecurityLevel: 3, Services: link("bgp", "dns", "ssh"),
			ConnectedNodes: link("192.168.1.1", "university.edu", "cloud-provider.com", "megacorp.com")},
		{Address: "university.edu", Name: "State University", Kind: "academic", SecurityLevel: 3, Services: link("http", "ssh", "ftp"),
			Vulnerabilities: link("anonymous_ftp"),
			ConnectedNodes:  link("isp-gateway.net", "research-lab.edu")},
		{Address: "research-lab.edu", Name: "Research Lab", Kind: "academic", SecurityLevel: 5, Services: link("ssh", "mysql"),
			Honeypots:      []Honeypot{{Service: "mysql", Active: true, TrapRate: 0.25}},
			ConnectedNodes: link("university.edu", "gov-contractor.com")},
		{Address: "megacorp.com", Name: "MegaCorp", Kind: "corporate", SecurityLevel: 5, Services: link("http", "https", "smtp", "rdp"),
			Firewall: firewall(0.3), IDS: ids(0.25),
			ConnectedNodes: link("isp-gateway.net", "hr.megacorp.com", "bank.secure.com")},
		{Address: "hr.megacorp.com", Name: "MegaCorp HR", Kind: "corporate", SecurityLevel: 4, Services: link("http", "smb"),
			Vulnerabilities: link("eternalblue"),
			ConnectedNodes:  link("megacorp.com")},
		{Address: "cloud-provider.com", Name: "Nimbus Cloud", Kind: "cloud", SecurityLevel: 6, Services: link("https", "ssh", "k8s"),
			Firewall: firewall(0.35), IDS: ids(0.3),
			ConnectedNodes: link("isp-gateway.net", "crypto-exchange.io")},
		{Address: "crypto-exchange.io", Name: "CoinVault Exchange", Kind: "exchange", SecurityLevel: 7, Services: link("https", "api"),
			Firewall: firewall(0.4), IDS: ids(0.35),
			Honeypots:      []Honeypot{{Service: "api", Active: true, TrapRate: 0.2}},
			ConnectedNodes: link("darkmarket.onion", "cloud-provider.com", "bank.secure.com")},
		{Address: "escrow.onion", Name: "Escrow Service", Kind: "market", SecurityLevel: 4, Services: link("tor", "http"),
			ConnectedNodes: link("darkmarket.onion")},
		{Address: "zeroday.market", Name: "Zero-Day Market", Kind: "market", SecurityLevel: 6, Services: link("tor", "https"),
			IDS:            ids(0.2),
			ConnectedNodes: link("exploit.in")},
		{Address: "bank.secure.com", Name: "SecureBank", Kind: "bank", SecurityLevel: 8, Services: link("https", "swift"),
			Firewall: firewall(0.5), IDS: ids(0.45),
			Honeypots:      []Honeypot{{Service: "https", Active: true, TrapRate: 0.2}, {Service: "swift", Active: true, TrapRate: 0.15}},
			ConnectedNodes: link("megacorp.com", "crypto-exchange.io", "fed-reserve.gov")},
		{Address: "gov-contractor.com", Name: "Gov Contractor", Kind: "government", SecurityLevel: 7, Services: link("https", "vpn", "smb"),
			Firewall: firewall(0.4), IDS: ids(0.4),
			ConnectedNodes: link("research-lab.edu", "fed-reserve.gov")},
		{Address: "fed-reserve.gov", Name: "Federal Reserve", Kind: "government", SecurityLevel: 10, Services: link("https", "swift", "mainframe"),
			Firewall: firewall(0.6), IDS: ids(0.6),
			Honeypots:      []Honeypot{{Service: "mainframe", Active: true, TrapRate: 0.3}},
			ConnectedNodes: link("bank.secure.com", "gov-contractor.com")},
	}
}
