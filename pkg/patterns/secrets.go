package patterns

import "regexp"

// SecretPatterns provides regular expressions for generic secrets
type SecretPatterns struct {
	// Password shaped text: a complex standalone token, or a key/value context
	PasswordCharset *regexp.Regexp
	PasswordContext *regexp.Regexp

	// Candidate card number runs; digits still need a Luhn check
	CreditCard []*regexp.Regexp

	APIKey []*regexp.Regexp

	JWT *regexp.Regexp

	SSHPrivateKey *regexp.Regexp
	SSHPublicKey  *regexp.Regexp

	// Ethereum account address
	EthereumAddress *regexp.Regexp
}

// PasswordSymbols are the symbols counted by the password complexity check
const PasswordSymbols = "@$!%*?&#"

// GetSecretPatterns returns compiled regular expressions for generic secrets
func GetSecretPatterns() *SecretPatterns {
	return &SecretPatterns{
		PasswordCharset: regexp.MustCompile(`^[A-Za-z\d@$!%*?&#]{8,}$`),
		PasswordContext: regexp.MustCompile(`(?i)(?:password|passwd|pwd|pass)[\s:=]+\S+`),

		CreditCard: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:\d[ -]*?){13,16}\b`),
			regexp.MustCompile(`\b[3-6]\d{3}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{3,4}\b`),
		},

		APIKey: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:api[_-]?key|apikey|api_token)[\s:=]+[\w-]{20,}`),
			regexp.MustCompile(`sk_live_[a-zA-Z0-9]{24,}`),
			regexp.MustCompile(`pk_live_[a-zA-Z0-9]{24,}`),
			regexp.MustCompile(`[a-f0-9]{32}`),
		},

		JWT: regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),

		SSHPrivateKey: regexp.MustCompile(`-----BEGIN (?:RSA |DSA |EC |OPENSSH )?PRIVATE KEY-----`),
		SSHPublicKey:  regexp.MustCompile(`ssh-(?:rsa|dss|ed25519) [A-Za-z0-9+/]+`),

		EthereumAddress: regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`),
	}
}

// GetExcludedApps returns application names whose clipboard content always expires
func GetExcludedApps() []string {
	return []string{
		// Password managers
		"1Password", "Bitwarden", "LastPass", "KeePassXC",

		// Bitcoin wallets
		"Sparrow", "Electrum", "Bitcoin Core", "BlueWallet", "Wasabi Wallet",

		// Nostr clients
		"Damus", "Primal", "Amethyst", "Iris", "Snort", "Nostrudel",

		// Terminals
		"Terminal", "iTerm",
	}
}

// GetAppCategories returns known application names grouped by category.
// Categories are checked in the order returned by GetAppCategoryOrder.
func GetAppCategories() map[string][]string {
	return map[string][]string{
		"terminal": {
			"Terminal", "iTerm2", "iTerm", "Hyper", "Alacritty",
			"kitty", "WezTerm", "Console",
		},
		"ide": {
			"Visual Studio Code", "Code", "Xcode", "IntelliJ IDEA",
			"PyCharm", "WebStorm", "Sublime Text", "Atom", "Nova",
			"TextMate", "BBEdit", "Cursor", "Zed",
		},
		"browser": {
			"Safari", "Google Chrome", "Chrome", "Firefox", "Brave Browser",
			"Microsoft Edge", "Opera", "Vivaldi", "Arc",
		},
		"word_processor": {
			"Microsoft Word", "Pages", "Google Docs", "LibreOffice Writer",
			"TextEdit", "Scrivener", "Ulysses", "Bear", "Notion",
			"Obsidian", "Craft",
		},
		"spreadsheet": {
			"Microsoft Excel", "Numbers", "Google Sheets", "LibreOffice Calc",
		},
		"email": {
			"Mail", "Outlook", "Thunderbird", "Spark", "Airmail",
			"Canary Mail", "Gmail",
		},
		"messaging": {
			"Messages", "Slack", "Discord", "Telegram", "WhatsApp",
			"Signal", "Microsoft Teams", "Zoom",
		},
		"bitcoin_wallet": {
			"Sparrow", "Electrum", "Bitcoin Core", "Wasabi Wallet",
			"BlueWallet", "Specter", "Bitcoin-Qt", "Blockstream Green",
		},
		"password_manager": {
			"1Password", "Bitwarden", "LastPass", "KeePassXC",
			"Dashlane", "Enpass", "NordPass",
		},
	}
}

// GetAppCategoryOrder returns the category names in matching order
func GetAppCategoryOrder() []string {
	return []string{
		"terminal", "ide", "browser", "word_processor", "spreadsheet",
		"email", "messaging", "bitcoin_wallet", "password_manager",
	}
}
