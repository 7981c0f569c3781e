package channel

// SlackDMConfig controls direct-message behaviour in Slack.
type SlackDMConfig struct {
	Enabled   bool     `json:"enabled"`
	Policy    string   `json:"policy"` // "open" or "allowlist"
	AllowFrom []string `json:"allowFrom"`
}

func DefaultSlackDMConfig() SlackDMConfig {
	return SlackDMConfig{Enabled: true, Policy: "open", AllowFrom: []string{}}
}

// SlackConfig configures the Slack channel (Socket Mode).
type SlackConfig struct {
	Enabled        bool          `json:"enabled"`
	BotToken       string        `json:"botToken"`
	AppToken       string        `json:"appToken"`
	ReplyInThread  bool          `json:"replyInThread"`
	GroupPolicy    string        `json:"groupPolicy"` // "open", "mention" or "allowlist"
	GroupAllowFrom []string      `json:"groupAllowFrom"`
	DM             SlackDMConfig `json:"dm"`
}

func DefaultSlackConfig() SlackConfig {
	return SlackConfig{
		ReplyInThread:  true,
		GroupPolicy:    "open",
		GroupAllowFrom: []string{},
		DM:             DefaultSlackDMConfig(),
	}
}
