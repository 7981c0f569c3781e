package channel

// OneBotConfig configures the OneBot v11 channel (NapCat, go-cqhttp, Lagrange).
// The bot connects out to the implementation's forward WebSocket.
type OneBotConfig struct {
	Enabled     bool     `json:"enabled"`
	WSURL       string   `json:"wsUrl"`
	AccessToken string   `json:"accessToken"`
	AllowFrom   []string `json:"allowFrom"`
	// GroupPolicy is "open" (every group message) or "mention" (only when
	// the bot is @-mentioned).
	GroupPolicy           string `json:"groupPolicy"`
	ReconnectDelaySeconds int    `json:"reconnectDelaySeconds"`
}

func DefaultOneBotConfig() OneBotConfig {
	return OneBotConfig{
		WSURL:                 "ws://127.0.0.1:3001",
		AllowFrom:             []string{},
		GroupPolicy:           "open",
		ReconnectDelaySeconds: 5,
	}
}
