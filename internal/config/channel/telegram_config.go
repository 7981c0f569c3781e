package channel

// TelegramConfig configures the Telegram channel (long polling).
type TelegramConfig struct {
	Enabled        bool     `json:"enabled"`
	Token          string   `json:"token"`
	AllowFrom      []string `json:"allowFrom"` // user ids or usernames; empty allows everyone
	ReplyToMessage bool     `json:"replyToMessage"`
	// GroupPolicy is "open" (every group message) or "mention" (only messages
	// that @-mention the bot).
	GroupPolicy string `json:"groupPolicy"`
}

func DefaultTelegramConfig() TelegramConfig {
	return TelegramConfig{AllowFrom: []string{}, GroupPolicy: "open"}
}
