package channels

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/config/channel"
	"github.com/skillbox/skillbox/internal/schema"
)

const telegramMaxLen = 4000

// TelegramChannel implements the Telegram bot via long polling.
type TelegramChannel struct {
	Base
	cfg *channel.TelegramConfig
	bot *tgbotapi.BotAPI
}

// NewTelegramChannel creates a TelegramChannel.
func NewTelegramChannel(cfg *channel.TelegramConfig, inbound *bus.InboundBus) *TelegramChannel {
	return &TelegramChannel{
		Base: NewBase(bus.ChannelTelegram, inbound, cfg.AllowFrom),
		cfg:  cfg,
	}
}

func (t *TelegramChannel) Name() string { return string(bus.ChannelTelegram) }

func (t *TelegramChannel) Start(ctx context.Context) error {
	if t.cfg.Token == "" {
		return errors.New("telegram: bot token not configured")
	}
	bot, err := tgbotapi.NewBotAPI(t.cfg.Token)
	if err != nil {
		return fmt.Errorf("telegram: create bot: %w", err)
	}
	t.bot = bot
	slog.Info("telegram: connected", "username", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handleUpdate(update)
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

func (t *TelegramChannel) handleUpdate(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	senderID := strconv.FormatInt(msg.From.ID, 10)
	if !t.IsAllowed(senderID, msg.From.UserName) {
		t.deny(senderID)
		return
	}

	content := msg.Text
	if content == "" {
		content = msg.Caption
	}

	isGroup := !msg.Chat.IsPrivate()
	if isGroup {
		var ok bool
		if content, ok = t.addressed(content); !ok {
			return
		}
	}

	t.HandleMessage(senderID, strconv.FormatInt(msg.Chat.ID, 10), content, map[string]any{
		"message_id": msg.MessageID,
		"username":   msg.From.UserName,
		"first_name": msg.From.FirstName,
		"is_group":   isGroup,
	})
}

// addressed applies the group policy to a group message and strips the
// bot's @username from it.
func (t *TelegramChannel) addressed(content string) (string, bool) {
	handle := ""
	if t.bot != nil && t.bot.Self.UserName != "" {
		handle = "@" + t.bot.Self.UserName
	}
	mentioned := handle != "" && strings.Contains(content, handle)
	if t.cfg.GroupPolicy == "mention" && !mentioned {
		return "", false
	}
	if mentioned {
		content = strings.TrimSpace(strings.ReplaceAll(content, handle, ""))
	}
	return content, true
}

func (t *TelegramChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	if t.bot == nil {
		return errors.New("telegram: bot not running")
	}
	if msg.Empty() {
		return nil
	}
	chatID, err := parseChatID(msg.ChatId())
	if err != nil {
		return err
	}

	var replyTo int
	if t.cfg.ReplyToMessage {
		replyTo = metadataInt(msg.Metadata(), "message_id")
	}
	username, _ := msg.Metadata()["username"].(string)

	var errs []error
	mention := func(id string) string { return telegramMention(id, username) }
	for _, seg := range segmentParts(escapeText(msg.Parts()), mention) {
		if seg.image != nil {
			photo := tgbotapi.NewPhoto(chatID, telegramFile(*seg.image))
			photo.ReplyToMessageID = replyTo
			if _, err := t.bot.Send(photo); err != nil {
				errs = append(errs, fmt.Errorf("telegram: send photo: %w", err))
			}
			continue
		}
		for _, chunk := range splitMessage(seg.text, telegramMaxLen) {
			m := tgbotapi.NewMessage(chatID, chunk)
			m.ParseMode = tgbotapi.ModeHTML
			m.ReplyToMessageID = replyTo
			if _, err := t.bot.Send(m); err != nil {
				// Fall back to plain text.
				m.ParseMode = ""
				if _, err := t.bot.Send(m); err != nil {
					errs = append(errs, fmt.Errorf("telegram: send text: %w", err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// telegramFile maps an image part to an upload: remote images by URL, local
// ones by their bytes.
func telegramFile(p schema.ContentPart) tgbotapi.RequestFileData {
	if p.Kind == schema.PartRemoteImage {
		return tgbotapi.FileURL(p.URL)
	}
	return tgbotapi.FileBytes{Name: filepath.Base(p.Path), Bytes: p.Data}
}

// telegramMention renders an inline user link. Text parts are sent with the
// HTML parse mode, so the label is escaped.
func telegramMention(userID, username string) string {
	label := userID
	if username != "" {
		label = username
	}
	return fmt.Sprintf(`<a href="tg://user?id=%s">@%s</a> `, userID, htmlEscape(label))
}

// escapeText returns a copy of parts with text escaped for the HTML parse mode.
func escapeText(parts []schema.ContentPart) []schema.ContentPart {
	out := make([]schema.ContentPart, len(parts))
	for i, p := range parts {
		if p.Kind == schema.PartText {
			p.Text = htmlEscape(p.Text)
		}
		out[i] = p
	}
	return out
}

func htmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func metadataInt(md map[string]any, key string) int {
	switch v := md[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func parseChatID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat_id: %s", s)
	}
	return id, nil
}
