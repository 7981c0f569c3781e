package channels

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	slackgo "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/config/channel"
	"github.com/skillbox/skillbox/internal/schema"
)

// SlackChannel implements Slack via Socket Mode.
type SlackChannel struct {
	Base
	cfg       *channel.SlackConfig
	webClient *slackgo.Client
	smClient  *socketmode.Client
	botUserID string
}

func NewSlackChannel(cfg *channel.SlackConfig, inbound *bus.InboundBus) *SlackChannel {
	return &SlackChannel{
		Base: NewBase(bus.ChannelSlack, inbound, nil), // Slack uses its own allow logic
		cfg:  cfg,
	}
}

func (s *SlackChannel) Name() string { return string(bus.ChannelSlack) }

func (s *SlackChannel) Start(ctx context.Context) error {
	if s.cfg.BotToken == "" || s.cfg.AppToken == "" {
		slog.Warn("slack: bot/app token not configured")
		<-ctx.Done()
		return ctx.Err()
	}

	s.webClient = slackgo.New(s.cfg.BotToken,
		slackgo.OptionAppLevelToken(s.cfg.AppToken))

	if resp, err := s.webClient.AuthTestContext(ctx); err == nil {
		s.botUserID = resp.UserID
		slog.Info("slack: connected", "bot_user_id", s.botUserID)
	}

	s.smClient = socketmode.New(s.webClient)

	go s.smClient.RunContext(ctx) //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-s.smClient.Events:
			if !ok {
				return nil
			}
			s.handleEvent(evt)
		}
	}
}

func (s *SlackChannel) handleEvent(evt socketmode.Event) {
	if evt.Type != socketmode.EventTypeEventsAPI {
		return
	}
	s.smClient.Ack(*evt.Request)
	cb, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}
	if cb.InnerEvent.Type != "message" && cb.InnerEvent.Type != "app_mention" {
		return
	}
	s.handleInnerEvent(cb.InnerEvent)
}

func (s *SlackChannel) handleInnerEvent(ev slackevents.EventsAPIInnerEvent) {
	data, ok := ev.Data.(map[string]interface{})
	if !ok {
		return
	}
	userID, _ := data["user"].(string)
	chatID, _ := data["channel"].(string)
	text, _ := data["text"].(string)
	subtype, _ := data["subtype"].(string)
	channelType, _ := data["channel_type"].(string)
	ts, _ := data["ts"].(string)
	threadTS, _ := data["thread_ts"].(string)

	if subtype != "" || userID == "" || chatID == "" || userID == s.botUserID {
		return
	}
	// A mention arrives as both a message and an app_mention event.
	if ev.Type == "message" && s.botUserID != "" && strings.Contains(text, "<@"+s.botUserID+">") {
		return
	}

	if !s.isAllowedSlack(userID, chatID, channelType) {
		s.deny(userID)
		return
	}
	if channelType != "im" && !s.shouldRespond(ev.Type, text) {
		return
	}

	if s.cfg.ReplyInThread && threadTS == "" {
		threadTS = ts
	}

	s.HandleMessage(userID, chatID, s.stripMention(text), map[string]any{
		"slack": map[string]any{
			"thread_ts":    threadTS,
			"channel_type": channelType,
		},
	})
}

func (s *SlackChannel) isAllowedSlack(user, chatID, channelType string) bool {
	if channelType == "im" {
		if !s.cfg.DM.Enabled {
			return false
		}
		if s.cfg.DM.Policy == "allowlist" {
			return slices.Contains(s.cfg.DM.AllowFrom, user)
		}
		return true
	}
	if s.cfg.GroupPolicy == "allowlist" {
		return slices.Contains(s.cfg.GroupAllowFrom, chatID)
	}
	return true
}

func (s *SlackChannel) shouldRespond(evType, text string) bool {
	switch s.cfg.GroupPolicy {
	case "open", "allowlist":
		return true
	case "mention":
		if evType == "app_mention" {
			return true
		}
		return s.botUserID != "" && strings.Contains(text, "<@"+s.botUserID+">")
	}
	return false
}

func (s *SlackChannel) stripMention(text string) string {
	if s.botUserID == "" {
		return text
	}
	re := regexp.MustCompile(`<@` + regexp.QuoteMeta(s.botUserID) + `>\s*`)
	return strings.TrimSpace(re.ReplaceAllString(text, ""))
}

func (s *SlackChannel) Send(ctx context.Context, msg bus.OutboundMessage) error {
	if s.webClient == nil || msg.Empty() {
		return nil
	}
	threadTS := slackThread(msg.Metadata())

	var errs []error
	for _, seg := range segmentParts(msg.Parts(), slackMention) {
		if seg.image != nil && seg.image.Kind == schema.PartLocalImage {
			if err := s.upload(ctx, msg.ChatId(), threadTS, *seg.image); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		opts := slackMessageOptions(seg)
		if threadTS != "" {
			opts = append(opts, slackgo.MsgOptionTS(threadTS))
		}
		if _, _, err := s.webClient.PostMessageContext(ctx, msg.ChatId(), opts...); err != nil {
			errs = append(errs, fmt.Errorf("slack: post message: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *SlackChannel) upload(ctx context.Context, chatID, threadTS string, p schema.ContentPart) error {
	name := filepath.Base(p.Path)
	_, err := s.webClient.UploadFileV2Context(ctx, slackgo.UploadFileV2Parameters{
		Channel:         chatID,
		ThreadTimestamp: threadTS,
		Filename:        name,
		Title:           name,
		FileSize:        len(p.Data),
		Reader:          bytes.NewReader(p.Data),
	})
	if err != nil {
		return fmt.Errorf("slack: upload %s: %w", name, err)
	}
	return nil
}

// slackMessageOptions builds the post options for a text or remote image
// segment.
func slackMessageOptions(seg segment) []slackgo.MsgOption {
	if seg.image == nil {
		return []slackgo.MsgOption{slackgo.MsgOptionText(seg.text, false)}
	}
	return []slackgo.MsgOption{
		slackgo.MsgOptionText(seg.image.URL, false),
		slackgo.MsgOptionBlocks(slackgo.NewImageBlock(seg.image.URL, "image", "", nil)),
	}
}

func slackMention(userID string) string { return "<@" + userID + "> " }

// slackThread returns the thread to reply in, never threading direct messages.
func slackThread(md map[string]any) string {
	meta, _ := md["slack"].(map[string]any)
	threadTS, _ := meta["thread_ts"].(string)
	channelType, _ := meta["channel_type"].(string)
	if channelType == "im" {
		return ""
	}
	return threadTS
}
