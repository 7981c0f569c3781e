package channels

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/config/channel"
	"github.com/skillbox/skillbox/internal/schema"
)

// OneBotChannel speaks OneBot v11 over a forward WebSocket (NapCat,
// go-cqhttp, Lagrange). Chat ids are "group:<id>" or "private:<id>".
type OneBotChannel struct {
	Base
	cfg *channel.OneBotConfig

	mu     sync.Mutex // guards conn and serialises writes
	conn   *websocket.Conn
	selfID string
}

func NewOneBotChannel(cfg *channel.OneBotConfig, inbound *bus.InboundBus) *OneBotChannel {
	return &OneBotChannel{
		Base: NewBase(bus.ChannelOneBot, inbound, cfg.AllowFrom),
		cfg:  cfg,
	}
}

func (o *OneBotChannel) Name() string { return string(bus.ChannelOneBot) }

// Start keeps a connection open, reconnecting after a fixed delay.
func (o *OneBotChannel) Start(ctx context.Context) error {
	delay := time.Duration(o.cfg.ReconnectDelaySeconds) * time.Second
	if delay <= 0 {
		delay = 5 * time.Second
	}
	slog.Info("onebot: connecting", "url", o.cfg.WSURL)

	for {
		if err := o.connectOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("onebot: connection lost, reconnecting", "err", err, "delay", delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (o *OneBotChannel) connectOnce(ctx context.Context) error {
	header := http.Header{}
	if o.cfg.AccessToken != "" {
		header.Set("Authorization", "Bearer "+o.cfg.AccessToken)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, o.cfg.WSURL, header)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.conn = conn
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.conn = nil
		o.mu.Unlock()
		conn.Close()
	}()

	// Unblock ReadMessage on shutdown.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	slog.Info("onebot: connected")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		o.handleFrame(raw)
	}
}

// onebotEvent covers the fields of message events and action responses that
// the channel reads.
type onebotEvent struct {
	PostType      string          `json:"post_type"`
	MetaEventType string          `json:"meta_event_type"`
	MessageType   string          `json:"message_type"`
	MessageID     int64           `json:"message_id"`
	UserID        int64           `json:"user_id"`
	GroupID       int64           `json:"group_id"`
	SelfID        int64           `json:"self_id"`
	RawMessage    string          `json:"raw_message"`
	Message       json.RawMessage `json:"message"`

	Status  string `json:"status"`
	RetCode int    `json:"retcode"`
	Echo    string `json:"echo"`
	Wording string `json:"wording"`
}

type onebotSegment struct {
	Type string            `json:"type"`
	Data map[string]string `json:"data"`
}

type onebotAction struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
	Echo   string         `json:"echo"`
}

func (o *OneBotChannel) handleFrame(raw []byte) {
	var ev onebotEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		slog.Debug("onebot: undecodable frame", "err", err)
		return
	}
	switch {
	case ev.Echo != "":
		if ev.Status != "ok" {
			slog.Warn("onebot: action failed", "echo", ev.Echo, "retcode", ev.RetCode, "wording", ev.Wording)
		}
	case ev.PostType == "meta_event":
		if ev.SelfID != 0 {
			o.mu.Lock()
			o.selfID = strconv.FormatInt(ev.SelfID, 10)
			o.mu.Unlock()
		}
	case ev.PostType == "message":
		o.handleMessage(ev)
	}
}

func (o *OneBotChannel) handleMessage(ev onebotEvent) {
	senderID := strconv.FormatInt(ev.UserID, 10)
	selfID := o.botID(ev)
	if senderID == selfID {
		return
	}
	if !o.IsAllowed(senderID) {
		o.deny(senderID)
		return
	}

	text, mentioned := messageText(ev, selfID)
	isGroup := ev.MessageType == "group"
	if isGroup && o.cfg.GroupPolicy == "mention" && !mentioned {
		return
	}

	chatID := "private:" + senderID
	if isGroup {
		chatID = "group:" + strconv.FormatInt(ev.GroupID, 10)
	}
	o.HandleMessage(senderID, chatID, text, map[string]any{
		"message_id": ev.MessageID,
		"is_group":   isGroup,
	})
}

// botID returns the bot's own QQ id from the event, falling back to the id
// learnt from heartbeats.
func (o *OneBotChannel) botID(ev onebotEvent) string {
	if ev.SelfID != 0 {
		return strconv.FormatInt(ev.SelfID, 10)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selfID
}

// messageText extracts the text of a message, dropping @-mentions of the
// bot. The second result reports whether the bot was mentioned.
func messageText(ev onebotEvent, selfID string) (string, bool) {
	var segs []onebotSegment
	if err := json.Unmarshal(ev.Message, &segs); err != nil {
		// String-format messages carry CQ codes; use the raw text as is.
		return strings.TrimSpace(ev.RawMessage), strings.Contains(ev.RawMessage, "[CQ:at,qq="+selfID+"]")
	}
	var (
		sb        strings.Builder
		mentioned bool
	)
	for _, s := range segs {
		switch s.Type {
		case "text":
			sb.WriteString(s.Data["text"])
		case "at":
			if s.Data["qq"] == selfID {
				mentioned = true
			}
		}
	}
	return strings.TrimSpace(sb.String()), mentioned
}

func (o *OneBotChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	if msg.Empty() {
		return nil
	}
	action, err := buildSendAction(msg.ChatId(), msg.Parts())
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.conn == nil {
		return errors.New("onebot: not connected")
	}
	return o.conn.WriteJSON(action)
}

// buildSendAction maps a reply onto a send_group_msg or send_private_msg
// action. The whole reply goes out as one message.
func buildSendAction(chatID string, parts []schema.ContentPart) (onebotAction, error) {
	kind, rawID, ok := strings.Cut(chatID, ":")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if !ok || err != nil {
		return onebotAction{}, fmt.Errorf("onebot: invalid chat_id: %s", chatID)
	}

	var action onebotAction
	switch kind {
	case "group":
		action = onebotAction{Action: "send_group_msg", Params: map[string]any{"group_id": id}}
	case "private":
		action = onebotAction{Action: "send_private_msg", Params: map[string]any{"user_id": id}}
	default:
		return onebotAction{}, fmt.Errorf("onebot: invalid chat_id: %s", chatID)
	}
	action.Params["message"] = toSegments(parts)
	action.Echo = uuid.NewString()
	return action, nil
}

func toSegments(parts []schema.ContentPart) []onebotSegment {
	segs := make([]onebotSegment, 0, len(parts))
	for _, p := range parts {
		switch p.Kind {
		case schema.PartText:
			segs = append(segs, onebotSegment{Type: "text", Data: map[string]string{"text": p.Text}})
		case schema.PartMention:
			if p.UserID == "" {
				continue
			}
			segs = append(segs,
				onebotSegment{Type: "at", Data: map[string]string{"qq": p.UserID}},
				onebotSegment{Type: "text", Data: map[string]string{"text": " "}},
			)
		case schema.PartRemoteImage:
			segs = append(segs, onebotSegment{Type: "image", Data: map[string]string{"file": p.URL}})
		case schema.PartLocalImage:
			segs = append(segs, onebotSegment{Type: "image", Data: map[string]string{
				"file": "base64://" + base64.StdEncoding.EncodeToString(p.Data),
			}})
		}
	}
	return segs
}
