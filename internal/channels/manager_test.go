package channels

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/config"
	"github.com/skillbox/skillbox/internal/schema"
)

type recordingChannel struct {
	name string
	sent chan bus.OutboundMessage
}

func (r *recordingChannel) Name() string                    { return r.name }
func (r *recordingChannel) Start(ctx context.Context) error { <-ctx.Done(); return nil }
func (r *recordingChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	r.sent <- msg
	return errors.New("ignored")
}

func TestNewManagerEnabledChannels(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Channels.OneBot.Enabled = true
	cfg.Channels.Telegram.Enabled = true

	m := NewManager(&cfg, bus.NewInboundBus(1), bus.NewOutboundBus(1), bus.NewConsoleBus(1), true)
	assert.Equal(t, []string{"cli", "onebot", "telegram"}, m.EnabledChannels())

	m = NewManager(&cfg, bus.NewInboundBus(1), bus.NewOutboundBus(1), nil, false)
	assert.Equal(t, []string{"onebot", "telegram"}, m.EnabledChannels())
}

func TestManagerRoutesOutbound(t *testing.T) {
	outbound := bus.NewOutboundBus(2)
	rec := &recordingChannel{name: "onebot", sent: make(chan bus.OutboundMessage, 1)}
	m := &Manager{channels: map[string]Channel{"onebot": rec}, outbound: outbound}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.StartAll(ctx) //nolint:errcheck

	outbound.Publish(bus.NewOutboundMessage("nowhere", "x", []schema.ContentPart{schema.TextPart("lost")}))
	outbound.Publish(bus.NewOutboundMessage(bus.ChannelOneBot, "group:1", []schema.ContentPart{schema.TextPart("ok")}))

	select {
	case msg := <-rec.sent:
		assert.Equal(t, "group:1", msg.ChatId())
	case <-time.After(2 * time.Second):
		t.Fatal("message not routed")
	}
}
