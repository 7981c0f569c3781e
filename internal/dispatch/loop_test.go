package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbox/skillbox/internal/bus"
)

func startLoop(t *testing.T) (*bus.InboundBus, *bus.OutboundBus, *bus.ConsoleBus) {
	t.Helper()
	f := newFixture(t)
	in, out, console := bus.NewInboundBus(8), bus.NewOutboundBus(8), bus.NewConsoleBus(8)
	loop := NewLoop(f.d, in, out, console)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = loop.Run(ctx) }()
	return in, out, console
}

func TestLoopRepliesOnOutbound(t *testing.T) {
	in, out, _ := startLoop(t)

	msg := bus.NewInboundMessage(bus.ChannelTelegram, "u1", "chat-1", "weather paris")
	msg.SetMetadata(map[string]any{"message_id": 42})
	in.Publish(msg)

	select {
	case got := <-out.Subscribe():
		assert.Equal(t, bus.ChannelTelegram, got.Channel())
		assert.Equal(t, "chat-1", got.ChatId())
		require.Len(t, got.Parts(), 1)
		assert.Equal(t, "weather", got.Parts()[0].Text)
		assert.Equal(t, 42, got.Metadata()["message_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("no outbound reply")
	}
}

func TestLoopDropsUnknownChat(t *testing.T) {
	in, out, _ := startLoop(t)
	in.Publish(bus.NewInboundMessage(bus.ChannelSlack, "u1", "C1", "hello there"))

	select {
	case got := <-out.Subscribe():
		t.Fatalf("unexpected reply %+v", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestLoopCLIAlwaysAnswers(t *testing.T) {
	in, out, console := startLoop(t)
	in.Publish(bus.NewInboundMessage(bus.ChannelCLI, "user", "direct", "hello there"))

	select {
	case got := <-console.Subscribe():
		assert.True(t, got.Empty())
	case <-out.Subscribe():
		t.Fatal("CLI reply went to the outbound bus")
	case <-time.After(2 * time.Second):
		t.Fatal("no console reply")
	}
}

func TestProcessDirect(t *testing.T) {
	f := newFixture(t)
	loop := NewLoop(f.d, bus.NewInboundBus(1), bus.NewOutboundBus(1), nil)
	res := loop.ProcessDirect(context.Background(), "cron", "ping")
	require.True(t, res.Replied())
	assert.Equal(t, "pong", textOf(res.Parts))
}
