package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/schema"
	"github.com/skillbox/skillbox/internal/shared/stringutils"
)

// Loop reads InboundMessages from the bus, dispatches each one and
// publishes the reply. Each inbound message is handled in its own goroutine.
type Loop struct {
	dispatcher *Dispatcher
	inbound    *bus.InboundBus
	outbound   *bus.OutboundBus
	console    *bus.ConsoleBus
}

func NewLoop(dispatcher *Dispatcher, inbound *bus.InboundBus, outbound *bus.OutboundBus, console *bus.ConsoleBus) *Loop {
	return &Loop{
		dispatcher: dispatcher,
		inbound:    inbound,
		outbound:   outbound,
		console:    console,
	}
}

// Run blocks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("Dispatch loop started")

	for {
		select {
		case msg := <-l.inbound.Subscribe():
			go l.handleMessage(ctx, msg)
		case <-ctx.Done():
			slog.Info("Dispatch loop stopping")
			return ctx.Err()
		}
	}
}

// ProcessDirect dispatches a message outside the bus (CLI -m, scheduler).
func (l *Loop) ProcessDirect(ctx context.Context, senderID, content string) Result {
	return l.dispatcher.Dispatch(ctx, senderID, content)
}

func (l *Loop) handleMessage(ctx context.Context, msg bus.InboundMessage) {
	slog.Debug("Processing message",
		"sender", msg.SenderId(),
		"route", msg.RoutingKey(),
		"queued", time.Since(msg.Timestamp()),
		"content", stringutils.Truncate(msg.Content(), 80),
	)

	res := l.dispatcher.Dispatch(ctx, msg.SenderId(), msg.Content())

	var parts []schema.ContentPart
	switch {
	case res.Replied():
		parts = res.Parts
	case msg.Channel() == bus.ChannelCLI:
		// The REPL waits for one reply per line; release it with an empty one.
	default:
		return
	}

	out := bus.NewOutboundMessage(msg.Channel(), msg.ChatId(), parts)
	out.SetMetadata(msg.Metadata())

	if msg.Channel() == bus.ChannelCLI && l.console != nil {
		l.console.Publish(out)
		return
	}
	l.outbound.Publish(out)
}
