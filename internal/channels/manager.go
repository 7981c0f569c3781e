package channels

import (
	"context"
	"log/slog"
	"sort"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/config"
)

// Manager owns all enabled channels and routes outbound messages.
type Manager struct {
	channels map[string]Channel
	outbound *bus.OutboundBus
}

// NewManager creates a Manager and initialises all enabled channels.
// The CLIChannel is registered only when interactive is set; it uses the
// console bus to print replies while the gateway runs in a terminal.
func NewManager(cfg *config.Config, inbound *bus.InboundBus, outbound *bus.OutboundBus, console *bus.ConsoleBus, interactive bool) *Manager {
	m := &Manager{
		channels: make(map[string]Channel),
		outbound: outbound,
	}

	if interactive {
		m.register(NewCLIChannel(inbound, console))
	}
	if cfg.Channels.Telegram.Enabled {
		m.register(NewTelegramChannel(&cfg.Channels.Telegram, inbound))
	}
	if cfg.Channels.Slack.Enabled {
		m.register(NewSlackChannel(&cfg.Channels.Slack, inbound))
	}
	if cfg.Channels.OneBot.Enabled {
		m.register(NewOneBotChannel(&cfg.Channels.OneBot, inbound))
	}

	return m
}

func (m *Manager) register(ch Channel) {
	m.channels[ch.Name()] = ch
	slog.Info("channel enabled", "name", ch.Name())
}

// EnabledChannels returns the sorted names of all enabled channels.
func (m *Manager) EnabledChannels() []string {
	names := make([]string, 0, len(m.channels))
	for n := range m.channels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StartAll starts all channels concurrently and dispatches outbound messages.
// Blocks until ctx is cancelled.
func (m *Manager) StartAll(ctx context.Context) error {
	go m.dispatchOutbound(ctx)

	for name, ch := range m.channels {
		go func(n string, c Channel) {
			slog.Info("starting channel", "name", n)
			if err := c.Start(ctx); err != nil && ctx.Err() == nil {
				slog.Error("channel exited with error", "name", n, "err", err)
			}
		}(name, ch)
	}

	<-ctx.Done()
	return ctx.Err()
}

// dispatchOutbound reads from the outbound bus and routes each message to
// the matching channel's Send method.
func (m *Manager) dispatchOutbound(ctx context.Context) {
	for {
		select {
		case msg := <-m.outbound.Subscribe():
			m.deliver(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) deliver(ctx context.Context, msg bus.OutboundMessage) {
	ch, ok := m.channels[string(msg.Channel())]
	if !ok {
		slog.Debug("unknown channel for outbound message", "channel", msg.Channel())
		return
	}
	if err := ch.Send(ctx, msg); err != nil {
		slog.Error("send error", "channel", msg.Channel(), "err", err)
	}
}
