// Package channels provides chat-platform channel implementations.
package channels

import (
	"context"
	"log/slog"
	"strings"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/schema"
)

// Channel is a chat platform adapter managed by Manager.
type Channel interface {
	Name() string
	// Start connects to the platform and blocks until ctx is cancelled.
	Start(ctx context.Context) error
	// Send delivers one reply to the platform.
	Send(ctx context.Context, msg bus.OutboundMessage) error
}

// Base holds common state and helper methods shared by all channels.
type Base struct {
	channelName bus.Channel
	inbound     *bus.InboundBus
	allowFrom   []string // empty = allow all
}

// NewBase creates a Base with the given channel name, bus, and allowlist.
func NewBase(name bus.Channel, inbound *bus.InboundBus, allowFrom []string) Base {
	return Base{channelName: name, inbound: inbound, allowFrom: allowFrom}
}

// IsAllowed reports whether any of the sender's identities is on the
// allowlist. Telegram passes both the numeric id and the username.
func (b *Base) IsAllowed(ids ...string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		for _, allowed := range b.allowFrom {
			if allowed == id {
				return true
			}
		}
	}
	return false
}

// HandleMessage pushes an InboundMessage to the bus. Callers check
// IsAllowed first.
func (b *Base) HandleMessage(senderId, chatId, content string, metadata map[string]any) {
	msg := bus.NewInboundMessage(b.channelName, senderId, chatId, content)
	msg.SetMetadata(metadata)
	b.inbound.Publish(msg)
}

// deny logs a rejected sender.
func (b *Base) deny(senderId string) {
	slog.Warn("access denied", "channel", b.channelName, "sender", senderId)
}

// segment is a run of a reply that a platform sends as one message: either
// text (with mentions rendered inline) or a single image.
type segment struct {
	text  string
	image *schema.ContentPart
}

// segmentParts folds consecutive text and mention parts into one text
// segment and gives each image its own segment, preserving order.
func segmentParts(parts []schema.ContentPart, mention func(userID string) string) []segment {
	var (
		segs []segment
		sb   strings.Builder
	)
	flush := func() {
		if strings.TrimSpace(sb.String()) != "" {
			segs = append(segs, segment{text: sb.String()})
		}
		sb.Reset()
	}
	for i := range parts {
		p := parts[i]
		switch p.Kind {
		case schema.PartText:
			sb.WriteString(p.Text)
		case schema.PartMention:
			if p.UserID != "" {
				sb.WriteString(mention(p.UserID))
			}
		case schema.PartRemoteImage, schema.PartLocalImage:
			flush()
			segs = append(segs, segment{image: &p})
		}
	}
	flush()
	return segs
}

// splitMessage splits content into chunks that fit within maxLen bytes,
// preferring newline breaks, then space breaks, then a hard cut on a rune
// boundary.
func splitMessage(content string, maxLen int) []string {
	if len(content) <= maxLen {
		return []string{content}
	}
	var chunks []string
	for len(content) > 0 {
		if len(content) <= maxLen {
			chunks = append(chunks, content)
			break
		}
		cut := content[:maxLen]
		pos := strings.LastIndex(cut, "\n")
		if pos <= 0 {
			pos = strings.LastIndex(cut, " ")
		}
		if pos <= 0 {
			pos = maxLen
			for pos > 0 && !isRuneStart(content[pos]) {
				pos--
			}
			if pos == 0 {
				pos = maxLen
			}
		}
		chunks = append(chunks, content[:pos])
		content = strings.TrimLeft(content[pos:], " \t\n")
	}
	return chunks
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
