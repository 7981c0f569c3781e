package bus

import "github.com/skillbox/skillbox/internal/schema"

// OutboundMessage is a reply to be sent back through a channel.
type OutboundMessage struct {
	channel  Channel              // destination channel name
	chatId   string               // destination chat / channel / DM identifier
	parts    []schema.ContentPart // ordered reply content; empty means "nothing to say"
	metadata map[string]any       // channel-specific hints copied from the inbound message
}

func NewOutboundMessage(channel Channel, chatId string, parts []schema.ContentPart) OutboundMessage {
	return OutboundMessage{
		channel: channel,
		chatId:  chatId,
		parts:   parts,
	}
}

func (m OutboundMessage) Channel() Channel               { return m.channel }
func (m OutboundMessage) ChatId() string                 { return m.chatId }
func (m OutboundMessage) Parts() []schema.ContentPart    { return m.parts }
func (m OutboundMessage) Metadata() map[string]any       { return m.metadata }
func (m *OutboundMessage) SetMetadata(md map[string]any) { m.metadata = md }

// Empty reports whether the message carries no content.
func (m OutboundMessage) Empty() bool { return len(m.parts) == 0 }
