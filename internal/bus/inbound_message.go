// Package bus defines the message types that flow between chat channels and
// the dispatch loop.
package bus

import "time"

// InboundMessage is a message received from a chat channel.
type InboundMessage struct {
	channel   Channel        // "telegram", "slack", "onebot", "cli", ...
	chatId    string         // chat / channel / DM identifier
	senderId  string         // user identifier within the channel
	content   string         // plain text of the message
	timestamp time.Time      // when the message was received
	metadata  map[string]any // channel-specific extra data (message_id, username, …)
}

// NewInboundMessage creates an InboundMessage with the timestamp set to now.
func NewInboundMessage(channel Channel, senderId, chatId, content string) InboundMessage {
	return InboundMessage{
		channel:   channel,
		senderId:  senderId,
		chatId:    chatId,
		content:   content,
		timestamp: time.Now(),
	}
}

func (m InboundMessage) ChatId() string                 { return m.chatId }
func (m InboundMessage) SenderId() string               { return m.senderId }
func (m InboundMessage) Content() string                { return m.content }
func (m InboundMessage) Channel() Channel               { return m.channel }
func (m InboundMessage) Timestamp() time.Time           { return m.timestamp }
func (m InboundMessage) Metadata() map[string]any       { return m.metadata }
func (m *InboundMessage) SetMetadata(md map[string]any) { m.metadata = md }

// RoutingKey returns "channel:chatId".
func (m InboundMessage) RoutingKey() string {
	return RoutingKey(m.channel, m.chatId)
}
