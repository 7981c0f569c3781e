package bus

// OutboundBus carries replies from the dispatch loop to the channels.
// The loop calls Publish; the channel manager reads via Subscribe.
type OutboundBus struct {
	ch chan OutboundMessage
}

func NewOutboundBus(bufSize int) *OutboundBus {
	return &OutboundBus{ch: make(chan OutboundMessage, bufSize)}
}

// Publish delivers a reply to the channel manager.
func (b *OutboundBus) Publish(msg OutboundMessage) {
	b.ch <- msg
}

// Subscribe returns a receive-only view of the outbound channel.
func (b *OutboundBus) Subscribe() <-chan OutboundMessage {
	return b.ch
}
