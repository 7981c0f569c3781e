package bus

type Channel string

const (
	ChannelCLI      Channel = "cli"
	ChannelTelegram Channel = "telegram"
	ChannelSlack    Channel = "slack"
	ChannelOneBot   Channel = "onebot"
)

// InboundBus carries messages from channels to the dispatch loop.
// Channel adapters call Publish; the loop reads via Subscribe.
type InboundBus struct {
	ch chan InboundMessage
}

func NewInboundBus(bufSize int) *InboundBus {
	return &InboundBus{ch: make(chan InboundMessage, bufSize)}
}

// Publish delivers a message to the dispatch loop.
func (b *InboundBus) Publish(msg InboundMessage) {
	b.ch <- msg
}

// Subscribe returns a receive-only view of the inbound channel.
func (b *InboundBus) Subscribe() <-chan InboundMessage {
	return b.ch
}

// Sender and chat ids used for terminal input.
const (
	SenderIdCLI = "user"
	ChatIdCLI   = "direct"
)
