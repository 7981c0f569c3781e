package channels

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/schema"
)

func TestCLIChannelREPL(t *testing.T) {
	in := bus.NewInboundBus(4)
	console := bus.NewConsoleBus(4)
	var out bytes.Buffer

	c := NewCLIChannel(in, console)
	c.in = strings.NewReader("echo hi\n\nunknown\nexit\necho never\n")
	c.out = &out

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stand-in for the dispatch loop: echo known lines, answer others empty.
	var seen []string
	go func() {
		for {
			select {
			case msg := <-in.Subscribe():
				seen = append(seen, msg.Content())
				var parts []schema.ContentPart
				if strings.HasPrefix(msg.Content(), "echo ") {
					parts = []schema.ContentPart{schema.TextPart(strings.TrimPrefix(msg.Content(), "echo "))}
				}
				_ = c.Send(ctx, bus.NewOutboundMessage(bus.ChannelCLI, msg.ChatId(), parts))
			case <-ctx.Done():
				return
			}
		}
	}()

	require.NoError(t, c.Start(ctx))
	cancel()

	assert.Equal(t, []string{"echo hi", "unknown"}, seen)
	assert.Contains(t, out.String(), "hi")
	assert.NotContains(t, out.String(), "never")
	assert.Contains(t, out.String(), "Goodbye!")
}
