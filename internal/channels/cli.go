package channels

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/shared/cmdutils"
)

var cliExitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

// CLIChannel wires the terminal into the channel manager: console input
// reaches the dispatch loop via the InboundBus and replies come back on the
// ConsoleBus.
type CLIChannel struct {
	Base
	console *bus.ConsoleBus
	in      io.Reader
	out     io.Writer
}

// NewCLIChannel creates a CLIChannel reading stdin and writing stdout.
func NewCLIChannel(inbound *bus.InboundBus, console *bus.ConsoleBus) *CLIChannel {
	return &CLIChannel{
		Base:    NewBase(bus.ChannelCLI, inbound, nil),
		console: console,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

func (c *CLIChannel) Name() string { return string(bus.ChannelCLI) }

// Start runs the REPL: reads lines, publishes them on the inbound bus and
// prints each reply received on the console bus.
// Blocks until ctx is cancelled or input is closed.
func (c *CLIChannel) Start(ctx context.Context) error {
	fmt.Fprintf(c.out, "CLI channel ready. Type 'exit' or press Ctrl+C to quit.\n\n")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(c.out, "You: ")

		var line string
		select {
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out, "\nGoodbye!")
				return nil
			}
			line = strings.TrimSpace(l)
		case <-ctx.Done():
			return ctx.Err()
		}

		if line == "" {
			continue
		}
		if cliExitCommands[strings.ToLower(line)] {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}

		c.HandleMessage(bus.SenderIdCLI, bus.ChatIdCLI, line, nil)
		c.waitForReply(ctx)
	}
}

// waitForReply blocks until the loop publishes the reply for the last line.
// Dropped messages arrive as an empty reply and print nothing.
func (c *CLIChannel) waitForReply(ctx context.Context) {
	select {
	case msg := <-c.console.Subscribe():
		cmdutils.FprintParts(c.out, msg.Parts())
	case <-ctx.Done():
	}
}

// Send publishes onto the console bus; the Start loop prints it.
func (c *CLIChannel) Send(_ context.Context, msg bus.OutboundMessage) error {
	c.console.Publish(msg)
	return nil
}
