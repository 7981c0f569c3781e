package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/channels"
	"github.com/skillbox/skillbox/internal/dependency"
	"github.com/skillbox/skillbox/internal/shared/cmdutils"
)

var (
	chatMessage string
	chatSender  string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Send messages to the skills from the terminal",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVarP(&chatSender, "sender", "s", bus.SenderIdCLI, "Sender id used for mentions and admin checks")
}

func runChat(_ *cobra.Command, _ []string) error {
	c, err := buildContainer(false)
	if err != nil {
		return err
	}

	if chatMessage != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		res := c.Loop().ProcessDirect(ctx, chatSender, chatMessage)
		if !res.Replied() {
			cmdutils.PrintError("(no reply)")
			return nil
		}
		cmdutils.PrintParts(res.Parts)
		return nil
	}

	return runInteractive(c)
}

// runInteractive runs the dispatch loop and a terminal channel until the
// user exits or a signal arrives.
func runInteractive(c *dependency.Container) error {
	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit)\n\n", logo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() { _ = c.Loop().Run(ctx) }()

	cli := channels.NewCLIChannel(c.InboundBus(), c.ConsoleBus())
	if err := cli.Start(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
