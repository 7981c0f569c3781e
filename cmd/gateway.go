package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var gatewayInteractive bool

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the skillbox gateway: channels, dispatch loop and scheduler",
	RunE:  runGateway,
}

func init() {
	gatewayCmd.Flags().BoolVarP(&gatewayInteractive, "interactive", "i", false, "Also read messages from the terminal")
}

func runGateway(_ *cobra.Command, _ []string) error {
	c, err := buildContainer(gatewayInteractive)
	if err != nil {
		return err
	}

	fmt.Printf("%s Starting skillbox gateway with %d skills...\n", logo, c.Registry().Len())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	manager := c.Channels()
	if enabled := manager.EnabledChannels(); len(enabled) > 0 {
		fmt.Printf("✓ Channels enabled: %s\n", strings.Join(enabled, ", "))
	} else {
		fmt.Println("Warning: no channels enabled")
	}
	if jobs := c.Scheduler().Jobs(); len(jobs) > 0 {
		fmt.Printf("✓ Schedules: %d\n", len(jobs))
	}

	g.Go(func() error { return c.Loop().Run(gctx) })
	g.Go(func() error { return manager.StartAll(gctx) })
	g.Go(func() error { return c.Scheduler().Start(gctx) })
	g.Go(func() error {
		// Without a watcher the store still serves its in-memory state.
		if err := c.Features().Watch(gctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("feature state watch stopped", "err", err)
		}
		return nil
	})

	fmt.Printf("%s Gateway running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "gateway error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
