package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillbox/skillbox/internal/bus"
	"github.com/skillbox/skillbox/internal/cron"
	"github.com/skillbox/skillbox/internal/shared/cmdutils"
	"github.com/skillbox/skillbox/internal/shared/stringutils"
)

var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "Inspect scheduled dispatches",
}

func init() {
	schedulesCmd.AddCommand(schedulesListCmd)
	schedulesCmd.AddCommand(schedulesRunCmd)
}

var schedulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured schedules",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := buildContainer(false)
		if err != nil {
			return err
		}
		jobs := c.Scheduler().Jobs()
		if len(jobs) == 0 {
			fmt.Println("No schedules configured.")
			return nil
		}
		now := time.Now()
		fmt.Printf("%-16s %-22s %-20s %-18s %s\n", "Name", "Schedule", "Message", "Next Run", "Target")
		fmt.Println(strings.Repeat("-", 96))
		for _, j := range jobs {
			fmt.Printf("%-16s %-22s %-20s %-18s %s\n",
				stringutils.Truncate(j.Name, 15),
				stringutils.Truncate(j.Expr, 21),
				stringutils.Truncate(j.Message, 19),
				j.Next(now).Format("2006-01-02 15:04"),
				target(j),
			)
		}
		return nil
	},
}

var schedulesRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Dispatch a schedule's message now and print the reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		c, err := buildContainer(false)
		if err != nil {
			return err
		}
		for _, j := range c.Scheduler().Jobs() {
			if j.Name != args[0] {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			res := c.Loop().ProcessDirect(ctx, cron.SenderID, j.Message)
			if !res.Replied() {
				cmdutils.PrintError("(no reply)")
				return nil
			}
			cmdutils.PrintParts(res.Parts)
			return nil
		}
		return fmt.Errorf("schedule %q not found", args[0])
	},
}

func target(j cron.Job) string {
	if j.Channel == "" || j.ChatID == "" {
		return "(none)"
	}
	return bus.RoutingKey(j.Channel, j.ChatID)
}
