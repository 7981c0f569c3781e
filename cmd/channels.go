package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Manage chat channels",
}

func init() {
	channelsCmd.AddCommand(channelsStatusCmd)
}

var channelsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show channel status",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ch := cfg.Channels
		type row struct{ name, enabled, detail string }
		rows := []row{
			{"Telegram", yesNo(ch.Telegram.Enabled), tokenHint(ch.Telegram.Token)},
			{"Slack", yesNo(ch.Slack.Enabled), func() string {
				if ch.Slack.AppToken != "" && ch.Slack.BotToken != "" {
					return "socket"
				}
				return "(not configured)"
			}()},
			{"OneBot", yesNo(ch.OneBot.Enabled), ch.OneBot.WSURL},
		}

		fmt.Printf("%-12s %-8s %s\n", "Channel", "Enabled", "Configuration")
		fmt.Println(strings.Repeat("-", 60))
		for _, r := range rows {
			fmt.Printf("%-12s %-8s %s\n", r.name, r.enabled, r.detail)
		}
		return nil
	},
}

func tokenHint(s string) string {
	if s == "" {
		return "(not configured)"
	}

	if len(s) > 10 {
		return s[:10] + "..."
	}

	return s
}
