package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillbox/skillbox/internal/help"
	"github.com/skillbox/skillbox/internal/shared/stringutils"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Inspect registered skills",
}

func init() {
	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsShowCmd)
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills in match order",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := buildContainer(false)
		if err != nil {
			return err
		}
		store := c.Features()

		fmt.Printf("%-12s %-10s %-9s %s\n", "Keyword", "Category", "Enabled", "Description")
		fmt.Println(strings.Repeat("-", 72))
		for _, kw := range c.Registry().ListKeywords() {
			d, err := c.Registry().Describe(kw)
			if err != nil {
				continue
			}
			fmt.Printf("%-12s %-10s %-9s %s\n", kw, d.Category, yesNo(!store.IsDisabled(kw)), stringutils.Truncate(d.Description, 40))
		}
		return nil
	},
}

var skillsShowCmd = &cobra.Command{
	Use:   "show <keyword>",
	Short: "Show a skill's usage help",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		c, err := buildContainer(false)
		if err != nil {
			return err
		}
		d, err := c.Registry().Describe(args[0])
		if err != nil {
			return err
		}
		fmt.Println(help.Describe(d))
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}
