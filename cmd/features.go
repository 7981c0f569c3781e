package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillbox/skillbox/internal/builtin"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Disable or enable skills",
	Long:  "Edits the disabled-features file. A running gateway picks up the change automatically.",
}

func init() {
	featuresCmd.AddCommand(featuresListCmd)
	featuresCmd.AddCommand(featuresDisableCmd)
	featuresCmd.AddCommand(featuresEnableCmd)
}

var featuresListCmd = &cobra.Command{
	Use:   "list",
	Short: "List disabled skills",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := buildContainer(false)
		if err != nil {
			return err
		}
		disabled := c.Features().ListDisabled()
		if len(disabled) == 0 {
			fmt.Println("No disabled skills.")
			return nil
		}
		for _, kw := range disabled {
			fmt.Println(kw)
		}
		return nil
	},
}

var featuresDisableCmd = &cobra.Command{
	Use:   "disable <keyword>",
	Short: "Disable a skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		c, err := buildContainer(false)
		if err != nil {
			return err
		}
		kw := args[0]
		if _, err := c.Registry().Describe(kw); err != nil {
			return err
		}
		if kw == builtin.MenuKeyword {
			return fmt.Errorf("%s cannot be disabled", kw)
		}
		if !c.Features().Disable(kw) {
			fmt.Printf("%s is already disabled\n", kw)
			return nil
		}
		fmt.Printf("✓ Disabled %s\n", kw)
		return nil
	},
}

var featuresEnableCmd = &cobra.Command{
	Use:   "enable <keyword>",
	Short: "Enable a disabled skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		c, err := buildContainer(false)
		if err != nil {
			return err
		}
		if !c.Features().Enable(args[0]) {
			fmt.Printf("%s is not disabled\n", args[0])
			return nil
		}
		fmt.Printf("✓ Enabled %s\n", args[0])
		return nil
	},
}
