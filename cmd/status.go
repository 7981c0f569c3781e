package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show skillbox status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := configPath()

	fmt.Printf("%s skillbox Status\n\n", logo)
	fmt.Printf("Config:    %s %s\n", cfgPath, existsMark(cfgPath))

	c, err := buildContainer(false)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}
	cfg := c.Config()

	fmt.Printf("Data:      %s %s\n", cfg.DataPath(), existsMark(cfg.DataPath()))
	fmt.Printf("Features:  %s %s\n", cfg.FeaturesPath(), existsMark(cfg.FeaturesPath()))
	fmt.Printf("Media:     %s\n\n", strings.Join(cfg.MediaDirs(), ", "))

	fmt.Printf("Skills:    %d registered, %d disabled\n", c.Registry().Len(), len(c.Features().ListDisabled()))
	fmt.Printf("Admins:    %s\n", adminsHint(cfg.Admins))
	fmt.Printf("Weather:   %s\n", tokenHint(cfg.Skills.WeatherKey))
	fmt.Printf("Schedules: %d\n", len(c.Scheduler().Jobs()))
	return nil
}

func existsMark(path string) string {
	if _, err := os.Stat(path); err == nil {
		return "✓"
	}
	return "✗"
}

func adminsHint(admins []string) string {
	if len(admins) == 0 {
		return "(everyone)"
	}
	return strings.Join(admins, ", ")
}
