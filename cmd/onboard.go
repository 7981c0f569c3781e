package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skillbox/skillbox/internal/config"
	"github.com/skillbox/skillbox/internal/features"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration and data directory",
	RunE:  runOnboard,
}

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := configPath()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		fmt.Scanln()
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	for _, dir := range cfg.MediaDirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create media dir: %w", err)
		}
		fmt.Printf("✓ Media directory at %s\n", dir)
	}

	// Opening the store creates an empty state file.
	store := features.Open(cfg.FeaturesPath())
	fmt.Printf("✓ Feature state at %s\n", store.Path())

	fmt.Printf("\n%s skillbox is ready!\n\n", logo)
	fmt.Println("Next steps:")
	fmt.Printf("  1. Enable a channel and set admins in %s\n", cfgPath)
	fmt.Printf("     e.g. channels.onebot.wsUrl for NapCat (see %s)\n", filepath.Base(cfgPath))
	fmt.Printf("  2. Try it: skillbox chat -m \"菜单\"\n")
	return nil
}
