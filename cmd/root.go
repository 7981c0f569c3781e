// Package cmd implements the skillbox CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillbox/skillbox/internal/config"
	"github.com/skillbox/skillbox/internal/dependency"
	"github.com/skillbox/skillbox/internal/logging"
)

const version = "0.1.0"
const logo = "🧰"

var (
	cfgFile  string
	logLevel string
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "skillbox",
	Short: logo + " skillbox — keyword-triggered chat bot skills",
	Long:  logo + " skillbox — a chat bot that maps keywords to skills and replies with text, images and mentions",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := logLevel
		if level == "" {
			if cfg, err := config.Load(cfgFile); err == nil {
				level = cfg.LogLevel
			}
		}
		logging.Setup(level)
	},
	SilenceUsage: true,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default ~/.skillbox/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(gatewayCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(schedulesCmd)
	rootCmd.AddCommand(channelsCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// buildContainer loads the config and wires the services.
func buildContainer(interactive bool) (*dependency.Container, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return dependency.New(cfg, interactive)
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ConfigPath()
}
