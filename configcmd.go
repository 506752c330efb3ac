package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/simonbystrom/opsim/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file if none exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.Path()
		}
		if err := config.WriteDefault(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("✓"), path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		path := configPath
		if path == "" {
			path = config.Path()
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Generation.APIKey != "" {
			cfg.Generation.APIKey = "****"
		}
		out := cmd.OutOrStdout()
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(effectiveConfig(cfg)); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configPathCmd, configShowCmd)
}

// effectiveConfig flattens cfg into dotted keys for display.
func effectiveConfig(cfg config.Config) map[string]string {
	return map[string]string{
		"engine.tick_interval":   cfg.Engine.TickInterval.String(),
		"engine.seed":            fmt.Sprint(cfg.Engine.Seed),
		"engine.pool_capacity":   fmt.Sprint(cfg.Engine.PoolCapacity),
		"generation.model":       cfg.Generation.Model,
		"generation.api_key":     orUnset(cfg.Generation.APIKey),
		"generation.use_bedrock": fmt.Sprint(cfg.Generation.UseBedrock),
		"generation.aws_region":  cfg.Generation.AWSRegion,
		"generation.aws_profile": orUnset(cfg.Generation.AWSProfile),
		"generation.timeout":     cfg.Generation.Timeout.String(),
		"log.level":              cfg.Log.Level,
		"log.file":               cfg.Log.LogPath(),
	}
}

func orUnset(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(not set)"
	}
	return s
}
