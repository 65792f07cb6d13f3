package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cardsync/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change cardsync settings stored in ~/.cardsync/config.toml.

API keys from POKEMON_TCG_API_KEY and ONE_PIECE_API_KEY, and demo mode from
CARDSYNC_DEMO, take precedence over the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsDemoCmd = &cobra.Command{
	Use:   "demo <on|off>",
	Short: "Enable or disable demo mode",
	Long: `In demo mode every sync first deletes the source's cards and progress,
and One Piece runs are capped at three pages.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsDemo,
}

var settingsAPIKeyCmd = &cobra.Command{
	Use:   "apikey <source> <key>",
	Short: "Set the API key of a source",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsAPIKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsDemoCmd)
	settingsCmd.AddCommand(settingsAPIKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cfg, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[General]")
	cmd.Printf("  Demo mode: %s\n", onOff(cfg.DemoMode))
	cmd.Printf("  Data dir: %s\n", cfg.DataDir)
	cmd.Printf("  Re-check interval: %s\n", cfg.RecheckInterval)
	cmd.Println()

	cmd.Println("[Scheduler]")
	cmd.Printf("  Enabled: %s\n", onOff(cfg.Scheduler.Enabled))
	cmd.Printf("  Interval: %s\n", cfg.Scheduler.GetTaskConfig(domain.CatalogSyncTaskID(domain.SourcePokemon)).Interval)
	cmd.Println()

	for _, id := range domain.AllSources() {
		src := cfg.Source(id)
		cmd.Printf("[%s] (%s)\n", id.DisplayName(), id)
		cmd.Printf("  Enabled: %s\n", onOff(src.Enabled))
		cmd.Printf("  Base URL: %s\n", src.BaseURL)
		if src.PageSize > 0 {
			cmd.Printf("  Page size: %d\n", src.PageSize)
		}
		if src.Query != "" {
			cmd.Printf("  Query: %s\n", src.Query)
		}
		if src.HasAPIKey() {
			cmd.Printf("  API Key: %s\n", maskAPIKey(src.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
		cmd.Println()
	}

	return nil
}

func runSettingsDemo(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	enabled, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	if err := settingsService.SetDemoMode(enabled); err != nil {
		return fmt.Errorf("failed to set demo mode: %w", err)
	}
	if syncOrchestrator != nil {
		syncOrchestrator.SetDemoMode(enabled)
	}

	cmd.Printf("Demo mode %s.\n", onOff(enabled))
	return nil
}

func runSettingsAPIKey(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	sourceID, err := domain.ParseSourceID(args[0])
	if err != nil {
		return err
	}
	key := strings.TrimSpace(args[1])
	if key == "" {
		return errors.New("API key must not be empty")
	}
	if err := settingsService.SetAPIKey(sourceID, key); err != nil {
		return fmt.Errorf("failed to set API key: %w", err)
	}

	cmd.Printf("API key for %s set to %s.\n", sourceID.DisplayName(), maskAPIKey(key))
	return nil
}

// maskAPIKey masks an API key for display.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// parseOnOff accepts on/off, yes/no and anything strconv.ParseBool accepts.
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return b, nil
}
