package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change matcher weights, thresholds and API credentials.

Settings are stored in config.toml inside the configuration directory.
A running "listen" or "mcp serve" picks up changes without a restart.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a single setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Long: `Change a single setting.

Examples:
  guttenberg settings set matcher.report_threshold 0.7
  guttenberg settings set matcher.weights.code 2
  guttenberg settings set google.api_key AIza...`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")

	for _, key := range settingsService.Keys() {
		val, ok := settingsService.Value(key)
		switch {
		case !ok:
			val = "(default)"
		case isSecretSetting(key):
			val = maskAPIKey(val)
		}
		cmd.Printf("  %-24s %s\n", key+":", val)
	}

	settings, err := settingsService.Matcher()
	if err != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", err)
		return nil
	}

	cmd.Println()
	cmd.Println("Effective matcher")
	cmd.Println("-----------------")
	cmd.Printf("  Site:             %s\n", settings.Site)
	cmd.Printf("  Report threshold: %.2f\n", settings.ReportThreshold)
	cmd.Printf("  Workers:          %d\n", settings.Workers)
	cmd.Printf("  Check timeout:    %s\n", settings.CheckTimeout)
	var weights []string
	for r, w := range settings.Weights {
		weights = append(weights, fmt.Sprintf("%s=%g", r, w))
	}
	sort.Strings(weights)
	cmd.Printf("  Weights:          %s\n", strings.Join(weights, " "))
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	val, ok := settingsService.Value(args[0])
	if !ok {
		return fmt.Errorf("%s is not set", args[0])
	}
	if isSecretSetting(args[0]) {
		val = maskAPIKey(val)
	}
	cmd.Println(val)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("✓ %s updated\n", args[0])

	if _, err := settingsService.Matcher(); err != nil {
		cmd.Printf("Warning: settings are now invalid: %v\n", err)
	}
	return nil
}

// isSecretSetting reports whether a key holds a credential.
func isSecretSetting(key string) bool {
	return strings.HasSuffix(key, "api_key") || strings.HasSuffix(key, ".key") || strings.HasSuffix(key, ".cx")
}
