package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dashwise-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DashWise configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "timezone: %s\n", c.Timezone)
		fmt.Fprintf(out, "extended_suggestions: %t\n", c.ExtendedSuggestions)
		fmt.Fprintf(out, "underused_visit_share: %.3f\n", c.UnderusedVisitShare)
		fmt.Fprintf(out, "payg_share: %.3f\n", c.PayAsYouGoShare)
		if c.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", c.SheetName)
		}
		fmt.Fprintf(out, "sheet_index: %d\n", c.SheetIndex)
		fmt.Fprintf(out, "max_upload_mb: %d\n", c.MaxUploadMB)
		fmt.Fprintf(out, "listen_addr: %s\n", c.ListenAddr)
		fmt.Fprintf(out, "session_ttl_min: %d\n", c.SessionTTLMin)
		fmt.Fprintf(out, "demo_days: %d\n", c.DemoDays)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file alone so flag and env overrides are not persisted.
		next, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		if err := applySetting(next, key, val); err != nil {
			return err
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(next, cfgFile); err != nil {
			return err
		}
		if cfg != nil {
			if err := applySetting(cfg, key, val); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func applySetting(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "timezone":
		c.Timezone = val
	case "extended_suggestions":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for extended_suggestions: %v", val)
		}
		c.ExtendedSuggestions = b
	case "underused_visit_share":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for underused_visit_share: %w", err)
		}
		c.UnderusedVisitShare = f
	case "payg_share":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for payg_share: %w", err)
		}
		c.PayAsYouGoShare = f
	case "sheet_name":
		c.SheetName = val
	case "sheet_index":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for sheet_index: %w", err)
		}
		c.SheetIndex = i
	case "max_upload_mb":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for max_upload_mb: %w", err)
		}
		c.MaxUploadMB = i
	case "listen_addr":
		c.ListenAddr = val
	case "session_ttl_min":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for session_ttl_min: %w", err)
		}
		c.SessionTTLMin = i
	case "demo_days":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for demo_days: %w", err)
		}
		c.DemoDays = i
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "json", "console":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use json or console)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
