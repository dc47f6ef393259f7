package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/trafficdash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set trafficdash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_path: %s\n", cfg.DataPath)
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "sheet_index: %d\n", cfg.SheetIndex)
		fmt.Fprintf(out, "sort_by: %s\n", cfg.SortBy)
		fmt.Fprintf(out, "skip_missing_views: %t\n", cfg.SkipMissingViews)
		fmt.Fprintf(out, "chart_width_in: %.2f\n", cfg.ChartWidthIn)
		fmt.Fprintf(out, "chart_height_in: %.2f\n", cfg.ChartHeightIn)
		fmt.Fprintf(out, "marker_size: %.1f\n", cfg.MarkerSize)
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "read_timeout_sec: %d\n", cfg.ReadTimeoutSec)
		fmt.Fprintf(out, "write_timeout_sec: %d\n", cfg.WriteTimeoutSec)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long:  `Set one key in the config file. Other keys keep the values stored in the file; TRAFFICDASH_* env and --data overrides are not saved.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Edit the file's own values so env and flag overrides are not persisted.
		base, err := cfgpkg.LoadFile(cfgFile)
		if err != nil {
			return err
		}
		next := *base
		switch key {
		case "data_path":
			next.DataPath = val
		case "delimiter":
			next.Delimiter = val
		case "sheet_name":
			next.SheetName = val
		case "sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for sheet_index: %v", val)
			}
			next.SheetIndex = i
		case "sort_by":
			next.SortBy = val
		case "skip_missing_views":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for skip_missing_views: %w", err)
			}
			next.SkipMissingViews = b
		case "chart_width_in", "chart_height_in", "marker_size":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", key, err)
			}
			switch key {
			case "chart_width_in":
				next.ChartWidthIn = f
			case "chart_height_in":
				next.ChartHeightIn = f
			default:
				next.MarkerSize = f
			}
		case "listen_addr":
			next.ListenAddr = val
		case "read_timeout_sec", "write_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			if key == "read_timeout_sec" {
				next.ReadTimeoutSec = i
			} else {
				next.WriteTimeoutSec = i
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := next.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
