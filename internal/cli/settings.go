package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rightmenu-labs/rightmenu/internal/settings"
	"github.com/rightmenu-labs/rightmenu/internal/store"
)

var settingsJSON bool

func init() {
	settingsShowCmd.Flags().BoolVar(&settingsJSON, "json", false, "Print settings as JSON")
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and write the shared menu settings",
	Long: `Read and write settings.yaml in the shared store. The plugin re-reads it on
every popup, so changes apply to the next menu without a restart.`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the effective value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		v, err := settings.Get(s, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long:  "Change a setting. menuOrder takes a comma-separated list of action keys.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := store.SettingsPath()
		if err != nil {
			return err
		}
		if _, err := store.EnsureRoot(); err != nil {
			return err
		}
		if err := settings.Set(path, args[0], args[1]); err != nil {
			return fmt.Errorf("setting %q: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every effective setting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if settingsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}

		flags := s.Flags()
		keys := make([]string, 0, len(flags))
		for k := range flags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(out, "%-22s %s\n", settings.KeySchemaVersion, s.SchemaVersion)
		for _, k := range keys {
			fmt.Fprintf(out, "%-22s %t\n", k, flags[k])
		}
		order, _ := settings.Get(s, settings.KeyMenuOrder)
		fmt.Fprintf(out, "%-22s %s\n", settings.KeyMenuOrder, order)
		return nil
	},
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a settings file against the schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			p, err := store.SettingsPath()
			if err != nil {
				return err
			}
			path = p
		}
		return reportValidation(cmd, path)
	},
}

// loadSettings reads the shared settings. An unreadable file is an error
// here, unlike in the plugin where defaults take over silently.
func loadSettings() (*settings.Settings, error) {
	src, err := settingsSource()
	if err != nil {
		return nil, err
	}
	s, err := src.Reload()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return s, nil
}

func reportValidation(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	result, err := settings.ValidateFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(out, "  [INFO] %s not found, defaults apply\n", path)
		return nil
	}
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return fmt.Errorf("settings validation failed: %w", err)
	}

	if result.Valid && len(result.Issues) == 0 {
		fmt.Fprintf(out, "  [ OK ] %s is valid\n", path)
		return nil
	}
	label := "[WARN]"
	if !result.Valid {
		label = "[FAIL]"
	}
	fmt.Fprintf(out, "  %s %d issue(s) in %s:\n", label, len(result.Issues), path)
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(out, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(out, "    - %s\n", issue.Message)
		}
	}
	if !result.Valid {
		return fmt.Errorf("settings %s has %d validation issue(s)", path, len(result.Issues))
	}
	return nil
}
