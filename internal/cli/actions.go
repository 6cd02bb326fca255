package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rightmenu-labs/rightmenu/internal/actions"
	"github.com/rightmenu-labs/rightmenu/internal/menu"
	"github.com/rightmenu-labs/rightmenu/internal/settings"
)

func init() {
	rootCmd.AddCommand(newFileCmd)
	rootCmd.AddCommand(copyPathCmd)
	rootCmd.AddCommand(openTerminalCmd)
}

func templateIDs() string {
	ids := make([]string, len(settings.Templates))
	for i, t := range settings.Templates {
		ids[i] = t.ID
	}
	return strings.Join(ids, ", ")
}

var newFileCmd = &cobra.Command{
	Use:   "new-file <template> [target]",
	Short: "Create an empty document from a template",
	Long:  "Create an empty document in target's folder. Templates: " + templateIDs() + ".",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) == 2 {
			target = args[1]
		}
		resp, err := dispatch(cmd, actions.Request{Action: menu.TemplateKey(args[0]), Target: target})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Created)
		return nil
	},
}

var copyPathCmd = &cobra.Command{
	Use:   "copy-path [path]",
	Short: "Copy the absolute path of a file to the clipboard",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := actions.Request{Action: settings.ActionCopyPath, Target: "."}
		if len(args) == 1 {
			req.Selection = args
		}
		resp, err := dispatch(cmd, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Text)
		return nil
	},
}

var openTerminalCmd = &cobra.Command{
	Use:   "open-terminal [target]",
	Short: "Open a terminal in a folder",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		_, err := dispatch(cmd, actions.Request{Action: settings.ActionOpenInTerminal, Target: target})
		return err
	},
}

func dispatch(cmd *cobra.Command, req actions.Request) (*actions.Response, error) {
	wr, err := newWiring(nil, nil)
	if err != nil {
		return nil, err
	}
	return wr.dispatch.Dispatch(cmd.Context(), req)
}
