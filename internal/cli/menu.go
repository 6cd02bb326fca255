package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/rightmenu-labs/rightmenu/internal/menu"
)

var (
	menuKind   string
	menuTarget string
	menuJSON   bool
)

func init() {
	menuCmd.Flags().StringVar(&menuKind, "kind", "", "Popup kind: container, items, sidebar or toolbar (default items when paths are given, else container)")
	menuCmd.Flags().StringVar(&menuTarget, "target", ".", "Folder the popup was opened on")
	menuCmd.Flags().BoolVar(&menuJSON, "json", false, "Print the menu as JSON")
	rootCmd.AddCommand(menuCmd)
}

var menuCmd = &cobra.Command{
	Use:   "menu [selected-path]...",
	Short: "Show the context menu the plugin would build",
	RunE: func(cmd *cobra.Command, args []string) error {
		name := menuKind
		if name == "" {
			name = menu.Container.String()
			if len(args) > 0 {
				name = menu.Items.String()
			}
		}
		kind, err := menu.ParseKind(name)
		if err != nil {
			return err
		}

		wr, err := newWiring(nil, nil)
		if err != nil {
			return err
		}
		items := menu.NewBuilder(wr.settings, wr.board, logger).Build(menu.Context{
			Kind:      kind,
			Selection: args,
			Target:    menuTarget,
		})

		if menuJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}
		return menu.Render(cmd.OutOrStdout(), items)
	},
}
