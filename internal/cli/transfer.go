package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rightmenu-labs/rightmenu/internal/clipboard"
	"github.com/rightmenu-labs/rightmenu/internal/transfer"
)

var (
	onConflict string
	pasteJSON  bool
)

func init() {
	pasteCmd.Flags().StringVar(&onConflict, "on-conflict", "ask", "Collision handling: ask, replace, skip or keep-both")
	pasteCmd.Flags().BoolVar(&pasteJSON, "json", false, "Print the batch result as JSON")
	rootCmd.AddCommand(cutCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(pasteCmd)
}

var cutCmd = &cobra.Command{
	Use:   "cut <path>...",
	Short: "Mark files to be moved by the next paste",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlace(cmd.OutOrStdout(), clipboard.ModeCut, args)
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy <path>...",
	Short: "Mark files to be duplicated by the next paste",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlace(cmd.OutOrStdout(), clipboard.ModeCopy, args)
	},
}

func runPlace(w io.Writer, mode clipboard.Mode, paths []string) error {
	wr, err := newWiring(nil, nil)
	if err != nil {
		return err
	}
	var in *clipboard.Intent
	if mode == clipboard.ModeCut {
		in, err = wr.engine.Cut(paths)
	} else {
		in, err = wr.engine.Copy(paths)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %d item(s) on the clipboard\n", in.Mode, len(in.Paths))
	return nil
}

var pasteCmd = &cobra.Command{
	Use:   "paste [target]",
	Short: "Paste the clipboard's files into a folder",
	Long: `Paste moves (after cut) or duplicates (after copy) the files on the clipboard
into target, or into its parent when target is a file. The first name collision
decides for the whole batch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) == 1 {
			target = args[0]
		}

		prompter, err := conflictPrompter(cmd, onConflict)
		if err != nil {
			return err
		}
		reporter := transfer.Reporters{
			transfer.LogReporter{Logger: logger},
			transfer.WriterReporter{W: cmd.ErrOrStderr()},
		}
		wr, err := newWiring(prompter, reporter)
		if err != nil {
			return err
		}

		res, err := wr.engine.Paste(cmd.Context(), target)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if pasteJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		for _, o := range res.Outcomes {
			switch o.Status {
			case transfer.Transferred:
				fmt.Fprintf(out, "  %s -> %s\n", o.Source, o.Destination)
			case transfer.Skipped:
				fmt.Fprintf(out, "  skipped %s\n", o.Source)
			}
		}
		fmt.Fprintf(out, "%s into %s: %d transferred, %d skipped, %d failed\n",
			res.Mode, res.Folder, res.Count(transfer.Transferred), res.Count(transfer.Skipped), res.Count(transfer.Failed))
		if n := res.Count(transfer.Failed); n > 0 {
			return fmt.Errorf("%d item(s) could not be transferred", n)
		}
		return nil
	},
}

// conflictPrompter maps --on-conflict to a Prompter. "ask" prompts on the
// command's terminal.
func conflictPrompter(cmd *cobra.Command, mode string) (transfer.Prompter, error) {
	if mode == "ask" || mode == "" {
		return &transfer.TerminalPrompter{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}, nil
	}
	r, err := transfer.ParseResolution(mode)
	if err != nil {
		return nil, err
	}
	return transfer.FixedPrompter{Resolution: r}, nil
}
