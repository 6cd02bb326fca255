package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/spf13/cobra"

	"github.com/rightmenu-labs/rightmenu/internal/clipboard"
	"github.com/rightmenu-labs/rightmenu/internal/config"
	"github.com/rightmenu-labs/rightmenu/internal/store"
	"github.com/rightmenu-labs/rightmenu/internal/watchdog"
)

// minFreeBytes is the free space below which the store check warns.
const minFreeBytes = 64 << 20

var (
	checkStore    bool
	checkSettings bool
	checkTools    bool
	checkPlugin   bool
)

func init() {
	doctorCmd.Flags().BoolVar(&checkStore, "check-store", false, "Verify the shared store is writable")
	doctorCmd.Flags().BoolVar(&checkSettings, "check-settings", false, "Validate settings.yaml")
	doctorCmd.Flags().BoolVar(&checkTools, "check-tools", false, "Verify host utilities are on PATH")
	doctorCmd.Flags().BoolVar(&checkPlugin, "check-plugin", false, "Report plugin liveness")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the RightMenu installation",
	Long:  `Run diagnostic checks on the shared store, settings, host utilities and plugin liveness.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := !(checkStore || checkSettings || checkTools || checkPlugin)
		out := cmd.OutOrStdout()
		var failed bool

		if all || checkStore {
			failed = runStoreCheck(out) || failed
		}
		if all || checkSettings {
			fmt.Fprintln(out, "Settings check:")
			path, err := store.SettingsPath()
			if err != nil {
				return err
			}
			if err := reportValidation(cmd, path); err != nil {
				failed = true
			}
		}
		if all || checkTools {
			failed = runToolsCheck(out) || failed
		}
		if all || checkPlugin {
			runPluginCheck(cmd, out)
		}

		if failed {
			return fmt.Errorf("doctor found problems")
		}
		return nil
	},
}

func runStoreCheck(w io.Writer) bool {
	fmt.Fprintln(w, "Store check:")
	root, err := store.EnsureRoot()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return true
	}
	probe := filepath.Join(root, ".doctor")
	if err := store.WriteFileAtomic(probe, []byte("ok"), store.FilePerm); err != nil {
		fmt.Fprintf(w, "  [FAIL] %s is not writable: %v\n", root, err)
		return true
	}
	_ = os.Remove(probe)
	fmt.Fprintf(w, "  [ OK ] %s is writable\n", root)

	usage, err := disk.Usage(root)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  [WARN] cannot read free space: %v\n", err)
	case usage.Free < minFreeBytes:
		fmt.Fprintf(w, "  [WARN] only %d MiB free on %s\n", usage.Free>>20, usage.Path)
	default:
		fmt.Fprintf(w, "  [ OK ] %d MiB free (%.1f%% used)\n", usage.Free>>20, usage.UsedPercent)
	}
	return false
}

func runToolsCheck(w io.Writer) bool {
	fmt.Fprintln(w, "Host utilities check:")
	wd := config.WatchdogConfig()
	failed := false
	if len(wd.ReviveCommand) == 0 {
		fmt.Fprintln(w, "  [FAIL] revive_command is empty")
		failed = true
	} else if !checkBinary(w, wd.ReviveCommand[0]) {
		failed = true
	}
	if term := config.TerminalCommand(); len(term) > 0 {
		checkBinary(w, term[0])
	}
	if wd.ProcessProbe == config.ProbePgrep && !checkBinary(w, "pgrep") {
		failed = true
	}

	backend := config.ClipboardBackend()
	switch {
	case backend == config.ClipboardStore:
		fmt.Fprintln(w, "  [ OK ] clipboard: shared store")
	case clipboard.Supported():
		fmt.Fprintln(w, "  [ OK ] clipboard: system")
	default:
		fmt.Fprintln(w, "  [WARN] no system clipboard utility, the shared store is used instead")
	}
	return failed
}

func checkBinary(w io.Writer, name string) bool {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
	return true
}

func runPluginCheck(cmd *cobra.Command, w io.Writer) {
	fmt.Fprintln(w, "Plugin check:")
	st, err := readStatus(cmd, config.WatchdogConfig(), time.Now())
	switch {
	case err != nil:
		fmt.Fprintf(w, "  [WARN] %v\n", err)
	case st.Verdict == watchdog.Alive.String():
		fmt.Fprintf(w, "  [ OK ] %s alive (last heartbeat %s ago)\n", st.PluginID, st.Age)
	case st.LastBeat.IsZero():
		fmt.Fprintf(w, "  [INFO] %s has never written a heartbeat\n", st.PluginID)
	default:
		fmt.Fprintf(w, "  [WARN] %s heartbeat is stale (%s ago); is the companion running?\n", st.PluginID, st.Age)
	}
}
