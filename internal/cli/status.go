package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rightmenu-labs/rightmenu/internal/config"
	"github.com/rightmenu-labs/rightmenu/internal/heartbeat"
	"github.com/rightmenu-labs/rightmenu/internal/store"
	"github.com/rightmenu-labs/rightmenu/internal/watchdog"
)

var statusJSON bool

var (
	aliveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true)
	deadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E57373")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print status as JSON")
	rootCmd.AddCommand(statusCmd)
}

// pluginStatus is a read-only view of the plugin's liveness. It never
// triggers a revival.
type pluginStatus struct {
	PluginID   string    `json:"plugin_id"`
	Verdict    string    `json:"verdict"`
	LastBeat   time.Time `json:"last_beat,omitempty"`
	Age        string    `json:"age,omitempty"`
	StaleAfter string    `json:"stale_after"`
	BeatPID    int       `json:"heartbeat_pid,omitempty"`
	ProcessPID int       `json:"process_pid,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the menu plugin is alive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := config.WatchdogConfig()
		st, err := readStatus(cmd, w, time.Now())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if statusJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		style := deadStyle
		if st.Verdict == watchdog.Alive.String() {
			style = aliveStyle
		}
		fmt.Fprintf(out, "%s  %s\n", st.PluginID, style.Render(st.Verdict))
		if st.LastBeat.IsZero() {
			fmt.Fprintln(out, dimStyle.Render("  no heartbeat recorded"))
		} else {
			fmt.Fprintf(out, "  last heartbeat %s ago (stale after %s)\n", st.Age, st.StaleAfter)
		}
		if st.ProcessPID != 0 {
			fmt.Fprintf(out, "  process %s running as pid %d\n", w.ProcessName, st.ProcessPID)
		}
		return nil
	},
}

func readStatus(cmd *cobra.Command, w config.Watchdog, now time.Time) (pluginStatus, error) {
	st := pluginStatus{PluginID: w.PluginID, StaleAfter: w.StaleAfter.String(), Verdict: watchdog.Unknown.String()}

	path, err := store.HeartbeatPath(w.PluginID)
	if err != nil {
		return st, err
	}
	rec, err := heartbeat.Read(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return st, fmt.Errorf("reading heartbeat: %w", err)
	default:
		age := rec.Age(now)
		st.LastBeat = rec.At
		st.Age = age.Round(time.Millisecond).String()
		st.BeatPID = rec.PID
		st.Verdict = watchdog.Verdict(age, w.StaleAfter).String()
	}

	if w.ProcessName != "" {
		if loc, err := processLocator(w.ProcessProbe); err == nil {
			if pid, err := loc.Locate(cmd.Context(), w.ProcessName); err == nil {
				st.ProcessPID = pid
			}
		}
	}
	return st, nil
}
