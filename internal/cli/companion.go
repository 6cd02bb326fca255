package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rightmenu-labs/rightmenu/internal/config"
	"github.com/rightmenu-labs/rightmenu/internal/store"
	"github.com/rightmenu-labs/rightmenu/internal/watchdog"
)

var companionOnce bool

func init() {
	companionCmd.Flags().BoolVar(&companionOnce, "once", false, "Run a single liveness check and print the result")
	rootCmd.AddCommand(companionCmd)
}

var companionCmd = &cobra.Command{
	Use:   "companion",
	Short: "Watch the menu plugin and revive it when it dies",
	Long: `Run the companion watchdog. It polls the plugin heartbeat, reacts to heartbeat
writes and, where the OS supports it, to the plugin process exiting. A dead
plugin is revived through revive_command at most once per revive_cooldown.
Only one companion runs per shared store.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := config.WatchdogConfig()
		if _, err := store.EnsureRoot(); err != nil {
			return err
		}

		lockPath, err := store.LockPath()
		if err != nil {
			return err
		}
		fileLock := flock.New(lockPath)
		locked, err := fileLock.TryLock()
		if err != nil {
			return fmt.Errorf("acquiring lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("companion already running (lock held on %s)", lockPath)
		}
		defer func() { _ = fileLock.Unlock() }()

		mon, guard, err := newMonitor(w)
		if err != nil {
			return err
		}
		defer func() { _ = guard.Close() }()

		if companionOnce {
			probe, err := mon.Check(cmd.Context())
			if err != nil {
				return fmt.Errorf("checking %s: %w", w.PluginID, err)
			}
			st := mon.Status()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Verdict string          `json:"verdict"`
				Age     string          `json:"age"`
				Revived bool            `json:"revived"`
				Status  watchdog.Status `json:"status"`
			}{probe.State.String(), probe.Age.String(), probe.Revived, st})
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger.Info("companion started", zap.String("plugin_id", w.PluginID), zap.Int("pid", os.Getpid()))
		return mon.Run(ctx)
	},
}

// newMonitor assembles the watchdog for the configured plugin identity.
func newMonitor(w config.Watchdog) (*watchdog.Monitor, *watchdog.Guard, error) {
	hbPath, err := store.HeartbeatPath(w.PluginID)
	if err != nil {
		return nil, nil, err
	}
	metrics := watchdog.NewMetrics()
	guard, err := watchdog.NewGuard(w.PluginID, watchdog.CommandReviver{Argv: w.ReviveCommand}, watchdog.GuardOptions{
		Cooldown: w.ReviveCooldown,
		Timeout:  w.ReviveTimeout,
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, err
	}

	opts := watchdog.Options{
		PluginID:      w.PluginID,
		HeartbeatPath: hbPath,
		Guard:         guard,
		PollInterval:  w.PollInterval,
		StaleAfter:    w.StaleAfter,
		RespawnGrace:  w.RespawnGrace,
		Metrics:       metrics,
		Logger:        logger,
	}
	if w.MetricsTextfile {
		if opts.MetricsPath, err = store.MetricsPath(); err != nil {
			_ = guard.Close()
			return nil, nil, err
		}
	}
	if w.ProcessName != "" {
		loc, err := processLocator(w.ProcessProbe)
		if err != nil {
			_ = guard.Close()
			return nil, nil, err
		}
		opts.ProcessName = w.ProcessName
		opts.Locator = loc
		opts.Exits = watchdog.OSExitWatcher{}
	}
	return watchdog.NewMonitor(opts), guard, nil
}

func processLocator(probe string) (watchdog.Locator, error) {
	switch probe {
	case config.ProbeGopsutil, "":
		return watchdog.GopsutilLocator{}, nil
	case config.ProbePgrep:
		return watchdog.PgrepLocator{}, nil
	default:
		return nil, fmt.Errorf("unknown process_probe %q (want %s or %s)", probe, config.ProbeGopsutil, config.ProbePgrep)
	}
}
