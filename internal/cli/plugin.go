package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rightmenu-labs/rightmenu/internal/branding"
	"github.com/rightmenu-labs/rightmenu/internal/config"
	"github.com/rightmenu-labs/rightmenu/internal/heartbeat"
	"github.com/rightmenu-labs/rightmenu/internal/host"
	"github.com/rightmenu-labs/rightmenu/internal/menu"
	"github.com/rightmenu-labs/rightmenu/internal/store"
	"github.com/rightmenu-labs/rightmenu/internal/transfer"
)

func init() {
	rootCmd.AddCommand(pluginCmd)
}

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Run the menu plugin, speaking JSON lines on stdin/stdout",
	Long: `Run the menu plugin process. The extension host sends one JSON request per
line on stdin (hello, menu, action, resolve) and reads responses and events on
stdout. A heartbeat is written to the shared store until stdin closes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := config.WatchdogConfig()
		if _, err := store.EnsureRoot(); err != nil {
			return err
		}
		hbPath, err := store.HeartbeatPath(w.PluginID)
		if err != nil {
			return err
		}

		srv := host.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), host.Hello{
			Name:         branding.CLIName(),
			Version:      buildVersion,
			Registration: host.Discover(w.PluginID),
		}, logger)
		wr, err := newWiring(srv.Prompter(), transfer.Reporters{
			transfer.LogReporter{Logger: logger},
			srv.Reporter(),
		})
		if err != nil {
			return err
		}
		handlers := host.Handlers{
			Menu:    menu.NewBuilder(wr.settings, wr.board, logger),
			Actions: wr.dispatch,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		logger.Info("plugin started", zap.String("plugin_id", w.PluginID), zap.Int("pid", os.Getpid()))
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return heartbeat.NewEmitter(hbPath, w.PluginID, w.HeartbeatInterval, logger).Run(gctx)
		})
		g.Go(func() error {
			// The host closing stdin ends the plugin.
			defer cancel()
			if err := srv.Serve(gctx, handlers); err != nil {
				return fmt.Errorf("serving host: %w", err)
			}
			return nil
		})
		return g.Wait()
	},
}
