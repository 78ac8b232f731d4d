package cli

import (
	"context"

	"github.com/go-i2p/logger"
	"github.com/go-i2p/settingsync/lib/app"
	"github.com/go-i2p/settingsync/lib/config"
	"github.com/go-i2p/settingsync/lib/ui"
	"github.com/go-i2p/settingsync/lib/util"
	"github.com/go-i2p/settingsync/lib/util/signals"
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	var headless bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run settingsync, watching the settings panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.CurrentConfig()
			if headless {
				cfg.UIEnabled = false
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVar(&headless, "headless", false, "run without the terminal UI")
	return cmd
}

func run(ctx context.Context, cfg *config.AppConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer util.CloseAll()

	c, err := app.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	go signals.Handle()
	defer signals.StopHandle()
	restartID := signals.RegisterRestartHandler(c.Reload)
	shutdownID := signals.RegisterShutdownHandler(func() {
		log.Info("shutdown requested")
		cancel()
		_ = c.Stop()
	})
	defer signals.DeregisterRestartHandler(restartID)
	defer signals.DeregisterShutdownHandler(shutdownID)

	if err := c.Start(); err != nil {
		return err
	}
	log.WithFields(logger.Fields{
		"at":    "cli.run",
		"store": cfg.StorePath,
		"panel": cfg.PanelPath,
		"ui":    cfg.UIEnabled,
	}).Info("settingsync running")

	if cfg.UIEnabled {
		err = ui.Run(ctx, c)
		_ = c.Stop()
	} else {
		c.Wait()
	}
	if cerr := c.Close(); cerr != nil {
		log.WithError(cerr).Warn("failed to close controller")
	}
	return err
}
