// Package cli implements the settingsync command line.
package cli

import (
	"errors"

	"github.com/go-i2p/logger"
	"github.com/go-i2p/settingsync/lib/app"
	"github.com/go-i2p/settingsync/lib/config"
	"github.com/go-i2p/settingsync/lib/util"
	"github.com/spf13/cobra"
)

var log = logger.GetGoI2PLogger()

var (
	ErrUnknownKey = errors.New("unknown key")
	ErrKeyNotSet  = errors.New("key not set")
)

// NewRootCommand builds the settingsync command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "settingsync",
		Short:         "Keep application settings in sync with the settings panel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.InitConfig()
		},
	}
	root.PersistentFlags().StringVar(&config.CfgFile, "config", "", "config file (default $HOME/.settingsync/config.yaml)")

	root.AddCommand(
		newRunCommand(),
		newStatusCommand(),
		newGetCommand(),
		newSetCommand(),
		newResetCommand(),
		newWelcomeCommand(),
	)
	return root
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// withController starts a controller for a single command and tears it down
// afterwards. The panel is synchronized once but never watched.
func withController(fn func(c *app.Controller) error) error {
	cfg := config.CurrentConfig()
	cfg.PanelWatch = false

	defer util.CloseAll()
	c, err := app.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	if err := c.Start(); err != nil {
		return err
	}
	defer func() {
		_ = c.Stop()
		if err := c.Close(); err != nil {
			log.WithError(err).Warn("failed to close controller")
		}
	}()
	return fn(c)
}
