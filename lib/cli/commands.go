package cli

import (
	"fmt"

	"github.com/go-i2p/settingsync/lib/app"
	"github.com/go-i2p/settingsync/lib/config"
	"github.com/go-i2p/settingsync/lib/keystore"
	"github.com/go-i2p/settingsync/lib/settings"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Reconcile settings and print the current state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(func(c *app.Controller) error {
				out := cmd.OutOrStdout()
				endpoint, ok := c.Endpoint()
				if !ok {
					endpoint = "(none)"
				}
				fmt.Fprintf(out, "endpoint:  %s\n", endpoint)
				fmt.Fprintf(out, "first run: %t\n", !c.HasCompletedFirstRun())
				if p := c.Panel(); p != nil {
					fmt.Fprintf(out, "panel:     %s\n", p.Path())
				}
				fmt.Fprintln(out)
				snapshot := c.Store().Snapshot()
				for _, k := range keystore.SortedKeys(snapshot) {
					fmt.Fprintf(out, "%s=%s\n", k, plain(snapshot[k]))
				}
				return nil
			})
		},
	}
}

// get reads the store file directly; it never reconciles.
func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print one stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := settings.LookupKey(args[0])
			if !ok {
				return oops.Wrapf(ErrUnknownKey, "%s", args[0])
			}
			store, err := keystore.OpenFileStore(config.CurrentConfig().StorePath)
			if err != nil {
				return err
			}
			v, ok := store.Get(key)
			if !ok {
				return oops.Wrapf(ErrKeyNotSet, "%s", key.Name())
			}
			fmt.Fprintln(cmd.OutOrStdout(), plain(v))
			return nil
		},
	}
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Write one value, as the settings panel would",
		Long: "Write one value into the store. The values true and false are stored as booleans.\n" +
			"Setting SK_RESET_APP to true resets the application.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := settings.LookupKey(args[0])
			if !ok {
				return oops.Wrapf(ErrUnknownKey, "%s", args[0])
			}
			return withController(func(c *app.Controller) error {
				return c.Set(key, keystore.ParseValue(args[1]))
			})
		},
	}
}

func newResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the application to its first-run state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(func(c *app.Controller) error {
				if err := c.RequestReset(); err != nil {
					return err
				}
				endpoint, _ := c.Endpoint()
				fmt.Fprintf(cmd.OutOrStdout(), "reset complete, endpoint %s\n", endpoint)
				return nil
			})
		},
	}
}

func newWelcomeCommand() *cobra.Command {
	welcome := &cobra.Command{
		Use:   "welcome",
		Short: "Manage the first-run welcome",
	}
	welcome.AddCommand(&cobra.Command{
		Use:   "dismiss",
		Short: "Mark the welcome as seen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(func(c *app.Controller) error {
				return c.CompleteFirstRun()
			})
		},
	})
	return welcome
}

// plain formats v without the quoting Value.String applies to strings.
func plain(v keystore.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	return v.String()
}
