package main

import (
	"errors"
	"os"

	"github.com/go-i2p/logger"
	"github.com/go-i2p/settingsync/lib/cli"
	"github.com/go-i2p/settingsync/lib/settings"
)

var log = logger.GetGoI2PLogger()

func main() {
	if err := cli.Execute(); err != nil {
		// A missing lifecycle controller is a wiring bug, not a user error.
		if errors.Is(err, settings.ErrLifecycleUnavailable) {
			log.Fatalf("settingsync cannot start: %s", err)
		}
		log.Errorf("settingsync: %s", err)
		os.Exit(1)
	}
}
