// Package config provides process configuration for settingsync.
//
// # Configuration Directory
//
// Everything settingsync writes lives under a single base directory,
// $HOME/.settingsync by default:
//   - config.yaml: this package's configuration, created on first run
//   - store.yaml: the persistent key store
//   - settings.yaml: the settings panel the user edits
//
// Each path can be overridden in config.yaml or with a --config file. The
// metadata path is empty by default, which selects the manifest compiled
// into the binary.
package config
