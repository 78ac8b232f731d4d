package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// AppConfig is the typed view of the process configuration.
type AppConfig struct {
	// BaseDir holds every file settingsync writes.
	// Default: $HOME/.settingsync
	BaseDir string

	// StorePath is the persistent key store.
	// Default: $HOME/.settingsync/store.yaml
	StorePath string

	// PanelPath is the user-editable settings panel.
	// Default: $HOME/.settingsync/settings.yaml
	PanelPath string

	// PanelWatch enables importing panel edits while running.
	// Default: true
	PanelWatch bool

	// MetadataPath overrides the embedded build manifest when non-empty.
	// Default: ""
	MetadataPath string

	// UIEnabled selects the terminal UI for the run command.
	// Default: true
	UIEnabled bool
}

// Defaults returns the default configuration.
func Defaults() AppConfig {
	base := BuildBaseDirPath()
	return AppConfig{
		BaseDir:      base,
		StorePath:    filepath.Join(base, "store.yaml"),
		PanelPath:    filepath.Join(base, "settings.yaml"),
		PanelWatch:   true,
		MetadataPath: "",
		UIEnabled:    true,
	}
}

// CurrentConfig reads the configuration from viper. Paths left at their
// defaults follow a base_dir override.
func CurrentConfig() *AppConfig {
	cfg := &AppConfig{
		BaseDir:      viper.GetString(KeyBaseDir),
		StorePath:    viper.GetString(KeyStorePath),
		PanelPath:    viper.GetString(KeyPanelPath),
		PanelWatch:   viper.GetBool(KeyPanelWatch),
		MetadataPath: viper.GetString(KeyMetadataPath),
		UIEnabled:    viper.GetBool(KeyUIEnabled),
	}
	d := Defaults()
	if cfg.BaseDir != d.BaseDir {
		if !viper.InConfig(KeyStorePath) && cfg.StorePath == d.StorePath {
			cfg.StorePath = filepath.Join(cfg.BaseDir, "store.yaml")
		}
		if !viper.InConfig(KeyPanelPath) && cfg.PanelPath == d.PanelPath {
			cfg.PanelPath = filepath.Join(cfg.BaseDir, "settings.yaml")
		}
	}
	return cfg
}
