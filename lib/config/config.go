package config

import (
	"os"
	"path/filepath"

	"github.com/go-i2p/logger"
	"github.com/go-i2p/settingsync/lib/util"
	"github.com/samber/oops"
	"github.com/spf13/viper"
)

var (
	CfgFile string
	log     = logger.GetGoI2PLogger()
)

const SETTINGSYNC_BASE_DIR = ".settingsync"

// Viper keys.
const (
	KeyBaseDir      = "base_dir"
	KeyStorePath    = "store.path"
	KeyPanelPath    = "panel.path"
	KeyPanelWatch   = "panel.watch"
	KeyMetadataPath = "metadata.path"
	KeyUIEnabled    = "ui.enabled"
)

// InitConfig loads config.yaml, creating it with defaults when it does not
// exist. An explicit CfgFile must exist.
func InitConfig() error {
	if CfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(CfgFile)
	} else {
		viper.AddConfigPath(BuildBaseDirPath())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	setDefaults()

	return handleConfigFile()
}

func setDefaults() {
	d := Defaults()
	viper.SetDefault(KeyBaseDir, d.BaseDir)
	viper.SetDefault(KeyStorePath, d.StorePath)
	viper.SetDefault(KeyPanelPath, d.PanelPath)
	viper.SetDefault(KeyPanelWatch, d.PanelWatch)
	viper.SetDefault(KeyMetadataPath, d.MetadataPath)
	viper.SetDefault(KeyUIEnabled, d.UIEnabled)
}

func createDefaultConfig(defaultConfigDir string) error {
	defaultConfigFile := filepath.Join(defaultConfigDir, "config.yaml")
	if err := os.MkdirAll(defaultConfigDir, 0o755); err != nil {
		return oops.Wrapf(err, "could not create config directory %s", defaultConfigDir)
	}

	if err := viper.SafeWriteConfigAs(defaultConfigFile); err != nil {
		return oops.Wrapf(err, "could not write default config file %s", defaultConfigFile)
	}

	log.Debugf("Created default configuration at: %s", defaultConfigFile)
	return nil
}

func handleConfigFile() error {
	err := viper.ReadInConfig()
	if err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
		return nil
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return createDefaultConfig(BuildBaseDirPath())
	}
	if CfgFile != "" && !util.CheckFileExists(CfgFile) {
		return oops.Errorf("config file %s is not found: %s", CfgFile, err)
	}
	return oops.Wrapf(err, "error reading config file")
}

// BuildBaseDirPath returns $HOME/.settingsync.
func BuildBaseDirPath() string {
	return filepath.Join(util.UserHome(), SETTINGSYNC_BASE_DIR)
}
