package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load initializes Viper's search path and environment binding.
// cfgFile, if set, is read in place of the default search chain.
func Load(cfgFile string) error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// Search order: cwd, cwd/.snow, then $HOME/.snow.
		viper.AddConfigPath(".")
		viper.AddConfigPath(".snow")
		viper.AddConfigPath(filepath.Join(home, ".snow"))

		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SNOW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("no config file found, using defaults/env vars")
		} else {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	} else {
		fmt.Println("using config file:", viper.ConfigFileUsed())
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("journal.driver", "sqlite")
	viper.SetDefault("journal.dsn", "")

	viper.SetDefault("storage.type", "disk")

	viper.SetDefault("storage.s3.endpoint", "")
	viper.SetDefault("storage.s3.region", "us-east-1")
	viper.SetDefault("storage.s3.bucket", "snow-objects")

	viper.SetDefault("storage.redis.url", "")
	viper.SetDefault("storage.redis.ttl", "24h")
}
