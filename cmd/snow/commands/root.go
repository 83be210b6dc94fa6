package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"snow/pkg/config"
	"snow/pkg/objectstore"
	"snow/pkg/repo"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	// repository is the package-global handle every subcommand but
	// init operates against, opened once in PersistentPreRunE.
	repository *repo.Repository
)

var rootCmd = &cobra.Command{
	Use:   "snow",
	Short: "snow: content-addressed version control for large binary trees",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			return nil
		}

		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		r, err := repo.Open(context.Background(), wd, repo.OpenOptions{Store: storeConfigFromViper()})
		if err != nil {
			return fmt.Errorf("failed to open repository: %w\n(did you run 'snow init'?)", err)
		}
		repository = r
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repository == nil {
			return nil
		}
		return repository.Close()
	},
}

// Execute is the CLI entry point.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.snow/config.yaml)")

	rootCmd.PersistentFlags().String("storage-path", "", "path to an external commondir")
	if err := viper.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("storage-path")); err != nil {
		fmt.Println("failed to bind flag:", err)
		os.Exit(1)
	}
}

func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Println("config error:", err)
		os.Exit(1)
	}
}

// storeConfigFromViper builds an objectstore.Config from whatever
// storage.* settings config.Load resolved, leaving S3/Redis nil unless
// their endpoint/url is explicitly configured.
func storeConfigFromViper() objectstore.Config {
	cfg := objectstore.Config{
		Journal: objectstore.JournalConfig{
			Driver: viper.GetString("journal.driver"),
			DSN:    viper.GetString("journal.dsn"),
		},
	}

	if endpoint := viper.GetString("storage.s3.endpoint"); endpoint != "" {
		cfg.S3 = &objectstore.S3Config{
			Endpoint:        endpoint,
			Region:          viper.GetString("storage.s3.region"),
			Bucket:          viper.GetString("storage.s3.bucket"),
			AccessKeyID:     viper.GetString("storage.s3.access_key_id"),
			SecretAccessKey: viper.GetString("storage.s3.secret_access_key"),
		}
	}

	if redisURL := viper.GetString("storage.redis.url"); redisURL != "" {
		ttl, err := time.ParseDuration(viper.GetString("storage.redis.ttl"))
		if err != nil {
			ttl = 24 * time.Hour
		}
		cfg.Redis = &objectstore.RedisCacheConfig{RedisURL: redisURL, TTL: ttl}
	}

	return cfg
}
