package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	internal "github.com/ZanzyTHEbar/tidyfs/tfs"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Renamer RenamerConfig `mapstructure:"renamer"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Logging LoggingConfig `mapstructure:"logging"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// RenamerConfig stores the behaviour of the renaming engine.
type RenamerConfig struct {
	IncludeSubdirectories bool     `mapstructure:"includeSubdirectories"`
	Extensions            []string `mapstructure:"extensions"`
	IgnoreFile            string   `mapstructure:"ignoreFile"`
	MaxStripIterations    int      `mapstructure:"maxStripIterations"`
	CollisionStrategy     string   `mapstructure:"collisionStrategy"`
	SyncAudioTags         bool     `mapstructure:"syncAudioTags"`
	DryRun                bool     `mapstructure:"dryRun"`
	WorkerCount           int      `mapstructure:"workerCount"`
}

// CatalogConfig stores where exclusion and noise catalogs are discovered.
type CatalogConfig struct {
	SearchPaths []string `mapstructure:"searchPaths"`
	Locale      string   `mapstructure:"locale"`
}

// WatchConfig stores how arrivals are debounced in watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	MaxDelay time.Duration `mapstructure:"maxDelay"`
	Initial  bool          `mapstructure:"initial"`
}

// LoggingConfig stores log level and output format.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.GetViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	SetDefaults(v)

	v.AutomaticEnv()                                   // Read in environment variables that match
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // renamer.dryRun becomes RENAMER_DRYRUN

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults will be used.
	}

	AppConfig = Config{}
	if err := v.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := AppConfig.Validate(); err != nil {
		return nil, err
	}

	return &AppConfig, nil
}

// SetDefaults registers the default value of every known key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("renamer.includeSubdirectories", false)
	v.SetDefault("renamer.extensions", []string{})
	v.SetDefault("renamer.ignoreFile", internal.DefaultIgnoreFile)
	v.SetDefault("renamer.maxStripIterations", internal.DefaultMaxStripIterations)
	v.SetDefault("renamer.collisionStrategy", internal.DefaultCollisionStrategy)
	v.SetDefault("renamer.syncAudioTags", true)
	v.SetDefault("renamer.dryRun", false)
	v.SetDefault("renamer.workerCount", internal.DefaultWorkerCount)

	v.SetDefault("catalog.searchPaths", []string{
		".",
		internal.DefaultCatalogDir,
		internal.DefaultSystemConfig,
	})
	v.SetDefault("catalog.locale", internal.DefaultLocale)

	v.SetDefault("watch.debounce", internal.DefaultWatchDebounce)
	v.SetDefault("watch.maxDelay", internal.DefaultWatchMaxDelay)
	v.SetDefault("watch.initial", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "auto")
}

// Validate rejects values the renamer cannot work with.
func (c *Config) Validate() error {
	if c.Renamer.MaxStripIterations <= 0 {
		return fmt.Errorf("renamer.maxStripIterations must be positive, got %d", c.Renamer.MaxStripIterations)
	}
	if c.Renamer.WorkerCount <= 0 {
		return fmt.Errorf("renamer.workerCount must be positive, got %d", c.Renamer.WorkerCount)
	}
	switch strings.ToLower(c.Renamer.CollisionStrategy) {
	case "timestamp", "counter", "skip":
	default:
		return fmt.Errorf("unknown renamer.collisionStrategy %q", c.Renamer.CollisionStrategy)
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive, got %s", c.Watch.Debounce)
	}
	if c.Watch.MaxDelay < c.Watch.Debounce {
		return fmt.Errorf("watch.maxDelay (%s) must not be shorter than watch.debounce (%s)", c.Watch.MaxDelay, c.Watch.Debounce)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

// Default returns the configuration produced by the defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(fmt.Sprintf("config defaults do not decode: %v", err))
	}
	return &c
}
