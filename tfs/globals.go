package internal

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

var (
	// DefaultAppName is the name used for config directories and env prefixes
	DefaultAppName        = "tidyfs"
	DefaultAppCMDShortCut = "tidyfs"
	DefaultConfigPath     = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultCatalogDir     = filepath.Join(DefaultConfigPath, "catalogs")
	DefaultSystemConfig   = filepath.Join(string(filepath.Separator), "etc", DefaultAppName)
	DefaultIgnoreFile     = "." + DefaultAppName + "-ignore"

	// Renamer defaults
	DefaultLocale             = "pt_BR"
	DefaultMaxStripIterations = 256
	DefaultWorkerCount        = 4
	DefaultCollisionStrategy  = "timestamp"

	// Watch defaults
	DefaultWatchDebounce = 500 * time.Millisecond
	DefaultWatchMaxDelay = 5 * time.Second
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
