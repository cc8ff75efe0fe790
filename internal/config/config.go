// Package config resolves the tool configuration from, in increasing
// precedence: built-in defaults, an optional .fiver.yaml file (current
// directory or $HOME), and FIVER_* environment variables. Command-line flags
// override individual fields after Load returns.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries every tunable the commands need.
type Config struct {
	// StorageDir is the flat directory holding delta and metadata files.
	StorageDir string
	// MaxVersions caps revisions per tracked name.
	MaxVersions int
	// Window is the rolling-hash window size in bytes.
	Window int
	// MinMatch is the minimum match length the delta engine will emit.
	MinMatch int
	// Buckets is the hash index bucket count.
	Buckets int
	// LogLevel and LogFormat configure the slog setup.
	LogLevel  string
	LogFormat string
}

const envPrefix = "FIVER"

// Load reads configuration from defaults, file and environment. A missing
// config file is not an error; a malformed one is.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("storage.dir", ".fiver")
	v.SetDefault("storage.max_versions", 100)
	v.SetDefault("engine.window", 32)
	v.SetDefault("engine.min_match", 32)
	v.SetDefault("engine.buckets", 65536)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName(".fiver")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return &Config{
		StorageDir:  v.GetString("storage.dir"),
		MaxVersions: v.GetInt("storage.max_versions"),
		Window:      v.GetInt("engine.window"),
		MinMatch:    v.GetInt("engine.min_match"),
		Buckets:     v.GetInt("engine.buckets"),
		LogLevel:    v.GetString("log.level"),
		LogFormat:   v.GetString("log.format"),
	}, nil
}
