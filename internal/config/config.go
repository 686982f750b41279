// Package config exposes the settings of a run. Values come from
// command-line flags, GHX_* environment variables and an optional
// config file, in that order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "GHX"

	KeyVerbose   = "verbose"
	KeyDebug     = "debug"
	KeyYes       = "yes"
	KeyNo        = "no"
	KeyTar       = "tar"
	KeyPath      = "path"
	KeyTarFormat = "tar-format"
	KeyCacheFile = "cache-file"
	KeyToken     = "token"
	KeyRetries   = "retries"

	DefaultCacheFile = "debug.tar.gz"
	DefaultTarFormat = "gz"
	DefaultRetries   = 3
)

// Init wires viper to the environment and reads the config file at
// path, or the default one if path is empty. A missing default
// config file is not an error.
func Init(path string) error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyCacheFile, DefaultCacheFile)
	viper.SetDefault(KeyTarFormat, DefaultTarFormat)
	viper.SetDefault(KeyRetries, DefaultRetries)

	if path != "" {
		viper.SetConfigFile(path)
		return viper.ReadInConfig()
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	viper.AddConfigPath(filepath.Join(dir, "ghx"))
	viper.SetConfigName("config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}

func Verbose() bool {
	return viper.GetBool(KeyVerbose)
}

func Debug() bool {
	return viper.GetBool(KeyDebug)
}

// AlwaysOverwrite answers yes to every overwrite question.
func AlwaysOverwrite() bool {
	return viper.GetBool(KeyYes)
}

// AlwaysSkip answers no to every overwrite question.
func AlwaysSkip() bool {
	return viper.GetBool(KeyNo)
}

// TarOnly repacks the subtree into a new archive instead of
// extracting it.
func TarOnly() bool {
	return viper.GetBool(KeyTar)
}

// Path is the destination chosen by the user, if any.
func Path() string {
	return viper.GetString(KeyPath)
}

func TarFormat() string {
	return viper.GetString(KeyTarFormat)
}

// CacheFile is where debug runs keep the downloaded archive.
func CacheFile() string {
	return viper.GetString(KeyCacheFile)
}

func Token() string {
	return viper.GetString(KeyToken)
}

func Retries() uint64 {
	n := viper.GetInt(KeyRetries)
	if n < 0 {
		return 0
	}
	return uint64(n)
}
