package flags

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const (
	// Env vars
	EnvVarConfigFile = "TSURU_DOCS_CONFIG_FILE"
	EnvVarLogPath    = "TSURU_DOCS_LOG_PATH"
	EnvVarLogLevel   = "TSURU_DOCS_LOG_LEVEL"

	// Defaults
	DefaultConfigFile = ".tsuru-docs.toml"
	DefaultLogPath    = ""
	DefaultLogLevel   = "info"

	// Flag names
	FlagNameConfigFile = "config-file"
	FlagNameLogPath    = "log-path"
	FlagNameLogLevel   = "log-level"
)

var (
	ConfigFile string
	LogPath    string
	LogLevel   string
)

// InitFlags resets the global flag values and registers them on fs. Env
// vars win over the defaults, and parsed flags win over both.
func InitFlags(fs *pflag.FlagSet) {
	ConfigFile, LogPath, LogLevel = "", "", ""
	initConfigFile(fs)
	initLogger(fs)
}

// ConfigFileExplicit reports whether the config file was named by flag or
// env var rather than left at its default.
func ConfigFileExplicit(fs *pflag.FlagSet) bool {
	if f := fs.Lookup(FlagNameConfigFile); f != nil && f.Changed {
		return true
	}
	return strings.TrimSpace(os.Getenv(EnvVarConfigFile)) != ""
}

func initConfigFile(fs *pflag.FlagSet) {
	if ConfigFile == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarConfigFile)); env != "" {
			ConfigFile = env
		} else {
			ConfigFile = DefaultConfigFile
		}
	}
	fs.StringVar(&ConfigFile, FlagNameConfigFile, ConfigFile, "path to config file")
}

func initLogger(fs *pflag.FlagSet) {
	if LogPath == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogPath)); env != "" {
			LogPath = env
		} else {
			LogPath = DefaultLogPath
		}
	}
	fs.StringVar(&LogPath, FlagNameLogPath, LogPath, "path to log file (default stderr)")

	if LogLevel == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogLevel)); env != "" {
			LogLevel = strings.ToLower(env)
		} else {
			LogLevel = DefaultLogLevel
		}
	}
	fs.StringVar(&LogLevel, FlagNameLogLevel, LogLevel, "log level (trace, debug, info, warn, error, off)")
}
