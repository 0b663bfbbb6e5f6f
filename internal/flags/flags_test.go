package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestFlags_InitConfigFile_EnvVars(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{
			name:     "env var value with extra white space",
			value:    "  /custom/path/docs.toml  ",
			expected: "/custom/path/docs.toml",
		},
		{
			name:     "env var missing",
			value:    "",
			expected: DefaultConfigFile,
		},
		{
			name:     "env var only white space",
			value:    "   ",
			expected: DefaultConfigFile,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvVarConfigFile, tc.value)
			t.Cleanup(func() {
				ConfigFile = ""
			})

			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			initConfigFile(fs)

			require.Equal(t, tc.expected, ConfigFile)
			flag := fs.Lookup(FlagNameConfigFile)
			require.NotNil(t, flag)
			require.Equal(t, tc.expected, flag.Value.String())
		})
	}
}

func TestFlags_InitLogger_EnvVars(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		level     string
		wantPath  string
		wantLevel string
	}{
		{
			name:      "defaults",
			wantPath:  DefaultLogPath,
			wantLevel: DefaultLogLevel,
		},
		{
			name:      "level is lower cased",
			level:     " DEBUG ",
			wantPath:  DefaultLogPath,
			wantLevel: "debug",
		},
		{
			name:      "log path",
			path:      "/tmp/tsuru-docs.log",
			wantPath:  "/tmp/tsuru-docs.log",
			wantLevel: DefaultLogLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvVarLogPath, tc.path)
			t.Setenv(EnvVarLogLevel, tc.level)
			t.Cleanup(func() {
				LogPath = ""
				LogLevel = ""
			})

			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			initLogger(fs)

			require.Equal(t, tc.wantPath, LogPath)
			require.Equal(t, tc.wantLevel, LogLevel)
			require.Equal(t, tc.wantLevel, fs.Lookup(FlagNameLogLevel).Value.String())
		})
	}
}

func TestFlags_FlagOverridesEnv(t *testing.T) {
	t.Setenv(EnvVarConfigFile, "from-env.toml")
	t.Cleanup(func() {
		ConfigFile = ""
	})

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)
	require.Equal(t, "from-env.toml", ConfigFile)

	require.NoError(t, fs.Parse([]string{"--config-file", "from-flag.toml"}))
	require.Equal(t, "from-flag.toml", ConfigFile)
	require.True(t, ConfigFileExplicit(fs))
}

func TestFlags_InitFlagsResetsPreviousValues(t *testing.T) {
	t.Setenv(EnvVarConfigFile, "")
	t.Setenv(EnvVarLogPath, "")
	t.Setenv(EnvVarLogLevel, "")
	t.Cleanup(func() {
		ConfigFile, LogPath, LogLevel = "", "", ""
	})

	fs := pflag.NewFlagSet("first", pflag.ContinueOnError)
	InitFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config-file", "other.toml", "--log-level", "trace", "--log-path", "/tmp/x.log"}))
	require.Equal(t, "other.toml", ConfigFile)

	fs = pflag.NewFlagSet("second", pflag.ContinueOnError)
	InitFlags(fs)
	require.NoError(t, fs.Parse(nil))
	require.Equal(t, DefaultConfigFile, ConfigFile)
	require.Equal(t, DefaultLogLevel, LogLevel)
	require.Equal(t, DefaultLogPath, LogPath)
	require.False(t, ConfigFileExplicit(fs))
}

func TestFlags_ConfigFileExplicit(t *testing.T) {
	t.Setenv(EnvVarConfigFile, "")
	t.Cleanup(func() {
		ConfigFile = ""
	})

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)
	require.NoError(t, fs.Parse(nil))
	require.Equal(t, DefaultConfigFile, ConfigFile)
	require.False(t, ConfigFileExplicit(fs))

	t.Setenv(EnvVarConfigFile, "docs.toml")
	require.True(t, ConfigFileExplicit(fs))
}
