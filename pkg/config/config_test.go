package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config directory at an empty temp dir and clears
// any JA_GTC_* variables inherited from the environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{"SOURCE", "TARGET", "ENGINE", "ENDPOINT", "TIMEOUT", "LOG_LEVEL", "METRICS_FILE", "CONFIG"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+"_"+key))
	}
	return dir
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("source", "s", DefaultSource, "")
	fs.StringP("target", "t", DefaultTarget, "")
	fs.String("engine", DefaultEngine, "")
	fs.String("endpoint", DefaultEndpoint, "")
	fs.Duration("timeout", DefaultTimeout, "")
	fs.String("log-level", DefaultLogLevel, "")
	fs.String("metrics-file", "", "")
	fs.String("config", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(newFlags())
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Source:   "en",
		Target:   "es",
		Engine:   "google",
		Endpoint: DefaultEndpoint,
		Timeout:  10 * time.Second,
		LogLevel: "warn",
	}, cfg)
}

func TestLoad_NilFlags(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Source)
	assert.Equal(t, "es", cfg.Target)
}

func TestLoad_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("JA_GTC_SOURCE", "fr")
	t.Setenv("JA_GTC_TARGET", "de")
	t.Setenv("JA_GTC_TIMEOUT", "3s")
	t.Setenv("JA_GTC_LOG_LEVEL", "DEBUG")

	cfg, err := Load(newFlags())
	require.NoError(t, err)

	assert.Equal(t, "fr", cfg.Source)
	assert.Equal(t, "de", cfg.Target)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_FlagsWinOverEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("JA_GTC_SOURCE", "fr")
	t.Setenv("JA_GTC_TARGET", "de")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"-s", "it", "--timeout", "1500ms"}))

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, "it", cfg.Source)
	// target flag not supplied: environment is used
	assert.Equal(t, "de", cfg.Target)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "gtc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: pt\ntarget: ja\nmetrics_file: /tmp/gtc.prom\n"), 0o600))
	t.Setenv("JA_GTC_TARGET", "ko")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--config", path}))

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, "pt", cfg.Source)
	assert.Equal(t, "ko", cfg.Target)
	assert.Equal(t, "/tmp/gtc.prom", cfg.MetricsFile)
}

func TestLoad_DefaultConfigFile(t *testing.T) {
	isolate(t)
	dir, err := os.UserConfigDir()
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "gtc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gtc", "config.yaml"), []byte("target: nl\n"), 0o600))

	cfg, err := Load(newFlags())
	require.NoError(t, err)
	assert.Equal(t, "nl", cfg.Target)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "bad log level", args: []string{"--log-level", "loud"}},
		{name: "zero timeout", args: []string{"--timeout", "0s"}},
		{name: "bad endpoint", args: []string{"--endpoint", "not a url"}},
		{name: "empty source", env: map[string]string{"JA_GTC_SOURCE": " "}},
		{name: "missing config file", args: []string{"--config", "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			fs := newFlags()
			require.NoError(t, fs.Parse(tt.args))

			_, err := Load(fs)
			assert.Error(t, err)
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type sample struct {
		Name string `validate:"required"`
	}

	assert.NoError(t, ValidateStruct(sample{Name: "x"}))

	err := ValidateStruct(sample{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: Name, Tag: required")
}
