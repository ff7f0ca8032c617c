package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. JA_GTC_SOURCE.
const EnvPrefix = "JA_GTC"

// Defaults.
const (
	DefaultSource   = "en"
	DefaultTarget   = "es"
	DefaultEngine   = "google"
	DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"
	DefaultTimeout  = 10 * time.Second
	DefaultLogLevel = "warn"
)

// Config is the resolved runtime configuration.
type Config struct {
	Source      string        `mapstructure:"source" validate:"required"`
	Target      string        `mapstructure:"target" validate:"required"`
	Engine      string        `mapstructure:"engine" validate:"required"`
	Endpoint    string        `mapstructure:"endpoint" validate:"required,url"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	LogLevel    string        `mapstructure:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
	MetricsFile string        `mapstructure:"metrics_file"`
}

// flagKeys maps flag names onto config keys.
var flagKeys = map[string]string{
	"source":       "source",
	"target":       "target",
	"engine":       "engine",
	"endpoint":     "endpoint",
	"timeout":      "timeout",
	"log-level":    "log_level",
	"metrics-file": "metrics_file",
}

var validate = validator.New()

// Load resolves the configuration. A value set on the command line wins over
// the environment, which wins over the config file, which wins over defaults.
// Flags missing from flags are simply not consulted.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("source", DefaultSource)
	v.SetDefault("target", DefaultTarget)
	v.SetDefault("engine", DefaultEngine)
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("metrics_file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if err := readConfigFile(v, flags); err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Source = strings.TrimSpace(cfg.Source)
	cfg.Target = strings.TrimSpace(cfg.Target)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := ValidateStruct(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readConfigFile reads an explicit file (--config or JA_GTC_CONFIG) or the
// optional default file under the user config directory.
func readConfigFile(v *viper.Viper, flags *pflag.FlagSet) error {
	path := os.Getenv(EnvPrefix + "_CONFIG")
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			path = f.Value.String()
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(dir, "gtc"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// ValidateStruct validates s against its validate tags.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validation failed: %w", err)
		}
		var errMsgs []string
		for _, err := range verrs {
			errMsgs = append(errMsgs, fmt.Sprintf(
				"Field: %s, Tag: %s, Param: %s", err.Field(), err.Tag(), err.Param(),
			))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(errMsgs, "; "))
	}
	return nil
}
