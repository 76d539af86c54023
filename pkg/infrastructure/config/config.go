package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vsinha/lineplan/pkg/infrastructure/logging"
)

// EnvPrefix is prepended to every environment override, e.g. LINEPLAN_SCENARIO
const EnvPrefix = "LINEPLAN"

// Configuration keys
const (
	KeyBaseSetupMinutes = "scheduling.base_setup_minutes"
	KeyScenario         = "scenario"
	KeyOutputFormat     = "output.format"
	KeyLogLevel         = "log.level"
	KeyLogDevelopment   = "log.development"
	KeyMetricsEnabled   = "metrics.enabled"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// flag names bound to keys
var flagKeys = map[string]string{
	"base-setup-minutes": KeyBaseSetupMinutes,
	"scenario":           KeyScenario,
	"format":             KeyOutputFormat,
	"log-level":          KeyLogLevel,
	"log-development":    KeyLogDevelopment,
	"metrics":            KeyMetricsEnabled,
}

// Config is the resolved configuration of a lineplan run
type Config struct {
	BaseSetupMinutes int
	Scenario         string
	OutputFormat     string
	LogLevel         string
	LogDevelopment   bool
	MetricsEnabled   bool
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		BaseSetupMinutes: 0,
		Scenario:         "scenarios/berries",
		OutputFormat:     FormatText,
		LogLevel:         "info",
		LogDevelopment:   true,
		MetricsEnabled:   false,
	}
}

// AddFlags registers the configuration flags on fs with their default values
func AddFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Int("base-setup-minutes", d.BaseSetupMinutes, "Setup minutes for the first item on an empty line")
	fs.StringP("scenario", "s", d.Scenario, "Directory holding the scenario CSV files")
	fs.StringP("format", "f", d.OutputFormat, "Output format (text, json, csv)")
	fs.String("log-level", d.LogLevel, "Log level (info, verbose, debug, trace)")
	fs.Bool("log-development", d.LogDevelopment, "Human readable console logs instead of JSON")
	fs.Bool("metrics", d.MetricsEnabled, "Print scheduling metrics after the command")
}

// Load resolves the configuration from, lowest precedence first: defaults, the optional
// YAML file, LINEPLAN_ environment variables and flags that were set on fs.
func Load(configFile string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault(KeyBaseSetupMinutes, d.BaseSetupMinutes)
	v.SetDefault(KeyScenario, d.Scenario)
	v.SetDefault(KeyOutputFormat, d.OutputFormat)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogDevelopment, d.LogDevelopment)
	v.SetDefault(KeyMetricsEnabled, d.MetricsEnabled)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if flag := fs.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		BaseSetupMinutes: v.GetInt(KeyBaseSetupMinutes),
		Scenario:         v.GetString(KeyScenario),
		OutputFormat:     strings.ToLower(v.GetString(KeyOutputFormat)),
		LogLevel:         v.GetString(KeyLogLevel),
		LogDevelopment:   v.GetBool(KeyLogDevelopment),
		MetricsEnabled:   v.GetBool(KeyMetricsEnabled),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the Config for invalid values.
func (c *Config) Validate() error {
	if c.BaseSetupMinutes < 0 {
		return fmt.Errorf("invalid value %d for %q: must be >= 0", c.BaseSetupMinutes, KeyBaseSetupMinutes)
	}
	switch c.OutputFormat {
	case FormatText, FormatJSON, FormatCSV:
	default:
		return fmt.Errorf("invalid value %q for %q: expected text, json or csv", c.OutputFormat, KeyOutputFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid value for %q: %w", KeyLogLevel, err)
	}
	return nil
}

// Verbosity is the logr verbosity for the configured log level
func (c *Config) Verbosity() int {
	v, _ := logging.ParseLevel(c.LogLevel)
	return v
}
