package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/lineplan/pkg/infrastructure/logging"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", newFlagSet(t))
	require.NoError(t, err)

	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, logging.DEFAULT, cfg.Verbosity())
}

func TestLoad_Precedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "lineplan.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
scenario: from-file
scheduling:
  base_setup_minutes: 5
output:
  format: json
log:
  level: debug
`), 0o644))

	t.Setenv("LINEPLAN_SCHEDULING_BASE_SETUP_MINUTES", "10")
	t.Setenv("LINEPLAN_OUTPUT_FORMAT", "csv")

	cfg, err := Load(file, newFlagSet(t, "--format", "text", "--metrics"))
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Scenario, "file beats default")
	assert.Equal(t, 10, cfg.BaseSetupMinutes, "env beats file")
	assert.Equal(t, FormatText, cfg.OutputFormat, "flag beats env")
	assert.Equal(t, logging.DEBUG, cfg.Verbosity())
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative base setup", func(c *Config) { c.BaseSetupMinutes = -1 }},
		{"unknown format", func(c *Config) { c.OutputFormat = "xml" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}
