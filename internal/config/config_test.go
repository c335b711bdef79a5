package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestConfigCheck(t *testing.T) {
	valid := Config{
		Spec: "api.yaml",
		Host: "127.0.0.1",
		Port: 8000,
		Log:  LogConfig{Level: "info", Format: "text"},
		Mock: MockConfig{MaxArrayLength: 3},
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "missing spec",
			mutate:      func(c *Config) { c.Spec = "" },
			wantErr:     true,
			errContains: "spec file is required",
		},
		{
			name:        "port zero",
			mutate:      func(c *Config) { c.Port = 0 },
			wantErr:     true,
			errContains: "invalid port",
		},
		{
			name:        "port too large",
			mutate:      func(c *Config) { c.Port = 70000 },
			wantErr:     true,
			errContains: "invalid port",
		},
		{
			name:        "negative array length",
			mutate:      func(c *Config) { c.Mock.MaxArrayLength = -1 },
			wantErr:     true,
			errContains: "max-array-length",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.Log.Level = "verbose" },
			wantErr:     true,
			errContains: "invalid log level",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.Log.Format = "xml" },
			wantErr:     true,
			errContains: "invalid log format",
		},
		{
			name:   "zero array length is valid",
			mutate: func(c *Config) { c.Mock.MaxArrayLength = 0 },
		},
		{
			// The Validate field is a bool knob, distinct from Check.
			name:   "validate flag set is valid",
			mutate: func(c *Config) { c.Validate = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Check()
			if tt.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{}
	BindCommonFlags(cmd)
	BindServeFlags(cmd)
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	cmd := newTestCommand()
	cmd.PersistentFlags().Set("spec", "api.yaml")

	cfg, err := Load(cmd)
	require.NoError(t, err)

	require.Equal(t, "api.yaml", cfg.Spec)
	require.Equal(t, "0.0.0.0", cfg.Host)
	require.Equal(t, 8000, cfg.Port)
	require.Equal(t, "0.0.0.0:8000", cfg.Addr())
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
	require.Equal(t, 3, cfg.Mock.MaxArrayLength)
	require.True(t, cfg.Mock.UseExamples)
	require.True(t, cfg.Mock.RandomStrings)
	require.False(t, cfg.Validate)
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
spec: petstore.yaml
host: 127.0.0.1
port: 9090
validate: true
log:
  level: debug
  format: json
mock:
  max-array-length: 5
  use-examples: false
`
	configPath := filepath.Join(tmpDir, "mockd.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	// Change to temp dir so mockd.yaml is found
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cmd := newTestCommand()
	cfg, err := Load(cmd)
	require.NoError(t, err)

	require.Equal(t, "petstore.yaml", cfg.Spec)
	require.Equal(t, "127.0.0.1", cfg.Host)
	require.Equal(t, 9090, cfg.Port)
	require.True(t, cfg.Validate)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, 5, cfg.Mock.MaxArrayLength)
	require.False(t, cfg.Mock.UseExamples)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
spec: petstore.yaml
port: 9090
`
	configPath := filepath.Join(tmpDir, "mockd.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cmd := newTestCommand()
	cmd.Flags().Set("port", "8081")
	cmd.PersistentFlags().Set("log-level", "warn")

	cfg, err := Load(cmd)
	require.NoError(t, err)

	require.Equal(t, "petstore.yaml", cfg.Spec)
	require.Equal(t, 8081, cfg.Port)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadWithExplicitConfigPath(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
spec: custom.yaml
mock:
  seed: 42
`
	configPath := filepath.Join(tmpDir, "custom-config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cmd := newTestCommand()
	cmd.PersistentFlags().Set("config", configPath)

	cfg, err := Load(cmd)
	require.NoError(t, err)

	require.Equal(t, "custom.yaml", cfg.Spec)
	require.Equal(t, uint64(42), cfg.Mock.Seed)
}

func TestBuildFlagsMap(t *testing.T) {
	cmd := newTestCommand()

	cmd.PersistentFlags().Set("spec", "test.yaml")
	cmd.Flags().Set("host", "localhost")
	cmd.Flags().Set("port", "1234")
	cmd.PersistentFlags().Set("max-array-length", "7")
	cmd.PersistentFlags().Set("random-strings", "false")

	m := buildFlagsMap(cmd)

	require.Equal(t, "test.yaml", m["spec"])
	require.Equal(t, "localhost", m["host"])
	require.Equal(t, 1234, m["port"])
	require.Equal(t, 7, m["mock.max-array-length"])
	require.Equal(t, false, m["mock.random-strings"])
}
