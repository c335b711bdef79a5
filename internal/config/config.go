package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Spec     string     `koanf:"spec"`
	Host     string     `koanf:"host"`
	Port     int        `koanf:"port"`
	Validate bool       `koanf:"validate"`
	Log      LogConfig  `koanf:"log"`
	Mock     MockConfig `koanf:"mock"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type MockConfig struct {
	MaxArrayLength int    `koanf:"max-array-length"`
	UseExamples    bool   `koanf:"use-examples"`
	RandomStrings  bool   `koanf:"random-strings"`
	Seed           uint64 `koanf:"seed"`
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BindCommonFlags binds the flags shared by every command.
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: mockd.yaml)")
	flags.StringP("spec", "s", "", "OpenAPI spec file path or URL")
	flags.Bool("validate", false, "Validate the document before loading")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text, json")
	flags.Int("max-array-length", 0, "Maximum generated array length")
	flags.Bool("use-examples", true, "Prefer schema examples over generated values")
	flags.Bool("random-strings", true, "Generate random alphanumeric strings")
	flags.Uint64("seed", 0, "Generator seed (0 means random)")
}

// BindServeFlags binds the serve-only flags.
func BindServeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("host", "", "Host interface to bind")
	flags.IntP("port", "p", 0, "Port to listen on")
}

// Load layers configuration: defaults, then mockd.yaml (or --config), then
// flags the user actually set.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"host":                  "0.0.0.0",
		"port":                  8000,
		"log.level":             "info",
		"log.format":            "text",
		"mock.max-array-length": 3,
		"mock.use-examples":     true,
		"mock.random-strings":   true,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.PersistentFlags().GetString("config")
	}
	if configFile == "" {
		if _, err := os.Stat("mockd.yaml"); err == nil {
			configFile = "mockd.yaml"
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Check(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	flagChanged := func(name string) bool {
		return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
	}

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	getInt := func(name string) int {
		if v, err := cmd.Flags().GetInt(name); err == nil && v != 0 {
			return v
		}
		if v, err := cmd.PersistentFlags().GetInt(name); err == nil && v != 0 {
			return v
		}
		return 0
	}

	getBool := func(name string) bool {
		if v, err := cmd.Flags().GetBool(name); err == nil {
			return v
		}
		if v, err := cmd.PersistentFlags().GetBool(name); err == nil {
			return v
		}
		return false
	}

	getUint64 := func(name string) uint64 {
		if v, err := cmd.Flags().GetUint64(name); err == nil && v != 0 {
			return v
		}
		if v, err := cmd.PersistentFlags().GetUint64(name); err == nil && v != 0 {
			return v
		}
		return 0
	}

	if v := getString("spec"); v != "" {
		m["spec"] = v
	}
	if v := getString("host"); v != "" {
		m["host"] = v
	}
	if v := getInt("port"); v != 0 {
		m["port"] = v
	}
	if flagChanged("validate") {
		m["validate"] = getBool("validate")
	}
	if v := getString("log-level"); v != "" {
		m["log.level"] = v
	}
	if v := getString("log-format"); v != "" {
		m["log.format"] = v
	}
	if v := getInt("max-array-length"); v != 0 {
		m["mock.max-array-length"] = v
	}
	if flagChanged("use-examples") {
		m["mock.use-examples"] = getBool("use-examples")
	}
	if flagChanged("random-strings") {
		m["mock.random-strings"] = getBool("random-strings")
	}
	if v := getUint64("seed"); v != 0 {
		m["mock.seed"] = v
	}

	return m
}

// Check rejects unusable configurations. Named so it does not collide with
// the Validate field.
func (c *Config) Check() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Mock.MaxArrayLength < 0 {
		return fmt.Errorf("max-array-length must be >= 0")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Log.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", c.Log.Format)
	}

	return nil
}
