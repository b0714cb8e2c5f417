package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// StorageConfig selects and configures the pitch-state store backend.
type StorageConfig struct {
	Type       string `json:"type" mapstructure:"type"`
	SqlitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
}

// MonitorConfig holds live execution monitor settings.
type MonitorConfig struct {
	PollIntervalSeconds int `json:"pollIntervalSeconds" mapstructure:"pollIntervalSeconds"`
	SnoozeSeconds       int `json:"snoozeSeconds" mapstructure:"snoozeSeconds"`
}

// MatchConfig holds default match parameters for plan generation.
type MatchConfig struct {
	TeamSize             int  `json:"teamSize" mapstructure:"teamSize"`
	MinutesPerHalf       int  `json:"minutesPerHalf" mapstructure:"minutesPerHalf"`
	RotationSpeed        int  `json:"rotationSpeed" mapstructure:"rotationSpeed"`
	DisablePositionSwaps bool `json:"disablePositionSwaps" mapstructure:"disablePositionSwaps"`
	DisableBatchSubs     bool `json:"disableBatchSubs" mapstructure:"disableBatchSubs"`
}

// InfluxConfig holds match telemetry settings.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
}

// GraylogConfig holds GELF log shipping settings.
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// Load reads configuration from a JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName("pitchboard.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// SetDefaults registers every default value. Split out of Load so tests
// can configure viper without a config file on disk.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./pitchboardlogs")

	viper.SetDefault("monitor.pollIntervalSeconds", 2)
	viper.SetDefault("monitor.snoozeSeconds", 120)

	viper.SetDefault("match.teamSize", 7)
	viper.SetDefault("match.minutesPerHalf", 25)
	viper.SetDefault("match.rotationSpeed", 2)
	viper.SetDefault("match.disablePositionSwaps", false)
	viper.SetDefault("match.disableBatchSubs", false)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.sqlitePath", "./pitchboard.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "pitchboard")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "pitchboard-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")
}

// GetStorage returns the storage section.
func GetStorage() (StorageConfig, error) {
	var cfg StorageConfig
	if err := viper.UnmarshalKey("storage", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling storage config: %w", err)
	}
	return cfg, nil
}

// GetMonitor returns the monitor section.
func GetMonitor() (MonitorConfig, error) {
	var cfg MonitorConfig
	if err := viper.UnmarshalKey("monitor", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling monitor config: %w", err)
	}
	return cfg, nil
}

// GetMatch returns the match defaults section.
func GetMatch() (MatchConfig, error) {
	var cfg MatchConfig
	if err := viper.UnmarshalKey("match", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling match config: %w", err)
	}
	return cfg, nil
}

// GetInflux returns the influx section.
func GetInflux() (InfluxConfig, error) {
	var cfg InfluxConfig
	if err := viper.UnmarshalKey("influx", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling influx config: %w", err)
	}
	return cfg, nil
}

// GetGraylog returns the graylog section.
func GetGraylog() (GraylogConfig, error) {
	var cfg GraylogConfig
	if err := viper.UnmarshalKey("graylog", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling graylog config: %w", err)
	}
	return cfg, nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
