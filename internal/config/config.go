package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "basesim.cfg.json"

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds in-memory SQLite backend settings
type SQLiteConfig struct {
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
}

// WebSocketConfig holds the live viewer stream settings
type WebSocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type      string          `json:"type" mapstructure:"type"`
	Memory    MemoryConfig    `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig    `json:"sqlite" mapstructure:"sqlite"`
	WebSocket WebSocketConfig `json:"websocket" mapstructure:"websocket"`
}

// SimConfig holds geoscape clock settings
type SimConfig struct {
	Seed        uint64    `json:"seed" mapstructure:"seed"`
	TickMinutes int       `json:"tickMinutes" mapstructure:"tickMinutes"`
	SaveName    string    `json:"saveName" mapstructure:"saveName"`
	StartFunds  int64     `json:"startFunds" mapstructure:"startFunds"`
	StartDate   time.Time `json:"startDate" mapstructure:"startDate"`
}

// Tick returns the clock step.
func (c SimConfig) Tick() time.Duration {
	return time.Duration(c.TickMinutes) * time.Minute
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled        bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName    string        `json:"serviceName" mapstructure:"serviceName"`
	ExportInterval time.Duration `json:"exportInterval" mapstructure:"exportInterval"`
}

// InfluxConfig holds InfluxDB telemetry settings
type InfluxConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Protocol   string `json:"protocol" mapstructure:"protocol"`
	Token      string `json:"token" mapstructure:"token"`
	Org        string `json:"org" mapstructure:"org"`
	Bucket     string `json:"bucket" mapstructure:"bucket"`
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// URL returns the server address.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// GraylogConfig holds the GELF sink settings
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level   string        `json:"logLevel"`
	Dir     string        `json:"logsDir"`
	Graylog GraylogConfig `json:"graylog"`
}

// SetDefaults registers every default value.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("rulesDir", "./rules")

	viper.SetDefault("sim.seed", 1)
	viper.SetDefault("sim.tickMinutes", 5)
	viper.SetDefault("sim.saveName", "campaign")
	viper.SetDefault("sim.startFunds", 1000000)
	viper.SetDefault("sim.startDate", "2030-01-01T00:00:00Z")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./saves")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.sqlite.dumpPath", "./saves/basesim.db")
	viper.SetDefault("storage.websocket.url", "ws://localhost:5000/campaigns/stream")
	viper.SetDefault("storage.websocket.secret", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "basesim")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "basesim")
	viper.SetDefault("influx.bucket", "geoscape")
	viper.SetDefault("influx.backupPath", "./logs/influx_backup.lp.gz")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "basesim")
	viper.SetDefault("otel.exportInterval", "30s")
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// IsNotFound reports whether Load failed only because no config file exists.
func IsNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf)
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

// GetStorageConfig returns the storage section.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
		},
		WebSocket: WebSocketConfig{
			URL:    viper.GetString("storage.websocket.url"),
			Secret: viper.GetString("storage.websocket.secret"),
		},
	}
}

// GetSimConfig returns the sim section.
func GetSimConfig() SimConfig {
	return SimConfig{
		Seed:        viper.GetUint64("sim.seed"),
		TickMinutes: viper.GetInt("sim.tickMinutes"),
		SaveName:    viper.GetString("sim.saveName"),
		StartFunds:  viper.GetInt64("sim.startFunds"),
		StartDate:   viper.GetTime("sim.startDate").UTC(),
	}
}

// GetOTelConfig returns the otel section.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		ExportInterval: viper.GetDuration("otel.exportInterval"),
	}
}

// GetInfluxConfig returns the influx section.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Protocol:   viper.GetString("influx.protocol"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetLogConfig returns the logging keys.
func GetLogConfig() LogConfig {
	return LogConfig{
		Level: viper.GetString("logLevel"),
		Dir:   viper.GetString("logsDir"),
		Graylog: GraylogConfig{
			Enabled: viper.GetBool("graylog.enabled"),
			Address: viper.GetString("graylog.address"),
		},
	}
}
