package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OCAP2/hazardtrack/internal/chasing"
	"github.com/OCAP2/hazardtrack/internal/shape"
	"github.com/OCAP2/hazardtrack/pkg/core"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "hazardtrack.cfg.json"

// ErrInvalidFamily is returned when a hazard family definition cannot be used.
var ErrInvalidFamily = errors.New("invalid hazard family")

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled        bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName    string        `json:"serviceName" mapstructure:"serviceName"`
	ExportInterval time.Duration `json:"exportInterval" mapstructure:"exportInterval"`
	Endpoint       string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `json:"insecure" mapstructure:"insecure"`
}

// InfluxConfig holds InfluxDB sink settings
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`
}

// URL returns the server URL built from protocol, host and port.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// DBConfig selects the recorded-session database.
type DBConfig struct {
	Kind string `json:"kind" mapstructure:"kind"`
	DSN  string `json:"dsn" mapstructure:"dsn"`
}

// ShapeConfig describes a hazard footprint. Kind is one of circle, donut, rect.
type ShapeConfig struct {
	Kind        string  `json:"kind" mapstructure:"kind"`
	Radius      float64 `json:"radius" mapstructure:"radius"`
	Inner       float64 `json:"inner" mapstructure:"inner"`
	Outer       float64 `json:"outer" mapstructure:"outer"`
	LengthFront float64 `json:"lengthFront" mapstructure:"lengthFront"`
	LengthBack  float64 `json:"lengthBack" mapstructure:"lengthBack"`
	HalfWidth   float64 `json:"halfWidth" mapstructure:"halfWidth"`
}

// Build returns the shape described by the config.
func (c ShapeConfig) Build() (core.Shape, error) {
	switch strings.ToLower(c.Kind) {
	case "circle":
		if c.Radius <= 0 {
			return nil, fmt.Errorf("%w: circle radius must be positive", ErrInvalidFamily)
		}
		return shape.Circle{Radius: c.Radius}, nil
	case "donut":
		if c.Inner < 0 || c.Outer <= c.Inner {
			return nil, fmt.Errorf("%w: donut needs 0 <= inner < outer", ErrInvalidFamily)
		}
		return shape.Donut{Inner: c.Inner, Outer: c.Outer}, nil
	case "rect":
		if c.HalfWidth <= 0 || c.LengthFront+c.LengthBack <= 0 {
			return nil, fmt.Errorf("%w: rect needs positive width and length", ErrInvalidFamily)
		}
		return shape.Rect{LengthFront: c.LengthFront, LengthBack: c.LengthBack, HalfWidth: c.HalfWidth}, nil
	default:
		return nil, fmt.Errorf("%w: unknown shape kind %q", ErrInvalidFamily, c.Kind)
	}
}

// Family is one hazard family as written in the config file.
type Family struct {
	Name                      string      `json:"name" mapstructure:"name"`
	Shape                     ShapeConfig `json:"shape" mapstructure:"shape"`
	ActionFirst               uint32      `json:"actionFirst" mapstructure:"actionFirst"`
	ActionRest                uint32      `json:"actionRest" mapstructure:"actionRest"`
	MoveDistance              float64     `json:"moveDistance" mapstructure:"moveDistance"`
	SecondsBetweenActivations float64     `json:"secondsBetweenActivations" mapstructure:"secondsBetweenActivations"`
	MaxCasts                  int         `json:"maxCasts" mapstructure:"maxCasts"`
}

// Chasing converts the family into a policy config.
func (f Family) Chasing() (chasing.Config, error) {
	if f.Name == "" {
		return chasing.Config{}, fmt.Errorf("%w: missing name", ErrInvalidFamily)
	}
	if f.MaxCasts < 1 {
		return chasing.Config{}, fmt.Errorf("%w %s: maxCasts must be at least 1", ErrInvalidFamily, f.Name)
	}
	if f.MoveDistance < 0 || f.SecondsBetweenActivations < 0 {
		return chasing.Config{}, fmt.Errorf("%w %s: negative distance or interval", ErrInvalidFamily, f.Name)
	}
	s, err := f.Shape.Build()
	if err != nil {
		return chasing.Config{}, fmt.Errorf("family %s: %w", f.Name, err)
	}
	return chasing.Config{
		Name:                      f.Name,
		Shape:                     s,
		ActionFirst:               core.ActionID(f.ActionFirst),
		ActionRest:                core.ActionID(f.ActionRest),
		MoveDistance:              f.MoveDistance,
		SecondsBetweenActivations: f.SecondsBetweenActivations,
		MaxCasts:                  f.MaxCasts,
	}, nil
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("warningText", chasing.DefaultWarningText)

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "hazardtrack")
	viper.SetDefault("influx.bucket", "hazards")
	viper.SetDefault("influx.backupPath", "./logs/influx_backup.log.gz")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "hazardtrack")
	viper.SetDefault("otel.exportInterval", "10s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("db.kind", "sqlite")
	viper.SetDefault("db.dsn", "hazardtrack.db")

	viper.SetDefault("families", []map[string]any{})

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
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

// GetOTelConfig returns the OpenTelemetry configuration.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		ExportInterval: viper.GetDuration("otel.exportInterval"),
		Endpoint:       viper.GetString("otel.endpoint"),
		Insecure:       viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the InfluxDB configuration.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Protocol: viper.GetString("influx.protocol"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}

// GetDBConfig returns the recorded-session database configuration.
func GetDBConfig() DBConfig {
	return DBConfig{
		Kind: viper.GetString("db.kind"),
		DSN:  viper.GetString("db.dsn"),
	}
}

// Families decodes and validates every configured hazard family.
func Families() ([]chasing.Config, error) {
	var raw []Family
	if err := viper.UnmarshalKey("families", &raw); err != nil {
		return nil, fmt.Errorf("decoding families: %w", err)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]chasing.Config, 0, len(raw))
	for _, f := range raw {
		cfg, err := f.Chasing()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[cfg.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %s", ErrInvalidFamily, cfg.Name)
		}
		seen[cfg.Name] = struct{}{}
		out = append(out, cfg)
	}
	return out, nil
}
