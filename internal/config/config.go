package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure for the whole application.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	Network NetworkConfig `mapstructure:"network"`
	Parser  ParserConfig  `mapstructure:"parser"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" json:"level" yaml:"level"`
	Format      string `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" json:"compress" yaml:"compress"`
}

// NetworkConfig holds settings for outbound HTTP requests (URL input mode).
type NetworkConfig struct {
	RequestTimeout      time.Duration     `mapstructure:"request_timeout"`
	DialTimeout         time.Duration     `mapstructure:"dial_timeout"`
	TLSHandshakeTimeout time.Duration     `mapstructure:"tls_handshake_timeout"`
	MaxIdleConns        int               `mapstructure:"max_idle_conns"`
	MaxConnsPerHost     int               `mapstructure:"max_conns_per_host"`
	IgnoreTLSErrors     bool              `mapstructure:"ignore_tls_errors"`
	Headers             map[string]string `mapstructure:"headers"`
}

// ParserConfig holds the engine tunables. The literal heuristics of the
// pipeline (inference radius, hidden-style markers, resource ceilings) live
// here rather than as hard-coded law so deployments can adjust them per
// diagram ecosystem.
type ParserConfig struct {
	// InferenceRadius is the maximum distance, in user-space units, between a
	// connector endpoint and a node center for an edge to be inferred.
	InferenceRadius float64 `mapstructure:"inference_radius"`
	// HiddenStyleMarkers are style/attribute fragments that mark an element as
	// invisible for extraction purposes.
	HiddenStyleMarkers []string `mapstructure:"hidden_style_markers"`
	// MaxMarkupBytes is the soft input-size ceiling; larger markup only draws
	// a warning.
	MaxMarkupBytes int `mapstructure:"max_markup_bytes"`
	// HeapLimitBytes is the hard process-heap ceiling enforced by the abort
	// predicate.
	HeapLimitBytes uint64 `mapstructure:"heap_limit_bytes"`
	// AbortGracePeriod suppresses timeout aborts until processing has run for
	// at least this long, so trivially fast parses never false-positive.
	AbortGracePeriod time.Duration `mapstructure:"abort_grace_period"`
	// AbortCheckInterval is how many extracted elements pass between abort
	// predicate polls.
	AbortCheckInterval int `mapstructure:"abort_check_interval"`
}

// SetDefaults seeds Viper so the engine runs with a minimal or absent config
// file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "svggraph")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)

	v.SetDefault("network.request_timeout", 30*time.Second)
	v.SetDefault("network.dial_timeout", 5*time.Second)
	v.SetDefault("network.tls_handshake_timeout", 5*time.Second)
	v.SetDefault("network.max_idle_conns", 100)
	v.SetDefault("network.max_conns_per_host", 50)
	v.SetDefault("network.ignore_tls_errors", false)

	v.SetDefault("parser.inference_radius", 50.0)
	v.SetDefault("parser.hidden_style_markers", []string{"display:none", "visibility:hidden"})
	v.SetDefault("parser.max_markup_bytes", 10*1024*1024)
	v.SetDefault("parser.heap_limit_bytes", uint64(512*1024*1024))
	v.SetDefault("parser.abort_grace_period", 100*time.Millisecond)
	v.SetDefault("parser.abort_check_interval", 25)
}

// Load unmarshals the Viper state into a Config. Unlike a global singleton,
// each caller owns its own instance; nothing here is shared across parses.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Default returns a Config populated entirely from defaults, for library
// consumers that never touch a config file.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	if err != nil {
		// Defaults always unmarshal; this is unreachable without a programming
		// error in SetDefaults.
		panic(err)
	}
	return cfg
}
