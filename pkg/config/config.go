// Package config provides the unified configuration for Quasar
// materializations. A single BridgeConfig structure covers the
// performance, observability and compression knobs, with defaults
// that work for in-process use.
//
// Example usage:
//
//	cfg := config.NewBridgeConfig("training-import")
//	cfg.Performance.Workers = 8
//	cfg.Compression.Algorithm = compression.Zstd
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"runtime"

	"github.com/ajitpratap0/quasar/pkg/compression"
	"github.com/ajitpratap0/quasar/pkg/qerrors"
)

// BridgeConfig is the configuration for one materialization pipeline.
type BridgeConfig struct {
	// Name identifies the pipeline instance
	Name string `yaml:"name" json:"name"`

	// Performance settings control parallelism and batching
	Performance PerformanceConfig `yaml:"performance" json:"performance"`

	// Observability settings for logging, metrics and tracing
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`

	// Compression selects the segment seal codec
	Compression compression.Config `yaml:"compression" json:"compression"`
}

// PerformanceConfig contains parallelism settings.
type PerformanceConfig struct {
	// Workers bounds concurrent partition tasks; 0 means GOMAXPROCS
	Workers int `yaml:"workers" json:"workers"`
	// Partitions is the default partition count for readers that
	// build collections from flat input; 0 means one per worker
	Partitions int `yaml:"partitions" json:"partitions"`
}

// ObservabilityConfig contains monitoring settings.
type ObservabilityConfig struct {
	// LogLevel sets the zap level (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// EnableMetrics turns Prometheus collectors on
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// EnableTracing turns OpenTelemetry span export on
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
}

// NewBridgeConfig returns a config with production defaults.
func NewBridgeConfig(name string) *BridgeConfig {
	return &BridgeConfig{
		Name: name,
		Performance: PerformanceConfig{
			Workers:    runtime.NumCPU(),
			Partitions: runtime.NumCPU(),
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			EnableMetrics: true,
		},
		Compression: compression.Config{
			Algorithm: compression.LZ4,
			Level:     compression.Default,
		},
	}
}

// Validate checks the configuration for contradictions.
func (c *BridgeConfig) Validate() error {
	if c.Name == "" {
		return qerrors.New(qerrors.ErrorTypeConfig, "pipeline name is required")
	}
	if c.Performance.Workers < 0 {
		return qerrors.Newf(qerrors.ErrorTypeConfig, "negative worker count %d", c.Performance.Workers)
	}
	if c.Performance.Partitions < 0 {
		return qerrors.Newf(qerrors.ErrorTypeConfig, "negative partition count %d", c.Performance.Partitions)
	}
	if _, err := compression.NewCompressor(&c.Compression); err != nil {
		return qerrors.Wrap(err, qerrors.ErrorTypeConfig, "invalid compression settings")
	}
	return nil
}
