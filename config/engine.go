package config

import (
	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/validation"
)

// Default tuning values.
const (
	DefaultShuffleBufferSize  = 10
	DefaultSampleBudgetFactor = 10
	DefaultSampleStopFactor   = 10
)

// ShuffleConfig tunes the streaming shuffle.
type ShuffleConfig struct {
	// BufferSize is the number of items held back by a non-fair shuffle.
	BufferSize int `yaml:"buffer_size" mapstructure:"buffer_size" validate:"gte=1"`
}

// SampleConfig tunes reservoir sampling.
type SampleConfig struct {
	BudgetFactor  int  `yaml:"budget_factor" mapstructure:"budget_factor" validate:"gte=1"`
	StopFactor    int  `yaml:"stop_factor" mapstructure:"stop_factor" validate:"gte=1"`
	DisableBudget bool `yaml:"disable_budget" mapstructure:"disable_budget"`
	DisableStop   bool `yaml:"disable_stop" mapstructure:"disable_stop"`
}

// EngineConfig holds process-wide defaults for pipeline operators.
//
// Example YAML:
//
//	shuffle:
//	  buffer_size: 32
//	sample:
//	  budget_factor: 10
//	  stop_factor: 10
//	logging:
//	  level: debug
type EngineConfig struct {
	Shuffle ShuffleConfig `yaml:"shuffle" mapstructure:"shuffle"`
	Sample  SampleConfig  `yaml:"sample" mapstructure:"sample"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// DefaultEngineConfig returns a config with all defaults applied.
func DefaultEngineConfig() EngineConfig {
	var c EngineConfig
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero-valued fields with the default tuning values.
func (c *EngineConfig) ApplyDefaults() {
	if c.Shuffle.BufferSize == 0 {
		c.Shuffle.BufferSize = DefaultShuffleBufferSize
	}
	if c.Sample.BudgetFactor == 0 {
		c.Sample.BudgetFactor = DefaultSampleBudgetFactor
	}
	if c.Sample.StopFactor == 0 {
		c.Sample.StopFactor = DefaultSampleStopFactor
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the engine configuration.
func (c *EngineConfig) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.InvalidArgument("logging", err.Error()).WithCause(err)
	}
	return nil
}
