package pipeline

import (
	"math/rand/v2"
	"sync"

	"github.com/kbukum/seqkit/config"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/validation"
)

var (
	defaultsMu sync.RWMutex
	defaults   = config.DefaultEngineConfig()
)

// Configure installs process-wide defaults for sampling and shuffling and
// the log settings of the "pipeline" component. Options passed to an
// operator still take precedence.
func Configure(cfg config.EngineConfig) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	defaultsMu.Lock()
	defaults = cfg
	defaultsMu.Unlock()

	logger.Register("pipeline", logger.New(&cfg.Logging, "seqkit").WithComponent("pipeline"))
	return nil
}

// Defaults returns the current process-wide defaults.
func Defaults() config.EngineConfig {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaults
}

// Option tunes Sample and Shuffle.
type Option func(*options)

type options struct {
	Seed         *int64
	Fair         bool
	BufferSize   int  `mapstructure:"buffer_size" validate:"gte=1"`
	BudgetFactor *int `mapstructure:"budget_factor" validate:"omitnil,gt=0"`
	StopFactor   *int `mapstructure:"stop_factor" validate:"omitnil,gt=0"`
}

// WithSeed makes the random choices reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) { o.Seed = &seed }
}

// WithBufferSize sets the streaming shuffle buffer.
func WithBufferSize(n int) Option {
	return func(o *options) { o.BufferSize = n }
}

// Fair requests an exact shuffle. The source must be sized.
func Fair() Option {
	return func(o *options) { o.Fair = true }
}

// WithBudgetFactor caps sampling at n*factor pulled items.
func WithBudgetFactor(factor int) Option {
	return func(o *options) { o.BudgetFactor = &factor }
}

// WithoutBudget lets sampling pull until the source ends.
func WithoutBudget() Option {
	return func(o *options) { o.BudgetFactor = nil }
}

// WithStopFactor sets the early stop probability of a full reservoir to
// 1/(factor*n) per replacement.
func WithStopFactor(factor int) Option {
	return func(o *options) { o.StopFactor = &factor }
}

// WithoutEarlyStop disables the early stop of sampling.
func WithoutEarlyStop() Option {
	return func(o *options) { o.StopFactor = nil }
}

// resolveOptions applies opts over the process-wide defaults and validates
// the result.
func resolveOptions(opts []Option) (options, error) {
	cfg := Defaults()
	o := options{BufferSize: cfg.Shuffle.BufferSize}
	if !cfg.Sample.DisableBudget {
		budget := cfg.Sample.BudgetFactor
		o.BudgetFactor = &budget
	}
	if !cfg.Sample.DisableStop {
		stop := cfg.Sample.StopFactor
		o.StopFactor = &stop
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := validation.ValidateStruct(o); err != nil {
		return o, err
	}
	return o, nil
}

func (o options) newRand() *rand.Rand {
	if o.Seed != nil {
		s := uint64(*o.Seed)
		return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
