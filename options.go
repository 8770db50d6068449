package bucketvec

import (
	"github.com/hupe1980/bucketvec/growth"
	"github.com/hupe1980/bucketvec/metrics"
)

type options struct {
	config  Config
	policy  growth.Policy
	logger  *Logger
	metrics metrics.Collector
}

func defaultOptions() options {
	return options{
		config:  DefaultConfig(),
		logger:  NoopLogger(),
		metrics: metrics.Noop{},
	}
}

// Option configures a container at construction.
type Option func(*options)

// WithConfig replaces both growth parameters.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithStartCapacity sets the capacity of the first segment.
func WithStartCapacity(n int) Option {
	return func(o *options) {
		o.config.StartCapacity = n
	}
}

// WithGrowthRate sets the capacity multiplier between segments.
func WithGrowthRate(rate float64) Option {
	return func(o *options) {
		o.config.GrowthRate = rate
	}
}

// WithPolicy installs a custom growth policy. It takes precedence over
// WithConfig, WithStartCapacity and WithGrowthRate.
//
// The policy must be pure and monotonically non-decreasing. Policies that are
// not one of the growth package's built-ins are resolved by binary search
// over their prefix sums instead of a closed form.
func WithPolicy(p growth.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics sets the metrics collector. If nil is passed, metrics are discarded.
func WithMetrics(c metrics.Collector) Option {
	return func(o *options) {
		if c == nil {
			c = metrics.Noop{}
		}
		o.metrics = c
	}
}

func (o *options) resolvePolicy() (growth.Policy, error) {
	if o.policy != nil {
		if c := o.policy.CapacityOf(0); c < 1 {
			return nil, invalidConfig(&growth.ErrInvalidStartCapacity{StartCapacity: c})
		}
		return o.policy, nil
	}
	return o.config.Policy()
}
