package snapshot

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/bucketvec/codec"
	"github.com/hupe1980/bucketvec/metrics"
)

const (
	// DefaultBlockSize is the number of elements per block.
	DefaultBlockSize = 4096
	// DefaultCompression is used when no compression is configured.
	DefaultCompression = CompressionLZ4
)

type options struct {
	codec       codec.Codec
	compression Compression
	blockSize   int
	concurrency int
	logger      *slog.Logger
	metrics     metrics.Collector
}

func defaultOptions() options {
	return options{
		codec:       codec.Default,
		compression: DefaultCompression,
		blockSize:   DefaultBlockSize,
		concurrency: runtime.GOMAXPROCS(0),
		logger:      slog.New(slog.DiscardHandler),
		metrics:     metrics.Noop{},
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures Encode, Decode, Save and Load.
type Option func(*options)

// WithCodec sets the element codec used for encoding. On decode, the codec
// named in the header is used; a custom codec passed here is picked up if its
// name matches, so it does not need to be registered.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the block compression for encoding.
// Decoding reads the compression from the header.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithBlockSize sets the number of elements per block. Values below 1 keep
// the default.
func WithBlockSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.blockSize = n
		}
	}
}

// WithConcurrency sets how many blocks are marshalled/compressed (or
// decompressed/unmarshalled) in parallel. Values below 1 keep the default
// of GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
	}
}

// WithMetrics sets the metrics collector. If nil is passed, metrics are discarded.
func WithMetrics(m metrics.Collector) Option {
	return func(o *options) {
		if m == nil {
			m = metrics.Noop{}
		}
		o.metrics = m
	}
}
