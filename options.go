package regcompat

import "time"

// DefaultCacheSize is the number of translated patterns kept by the compile
// cache while a library context is held.
const DefaultCacheSize = 16_384

type options struct {
	matchTimeout *time.Duration
	checkPeriod  *time.Duration
	cacheSize    int
	cacheFile    string
}

func defaultOptions() options {
	return options{cacheSize: DefaultCacheSize}
}

// Option configures the library context on its first [Acquire].
type Option func(*options)

// WithMatchTimeout bounds the run time of a single search. A search that
// exceeds it fails with [KindComplexity]. Values <= 0 disable the bound,
// which is the default.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *options) {
		o.matchTimeout = &d
	}
}

// WithTimeoutCheckPeriod sets how often the backtracking engine's shared
// clock checks match deadlines.
func WithTimeoutCheckPeriod(d time.Duration) Option {
	return func(o *options) {
		o.checkPeriod = &d
	}
}

// WithCacheSize sets the capacity of the compile cache. Zero disables it.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.cacheSize = n
	}
}

// WithCacheFile persists the compile cache to path. It is loaded on the
// first Acquire and saved on the last Release.
func WithCacheFile(path string) Option {
	return func(o *options) {
		o.cacheFile = path
	}
}
