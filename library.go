package regcompat

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dlclark/regexp2"
	"go.dw1.io/fastcache"
)

// libState is the engine-wide configuration published by the first Acquire.
type libState struct {
	timeout   time.Duration
	cache     *fastcache.Cache[string, translation]
	cacheFile string
}

var (
	libMu      sync.Mutex
	libRefs    atomic.Int64
	libCurrent atomic.Pointer[libState]
)

// Acquire takes a reference on the process-wide library context. The first
// call applies opts and sets up the engine defaults; later calls ignore opts.
// Every successful Acquire must be balanced by a [Release].
func Acquire(opts ...Option) error {
	libMu.Lock()
	defer libMu.Unlock()

	if libRefs.Load() == 0 {
		o := defaultOptions()
		for _, opt := range opts {
			if opt != nil {
				opt(&o)
			}
		}

		state := &libState{timeout: regexp2.DefaultMatchTimeout}
		if o.matchTimeout != nil && *o.matchTimeout > 0 {
			state.timeout = *o.matchTimeout
		}
		if o.checkPeriod != nil {
			if *o.checkPeriod <= 0 {
				return fmt.Errorf("regcompat: timeout check period must be positive, got %s", *o.checkPeriod)
			}
			regexp2.SetTimeoutCheckPeriod(*o.checkPeriod)
		}

		if o.cacheSize > 0 {
			state.cacheFile = o.cacheFile
			if state.cacheFile != "" {
				state.cache = fastcache.LoadFromFileOrNew[string, translation](state.cacheFile, o.cacheSize)
			} else {
				state.cache = fastcache.New[string, translation](o.cacheSize)
			}
		}

		libCurrent.Store(state)
	}

	libRefs.Add(1)
	return nil
}

// Release drops a reference taken by [Acquire]. The last release saves the
// persistent compile cache, if any, and stops the engine's timeout clock.
// Releasing with no reference outstanding returns [ErrNotInitialized].
func Release() error {
	libMu.Lock()
	defer libMu.Unlock()

	if libRefs.Load() == 0 {
		return ErrNotInitialized
	}

	if libRefs.Add(-1) > 0 {
		return nil
	}

	state := libCurrent.Swap(nil)
	regexp2.StopTimeoutClock()

	if state != nil && state.cache != nil && state.cacheFile != "" {
		if err := state.cache.SaveToFile(state.cacheFile); err != nil {
			return fmt.Errorf("regcompat: save compile cache: %w", err)
		}
	}

	return nil
}

// Initialized reports whether at least one reference is held.
func Initialized() bool {
	return libRefs.Load() > 0
}

// Refs returns the number of outstanding references.
func Refs() int {
	return int(libRefs.Load())
}

// Guard is a scoped library reference. Close releases it exactly once.
type Guard struct {
	once sync.Once
	err  error
}

// Init acquires a library reference and returns a guard owning it.
//
//	g, err := regcompat.Init()
//	if err != nil {
//		return err
//	}
//	defer g.Close()
func Init(opts ...Option) (*Guard, error) {
	if err := Acquire(opts...); err != nil {
		return nil, err
	}

	return &Guard{}, nil
}

// Close releases the guard's reference. Subsequent calls return the result
// of the first one.
func (g *Guard) Close() error {
	g.once.Do(func() {
		g.err = Release()
	})

	return g.err
}

func currentState() *libState {
	return libCurrent.Load()
}
