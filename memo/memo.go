package memo

import (
	"context"
	"os"
	"sync"
	"time"
)

// EnvVar is the environment variable consulted for the execution
// environment when Options.Env is empty.
const EnvVar = "APP_ENV"

// TestingEnv is the execution environment under which caching is
// bypassed unless Options.AllowTesting is set.
const TestingEnv = "test"

// DefaultMaxSize is the default bound on distinct cached keys.
const DefaultMaxSize = 128

// Producer is the asynchronous function being memoized. It may be
// called many times concurrently with equal or distinct arguments; its
// result is treated as substitutable across calls within the freshness
// windows.
type Producer[A, R any] func(ctx context.Context, arg A) (R, error)

// Options configures a Memo.
type Options struct {
	// Name identifies the cache in events and telemetry. Optional.
	Name string

	// MaxAge is how long a successfully completed result may be reused,
	// measured from when its computation started. Required.
	MaxAge time.Duration

	// MaxPendingAge is how long a still-running computation may be
	// joined by later callers, measured from when it started.
	// Default: MaxAge.
	MaxPendingAge time.Duration

	// MaxSize bounds the number of distinct cached keys; overflow
	// evicts the least recently used entries. Default: DefaultMaxSize.
	MaxSize int

	// AllowTesting keeps caching enabled under the testing execution
	// environment. Default: false (caching is bypassed under testing).
	AllowTesting bool

	// Env is the execution environment name. If empty, the EnvVar
	// environment variable is read once at construction. Tests inject
	// this field instead of mutating the process environment.
	Env string

	// Keyer canonicalizes call arguments. Default: DefaultKeyer.
	Keyer Keyer

	// Observer receives cache events. Optional.
	Observer Observer
}

// Stats is a snapshot of a Memo's counters.
type Stats struct {
	Size          int
	Hits          uint64
	Joins         uint64
	Misses        uint64
	Bypasses      uint64
	Evictions     uint64
	Invalidations uint64
}

// Memo memoizes an asynchronous producer function per canonicalized
// key. See the package documentation for the reuse and eviction
// contract.
//
// Contract:
// - Concurrency: safe for concurrent use; all table mutations are
//   serialized so at most one entry exists per digest and the size
//   bound holds at every step.
// - Errors: producer failures propagate verbatim to every joiner and
//   are never cached.
type Memo[A, R any] struct {
	name     string
	producer Producer[A, R]
	keyer    Keyer
	observer Observer

	maxAge        time.Duration
	maxPendingAge time.Duration
	maxSize       int
	bypass        bool

	now func() time.Time

	mu    sync.Mutex
	table *table[R]
	stats Stats
}

// New creates a Memo wrapping producer.
//
// When the execution environment is TestingEnv and opts.AllowTesting is
// false, the returned Memo bypasses caching entirely: every call
// invokes the producer directly and invalidation is a no-op. The
// environment is resolved once here, never per call.
func New[A, R any](producer Producer[A, R], opts Options) (*Memo[A, R], error) {
	if producer == nil {
		return nil, ErrNilProducer
	}
	if opts.MaxAge <= 0 {
		return nil, ErrInvalidMaxAge
	}
	if opts.MaxPendingAge < 0 {
		return nil, ErrInvalidMaxPendingAge
	}
	if opts.MaxSize < 0 {
		return nil, ErrInvalidMaxSize
	}

	// Apply defaults
	if opts.MaxPendingAge == 0 {
		opts.MaxPendingAge = opts.MaxAge
	}
	if opts.MaxSize == 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.Keyer == nil {
		opts.Keyer = NewDefaultKeyer()
	}

	env := opts.Env
	if env == "" {
		env = os.Getenv(EnvVar)
	}

	return &Memo[A, R]{
		name:          opts.Name,
		producer:      producer,
		keyer:         opts.Keyer,
		observer:      opts.Observer,
		maxAge:        opts.MaxAge,
		maxPendingAge: opts.MaxPendingAge,
		maxSize:       opts.MaxSize,
		bypass:        env == TestingEnv && !opts.AllowTesting,
		now:           time.Now,
		table:         newTable[R](),
	}, nil
}

// Do returns the memoized result for arg.
//
// A still-running computation for an equal key younger than
// MaxPendingAge is joined; a succeeded one younger than MaxAge is
// reused. A failed computation is never reused: the next call starts a
// fresh attempt immediately, with no backoff (retry policy is the
// producer's responsibility). Otherwise a new producer invocation is
// started with the original argument and inserted as the key's entry,
// replacing any stale one and evicting the least recently used entries
// beyond MaxSize.
//
// The producer runs detached from ctx's cancellation so one caller
// abandoning the wait cannot fail the computation for its other
// joiners. Do itself returns ctx.Err() if ctx is done before the shared
// computation settles.
func (m *Memo[A, R]) Do(ctx context.Context, arg A) (R, error) {
	if m.bypass {
		m.mu.Lock()
		m.stats.Bypasses++
		m.mu.Unlock()
		return m.producer(ctx, arg)
	}

	digest, err := m.keyer.Digest(arg)
	if err != nil {
		// Canonicalization is total over the key types a Memo is meant
		// to be instantiated with; if it fails anyway, serve the call
		// uncached rather than failing it.
		return m.producer(ctx, arg)
	}

	m.mu.Lock()
	now := m.now()

	if ent := m.table.get(digest); ent != nil {
		age := now.Sub(ent.created)
		switch ent.currentState() {
		case stateRunning:
			if age < m.maxPendingAge {
				m.stats.Joins++
				m.mu.Unlock()
				m.emit(EventJoin, digest)
				return ent.wait(ctx)
			}
		case stateSuccess:
			if age < m.maxAge {
				m.stats.Hits++
				m.mu.Unlock()
				m.emit(EventHit, digest)
				return ent.wait(ctx)
			}
		case stateError:
			// Failures are never reused.
		}
	}

	// Miss, stale entry, or prior failure: start fresh. A replaced
	// stale entry keeps settling for the callers already joined to it.
	ent := newEntry[R](now)
	m.table.put(digest, ent)
	evicted := m.table.evictSurplus(m.maxSize)
	m.stats.Misses++
	m.stats.Evictions += uint64(len(evicted))
	m.mu.Unlock()

	m.emit(EventMiss, digest)
	for _, d := range evicted {
		m.emit(EventEvict, d)
	}

	pctx := context.WithoutCancel(ctx)
	go func() {
		value, err := m.producer(pctx, arg)
		ent.settle(value, err)
	}()

	return ent.wait(ctx)
}

// Invalidate removes the entry for arg, if present. It never blocks: a
// computation already handed to earlier callers continues to completion
// unaffected; only future lookups see the removal. Under the testing
// bypass it is a no-op.
func (m *Memo[A, R]) Invalidate(arg A) {
	if m.bypass {
		return
	}

	digest, err := m.keyer.Digest(arg)
	if err != nil {
		return
	}

	m.mu.Lock()
	removed := m.table.remove(digest)
	if removed {
		m.stats.Invalidations++
	}
	m.mu.Unlock()

	if removed {
		m.emit(EventInvalidate, digest)
	}
}

// InvalidateAll removes every entry unconditionally, regardless of key
// or state. Under the testing bypass it is a no-op.
func (m *Memo[A, R]) InvalidateAll() {
	if m.bypass {
		return
	}

	m.mu.Lock()
	n := m.table.len()
	m.table.clear()
	m.stats.Invalidations += uint64(n)
	m.mu.Unlock()

	m.emit(EventClear, "")
}

// Len returns the number of entries currently in the table.
func (m *Memo[A, R]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table.len()
}

// Stats returns a snapshot of the cache's counters.
func (m *Memo[A, R]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats
	s.Size = m.table.len()
	return s
}
