package memo

// Event identifies something that happened during a cache operation.
type Event string

const (
	// EventHit: a completed result was reused within its freshness window.
	EventHit Event = "hit"
	// EventJoin: a caller joined a still-running computation.
	EventJoin Event = "join"
	// EventMiss: a fresh producer invocation was started.
	EventMiss Event = "miss"
	// EventEvict: an entry was removed by the capacity bound.
	EventEvict Event = "evict"
	// EventInvalidate: an entry was removed by explicit invalidation.
	EventInvalidate Event = "invalidate"
	// EventClear: the whole table was removed by a full invalidation.
	EventClear Event = "clear"
)

// EventData carries the context of an Event.
type EventData struct {
	Event  Event
	Cache  string // Options.Name
	Digest string // canonical key digest; empty for EventClear
}

// Observer receives cache events as they happen.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Blocking: On is called outside the cache's lock but on the caller's
//   path; implementations should return quickly.
// - Errors: implementations must not panic.
type Observer interface {
	On(data EventData)
}

func (m *Memo[A, R]) emit(event Event, digest string) {
	if m.observer == nil {
		return
	}
	m.observer.On(EventData{
		Event:  event,
		Cache:  m.name,
		Digest: digest,
	})
}
