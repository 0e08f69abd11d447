package memo

import "container/list"

// table is an ordered associative structure mapping canonical digests to
// entries. Iteration order of the list is recency order: the front is
// the least recently inserted key, the back the most recent. put always
// deletes before inserting at the back, so refreshing a key bumps it to
// most-recently-used. This is the cache's LRU encoding; eviction pops
// from the front.
//
// The table is not safe for concurrent use; the owning Memo serializes
// access.
type table[R any] struct {
	index map[string]*list.Element
	order *list.List // of *slot[R]
}

type slot[R any] struct {
	digest string
	ent    *entry[R]
}

func newTable[R any]() *table[R] {
	return &table[R]{
		index: make(map[string]*list.Element),
		order: list.New(),
	}
}

func (t *table[R]) len() int {
	return t.order.Len()
}

// get returns the entry for digest without changing its recency
// position. Returns nil on miss.
func (t *table[R]) get(digest string) *entry[R] {
	elem, ok := t.index[digest]
	if !ok {
		return nil
	}
	return elem.Value.(*slot[R]).ent
}

// put inserts ent at the most-recently-used end. Any prior entry for
// the digest is removed first, so at most one entry per digest exists
// and a replacement resets the key's recency position.
func (t *table[R]) put(digest string, ent *entry[R]) {
	t.remove(digest)
	elem := t.order.PushBack(&slot[R]{digest: digest, ent: ent})
	t.index[digest] = elem
}

// remove deletes the entry for digest, if present. Reports whether an
// entry was removed.
func (t *table[R]) remove(digest string) bool {
	elem, ok := t.index[digest]
	if !ok {
		return false
	}
	t.order.Remove(elem)
	delete(t.index, digest)
	return true
}

// clear removes every entry.
func (t *table[R]) clear() {
	t.index = make(map[string]*list.Element)
	t.order.Init()
}

// evictSurplus removes least-recently-used entries until the table
// holds at most max entries, regardless of their state or age, and
// returns the evicted digests in eviction order.
func (t *table[R]) evictSurplus(max int) []string {
	if t.order.Len() <= max {
		return nil
	}

	evicted := make([]string, 0, t.order.Len()-max)
	for t.order.Len() > max {
		front := t.order.Front()
		s := front.Value.(*slot[R])
		t.order.Remove(front)
		delete(t.index, s.digest)
		evicted = append(evicted, s.digest)
	}
	return evicted
}
