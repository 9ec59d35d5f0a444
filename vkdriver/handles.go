package vkdriver

// table maps the opaque handles handed out to the context onto vulkan-go
// objects. Handle 0 is never issued.
type table[T comparable] struct {
	next    uint64
	items   map[uint64]T
	reverse map[T]uint64
}

func newTable[T comparable]() *table[T] {
	return &table[T]{
		items:   make(map[uint64]T),
		reverse: make(map[T]uint64),
	}
}

// put stores v and returns its handle. Storing the same object twice returns
// the handle issued the first time.
func (t *table[T]) put(v T) uint64 {
	if h, ok := t.reverse[v]; ok {
		return h
	}
	t.next++
	t.items[t.next] = v
	t.reverse[v] = t.next
	return t.next
}

func (t *table[T]) get(h uint64) (T, bool) {
	v, ok := t.items[h]
	return v, ok
}

func (t *table[T]) remove(h uint64) (T, bool) {
	v, ok := t.items[h]
	if ok {
		delete(t.items, h)
		delete(t.reverse, v)
	}
	return v, ok
}

func (t *table[T]) len() int {
	return len(t.items)
}
