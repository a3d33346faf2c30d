package party

// Map is a total map from a pinned List to an optional value of type T.
// It is not safe for concurrent use without external synchronization,
// matching the rest of the engine's single-threaded-per-instance model.
type Map[T any] struct {
	list   *List
	values map[Participant]T
	set    map[Participant]bool
}

// NewMap creates a Map with every key of list initially unset.
func NewMap[T any](list *List) *Map[T] {
	return &Map[T]{
		list:   list,
		values: make(map[Participant]T, list.Len()),
		set:    make(map[Participant]bool, list.Len()),
	}
}

// Put records v for id. Putting the same id twice is idempotent: the
// second call is a no-op and reports duplicate=true, modeling benign
// duplicate deliveries from the transport layer.
func (m *Map[T]) Put(id Participant, v T) (duplicate bool) {
	if m.set[id] {
		return true
	}
	m.values[id] = v
	m.set[id] = true
	return false
}

// Get returns the value stored for id, if any.
func (m *Map[T]) Get(id Participant) (T, bool) {
	v, ok := m.values[id]
	return v, ok
}

// Full reports whether every key in the pinned list has a value.
func (m *Map[T]) Full() bool {
	for _, id := range m.list.IDs() {
		if !m.set[id] {
			return false
		}
	}
	return true
}

// Missing returns the participants that have not yet been set.
func (m *Map[T]) Missing() []Participant {
	var out []Participant
	for _, id := range m.list.IDs() {
		if !m.set[id] {
			out = append(out, id)
		}
	}
	return out
}

// Range calls f for every participant that has a value, in list order.
func (m *Map[T]) Range(f func(Participant, T)) {
	for _, id := range m.list.IDs() {
		if v, ok := m.values[id]; ok {
			f(id, v)
		}
	}
}

// Counter specializes Map[struct{}] for tracking reception without caring
// about payload content.
type Counter struct {
	*Map[struct{}]
}

// NewCounter creates a Counter over list.
func NewCounter(list *List) *Counter {
	return &Counter{Map: NewMap[struct{}](list)}
}

// Mark records that id has been seen. Duplicate marks are silently
// ignored, matching Map.Put's idempotent-in-identity contract.
func (c *Counter) Mark(id Participant) {
	c.Put(id, struct{}{})
}
