package ledger

// EventKind names what part of the ledger changed.
type EventKind string

// Event kinds.
const (
	EventTransactions EventKind = "transactions"
	EventRecurring    EventKind = "recurring"
	EventCurrency     EventKind = "currency"
	EventMonth        EventKind = "month"
	EventReset        EventKind = "reset"
)

// Event describes a change applied to the Store.
type Event struct {
	Kind EventKind
	IDs  []string
}

type listener struct {
	fn func(Event)
	id int
}

// Subscribe registers fn to be called after every change. Listeners run
// synchronously, in subscription order, after the Store lock is released,
// so they may query the Store. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.nextListener++
	id := s.nextListener
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(e Event) {
	s.listenersMu.Lock()
	current := make([]listener, len(s.listeners))
	copy(current, s.listeners)
	s.listenersMu.Unlock()

	for _, l := range current {
		l.fn(e)
	}
}
