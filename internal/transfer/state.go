package transfer

import "sync"

// State is the externally visible snapshot of the download manager. When
// Active is false, Percent is 0 and StatusText is empty.
type State struct {
	Active     bool
	Percent    int
	StatusText string
	ItemCount  int
}

// StateStore serializes state writes and fans snapshots out to subscribers.
// Subscribers always observe the latest snapshot; a slow consumer skips
// intermediate updates instead of blocking the transfer.
type StateStore struct {
	mu      sync.RWMutex
	current State
	subs    map[int]chan State
	nextID  int
}

func NewStateStore() *StateStore {
	return &StateStore{
		current: State{ItemCount: 1},
		subs:    make(map[int]chan State),
	}
}

func (s *StateStore) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers a watcher seeded with the current snapshot. The
// returned func releases the subscription.
func (s *StateStore) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan State, 1)
	ch <- s.current
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *StateStore) begin(itemCount int, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = State{Active: true, Percent: 0, StatusText: status, ItemCount: itemCount}
	s.publishLocked()
}

// progress is a no-op on an idle store so a late write from a finished
// transfer can never fake an active one.
func (s *StateStore) progress(percent int, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current.Active {
		return
	}
	s.current.Percent = percent
	s.current.StatusText = status
	s.publishLocked()
}

func (s *StateStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = State{ItemCount: 1}
	s.publishLocked()
}

func (s *StateStore) publishLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- s.current:
		default:
			// Replace the pending snapshot with the fresh one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s.current:
			default:
			}
		}
	}
}
