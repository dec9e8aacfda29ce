package interaction

// subscriber holds at most one undelivered state; a newer state replaces it.
// All methods are called with the machine lock held, so there is a single sender.
type subscriber struct {
	ch     chan State
	closed bool
}

func newSubscriber() *subscriber {
	return &subscriber{ch: make(chan State, 1)}
}

func (s *subscriber) send(state State) {
	if s.closed {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- state
}

func (s *subscriber) close() {
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}
