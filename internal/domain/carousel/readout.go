// Package carousel publishes the active-slide readout of a carousel widget to subscribers.
package carousel

import "sync"

// State is the index/progress readout for a carousel.
type State struct {
	Index    int     `json:"index"`
	Count    int     `json:"count"`
	Progress float64 `json:"progress"`
}

// At returns the state for slide index out of count, wrapping index into range.
func At(index, count int) State {
	if count <= 0 {
		return State{}
	}
	index %= count
	if index < 0 {
		index += count
	}
	return State{Index: index, Count: count, Progress: float64(index+1) / float64(count)}
}

// Readout fans a carousel State out to subscribers.
// It is safe for concurrent use.
type Readout struct {
	mu      sync.Mutex
	nextID  uint64
	subs    map[uint64]func(State)
	current State
	hasCur  bool
	closed  bool
}

// NewReadout constructs an empty Readout.
func NewReadout() *Readout {
	return &Readout{subs: make(map[uint64]func(State))}
}

// Subscribe registers fn and immediately replays the current state, if any.
// The returned disposer must be called when the subscriber is torn down;
// only its first call has an effect.
func (r *Readout) Subscribe(fn func(State)) (dispose func()) {
	if fn == nil {
		return func() {}
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return func() {}
	}
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	cur, replay := r.current, r.hasCur
	r.mu.Unlock()

	if replay {
		fn(cur)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

// Publish records s as current and delivers it to every subscriber registered at call time.
// Handlers run outside the lock, so a handler may dispose itself (or others) while being invoked.
func (r *Readout) Publish(s State) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.current, r.hasCur = s, true
	handlers := make([]func(State), 0, len(r.subs))
	for _, fn := range r.subs {
		handlers = append(handlers, fn)
	}
	r.mu.Unlock()

	for _, fn := range handlers {
		fn(s)
	}
}

// Current returns the last published state.
func (r *Readout) Current() (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.hasCur
}

// Len returns the number of live subscriptions.
func (r *Readout) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Close drops all subscriptions. Later Publish and Subscribe calls are no-ops.
func (r *Readout) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for id := range r.subs {
		delete(r.subs, id)
	}
}
