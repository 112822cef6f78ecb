package presence

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var ErrClosed = errors.New("presence: subscription closed")

// Hub is the server-side channel registry. Each subscription is keyed by the
// member's own identifier; tracking only ever writes under the caller's key,
// so there is no cross-member write contention.
type Hub struct {
	mu       sync.Mutex
	channels map[string]*channelState
	seq      int64
}

type channelState struct {
	subs map[string]*Subscription // by subscription id
}

type entry struct {
	state     State
	trackedAt int64 // monotonic sequence, not wall clock
}

func NewHub() *Hub {
	return &Hub{channels: make(map[string]*channelState)}
}

// Subscription is one member's handle on a channel. It implements Channel.
type Subscription struct {
	id        string
	channelID string
	key       string
	hub       *Hub

	mu      sync.Mutex
	tracked *entry
	closed  bool
	syncFn  func(map[string][]State)
	joinFn  func(string, []State)
	leaveFn func(string, []State)
}

func (h *Hub) Join(channelID, selfKey string) (Channel, error) {
	if channelID == "" || selfKey == "" {
		return nil, errors.New("presence: channel id and key required")
	}
	sub := &Subscription{
		id:        uuid.New().String(),
		channelID: channelID,
		key:       selfKey,
		hub:       h,
	}
	h.mu.Lock()
	ch := h.channels[channelID]
	if ch == nil {
		ch = &channelState{subs: make(map[string]*Subscription)}
		h.channels[channelID] = ch
	}
	ch.subs[sub.id] = sub
	h.mu.Unlock()
	return sub, nil
}

func (s *Subscription) OnSync(fn func(map[string][]State)) {
	s.mu.Lock()
	s.syncFn = fn
	s.mu.Unlock()
}

func (s *Subscription) OnJoin(fn func(string, []State)) {
	s.mu.Lock()
	s.joinFn = fn
	s.mu.Unlock()
}

func (s *Subscription) OnLeave(fn func(string, []State)) {
	s.mu.Lock()
	s.leaveFn = fn
	s.mu.Unlock()
}

// Track replaces this member's entry and notifies the channel. The first
// track of a subscription also emits a join delta.
func (s *Subscription) Track(state State) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	first := s.tracked == nil
	if state.LastSeenAt.IsZero() {
		state.LastSeenAt = time.Now()
	}
	s.tracked = &entry{state: state, trackedAt: atomic.AddInt64(&s.hub.seq, 1)}
	s.mu.Unlock()

	s.hub.broadcastSync(s.channelID)
	if first {
		s.hub.broadcastJoin(s.channelID, s.key, []State{state})
	}
	return nil
}

func (s *Subscription) Unsubscribe() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	hadState := s.tracked != nil
	var last State
	if hadState {
		last = s.tracked.state
	}
	s.mu.Unlock()

	s.hub.mu.Lock()
	if ch := s.hub.channels[s.channelID]; ch != nil {
		delete(ch.subs, s.id)
		if len(ch.subs) == 0 {
			delete(s.hub.channels, s.channelID)
		}
	}
	s.hub.mu.Unlock()

	s.hub.broadcastSync(s.channelID)
	if hadState {
		s.hub.broadcastLeave(s.channelID, s.key, []State{last})
	}
	return nil
}

// snapshot builds the full keyed state of a channel, entries per key ordered
// oldest to most recently tracked.
func (h *Hub) snapshot(channelID string) map[string][]State {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := h.channels[channelID]
	if ch == nil {
		return map[string][]State{}
	}
	type keyed struct {
		state State
		at    int64
	}
	byKey := make(map[string][]keyed)
	for _, sub := range ch.subs {
		sub.mu.Lock()
		tracked := sub.tracked
		key := sub.key
		sub.mu.Unlock()
		if tracked == nil {
			continue
		}
		byKey[key] = append(byKey[key], keyed{state: tracked.state, at: tracked.trackedAt})
	}
	out := make(map[string][]State, len(byKey))
	for k, list := range byKey {
		sort.Slice(list, func(i, j int) bool { return list[i].at < list[j].at })
		states := make([]State, len(list))
		for i, e := range list {
			states[i] = e.state
		}
		out[k] = states
	}
	return out
}

func (h *Hub) members(channelID string) []*Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := h.channels[channelID]
	if ch == nil {
		return nil
	}
	out := make([]*Subscription, 0, len(ch.subs))
	for _, sub := range ch.subs {
		out = append(out, sub)
	}
	return out
}

func (h *Hub) broadcastSync(channelID string) {
	state := h.snapshot(channelID)
	for _, sub := range h.members(channelID) {
		sub.mu.Lock()
		fn := sub.syncFn
		sub.mu.Unlock()
		if fn != nil {
			fn(state)
		}
	}
}

func (h *Hub) broadcastJoin(channelID, key string, states []State) {
	for _, sub := range h.members(channelID) {
		sub.mu.Lock()
		fn := sub.joinFn
		sub.mu.Unlock()
		if fn != nil {
			fn(key, states)
		}
	}
}

func (h *Hub) broadcastLeave(channelID, key string, states []State) {
	for _, sub := range h.members(channelID) {
		sub.mu.Lock()
		fn := sub.leaveFn
		sub.mu.Unlock()
		if fn != nil {
			fn(key, states)
		}
	}
}
