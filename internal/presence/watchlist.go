package presence

import (
	"strconv"
	"sync"
	"time"
)

// Watchlist subscribes to the shared global channel and answers "is this user
// online anywhere in the app" for an arbitrary set of watched IDs by
// intersecting every full-state sync with the watch-list.
type Watchlist struct {
	ch Channel

	mu      sync.Mutex
	watched map[uint64]bool
	online  map[uint64]bool
	closed  bool
}

// OpenWatchlist joins the global presence channel keyed by the caller's own ID
// and announces it.
func OpenWatchlist(rt Realtime, selfUserID uint64, watch []uint64) (*Watchlist, error) {
	ch, err := rt.Join(GlobalChannel, strconv.FormatUint(selfUserID, 10))
	if err != nil {
		return nil, err
	}

	w := &Watchlist{
		ch:      ch,
		watched: make(map[uint64]bool, len(watch)),
		online:  make(map[uint64]bool),
	}
	for _, id := range watch {
		w.watched[id] = true
	}

	ch.OnSync(w.handleSync)

	if err := ch.Track(State{UserID: selfUserID, LastSeenAt: time.Now()}); err != nil {
		_ = ch.Unsubscribe()
		return nil, err
	}
	return w, nil
}

func (w *Watchlist) handleSync(state map[string][]State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.online = make(map[uint64]bool, len(state))
	for key := range state {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		if w.watched[id] {
			w.online[id] = true
		}
	}
}

// Watch replaces the watch-list. Effective from the next sync.
func (w *Watchlist) Watch(ids []uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watched = make(map[uint64]bool, len(ids))
	for _, id := range ids {
		w.watched[id] = true
	}
}

func (w *Watchlist) IsOnline(userID uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.online[userID]
}

func (w *Watchlist) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	return w.ch.Unsubscribe()
}
