package presence

import (
	"strconv"
	"sync"
	"time"
)

// typingResetDelay is how long a typing announcement stays live without a
// follow-up before it is automatically withdrawn.
const typingResetDelay = 3 * time.Second

// PeerView is what one side of a conversation sees of the other. A nil view
// means no data has arrived yet, or the peer was never present.
type PeerView struct {
	IsOnline bool `json:"is_online"`
	IsTyping bool `json:"is_typing"`
}

// Conversation watches the peer of a two-party conversation channel and
// manages this side's typing announcements.
type Conversation struct {
	ch      Channel
	selfKey string
	selfID  uint64

	mu         sync.Mutex
	view       *PeerView
	typingStop *time.Timer
	closed     bool

	resetDelay time.Duration
}

// Open joins the conversation's presence channel keyed by the caller's user ID
// and announces an initial not-typing presence. A failed join is returned to
// the caller; after a successful join the view simply stays nil until the
// peer shows up.
func Open(rt Realtime, conversationID string, selfUserID uint64) (*Conversation, error) {
	selfKey := strconv.FormatUint(selfUserID, 10)
	ch, err := rt.Join(ConversationChannel(conversationID), selfKey)
	if err != nil {
		return nil, err
	}

	c := &Conversation{
		ch:         ch,
		selfKey:    selfKey,
		selfID:     selfUserID,
		resetDelay: typingResetDelay,
	}

	ch.OnSync(c.handleSync)
	ch.OnJoin(c.handleJoin)
	ch.OnLeave(c.handleLeave)

	if err := ch.Track(State{UserID: selfUserID, IsTyping: false, LastSeenAt: time.Now()}); err != nil {
		_ = ch.Unsubscribe()
		return nil, err
	}
	return c, nil
}

// Observe returns the current view of the peer, or nil if none has arrived.
func (c *Conversation) Observe() *PeerView {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view == nil {
		return nil
	}
	v := *c.view
	return &v
}

// handleSync recomputes the peer view from the full channel state: the most
// recently tracked entry of the first non-self key wins.
func (c *Conversation) handleSync(state map[string][]State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for key, entries := range state {
		if key == c.selfKey || len(entries) == 0 {
			continue
		}
		last := entries[len(entries)-1]
		c.view = &PeerView{IsOnline: true, IsTyping: last.IsTyping}
		return
	}
	c.view = nil
}

// handleJoin short-circuits a full sync when the peer announces itself.
func (c *Conversation) handleJoin(key string, states []State) {
	if key == c.selfKey || len(states) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.view = &PeerView{IsOnline: true, IsTyping: states[0].IsTyping}
}

// handleLeave keeps the last known view but forces the liveness flags off.
func (c *Conversation) handleLeave(key string, states []State) {
	if key == c.selfKey {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.view == nil {
		return
	}
	c.view = &PeerView{IsOnline: false, IsTyping: false}
}

// SetTyping announces the typing flag. A true announcement arms a timer that
// withdraws it automatically after the reset delay unless re-armed; a false
// announcement cancels any pending withdrawal.
func (c *Conversation) SetTyping(isTyping bool) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.typingStop != nil {
		c.typingStop.Stop()
		c.typingStop = nil
	}
	if isTyping {
		c.typingStop = time.AfterFunc(c.resetDelay, c.autoReset)
	}
	c.mu.Unlock()

	return c.ch.Track(State{UserID: c.selfID, IsTyping: isTyping, LastSeenAt: time.Now()})
}

func (c *Conversation) autoReset() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.typingStop = nil
	c.mu.Unlock()
	_ = c.ch.Track(State{UserID: c.selfID, IsTyping: false, LastSeenAt: time.Now()})
}

// Close tears down the subscription. No further announcements are sent and a
// pending typing withdrawal is discarded.
func (c *Conversation) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.typingStop != nil {
		c.typingStop.Stop()
		c.typingStop = nil
	}
	c.mu.Unlock()
	return c.ch.Unsubscribe()
}
