// Package presence implements keyed presence channels with sync/join/leave
// semantics: every participant announces its own state under its own key, the
// channel replicates the full keyed state to all members on every membership
// or state change, and join/leave deltas are emitted alongside.
package presence

import "time"

// State is one participant's announced presence entry. It is ephemeral: it
// lives only inside an active channel and is dropped when the participant
// leaves or the channel is torn down.
type State struct {
	UserID     uint64    `json:"user_id"`
	IsTyping   bool      `json:"is_typing"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// Channel is the narrow surface a presence consumer needs. Any pub/sub system
// with keyed full-state sync plus join/leave deltas can implement it.
type Channel interface {
	// Track announces (or re-announces) this member's state under its own
	// key. Last write wins per key.
	Track(state State) error

	// OnSync registers a callback invoked with the full channel state,
	// keyed by member key, entries ordered oldest to most recent.
	OnSync(fn func(state map[string][]State))

	// OnJoin fires when a member first announces itself.
	OnJoin(fn func(key string, states []State))

	// OnLeave fires when a member disconnects or unsubscribes.
	OnLeave(fn func(key string, states []State))

	Unsubscribe() error
}

// Realtime hands out channel subscriptions. The in-process Hub implements it;
// a remote pub/sub adapter could as well.
type Realtime interface {
	Join(channelID, selfKey string) (Channel, error)
}

// Channel naming shared by server and clients.
const GlobalChannel = "global-presence"

func ConversationChannel(conversationID string) string {
	return "presence-" + conversationID
}
