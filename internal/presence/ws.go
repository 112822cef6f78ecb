package presence

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 50 * time.Second
	maxMessageSize = 4096
)

// wire protocol
type clientFrame struct {
	Type  string `json:"type"` // "track"
	State struct {
		IsTyping bool `json:"is_typing"`
	} `json:"state"`
}

type serverFrame struct {
	Type   string             `json:"type"` // "sync" | "join" | "leave"
	Key    string             `json:"key,omitempty"`
	States []State            `json:"states,omitempty"`
	State  map[string][]State `json:"state,omitempty"`
}

// ServeConn bridges one websocket connection onto a hub channel: incoming
// track frames update the member's keyed state, channel events stream back out
// as sync/join/leave frames. Blocks until the connection drops.
func ServeConn(hub *Hub, conn *websocket.Conn, channelID string, userID uint64, selfKey string) {
	ch, err := hub.Join(channelID, selfKey)
	if err != nil {
		_ = conn.Close()
		return
	}

	send := make(chan []byte, 32)
	push := func(f serverFrame) {
		b, err := json.Marshal(f)
		if err != nil {
			return
		}
		select {
		case send <- b:
		default:
			// slow consumer, drop the frame; the next sync carries full state
		}
	}

	ch.OnSync(func(state map[string][]State) {
		push(serverFrame{Type: "sync", State: state})
	})
	ch.OnJoin(func(key string, states []State) {
		push(serverFrame{Type: "join", Key: key, States: states})
	})
	ch.OnLeave(func(key string, states []State) {
		push(serverFrame{Type: "leave", Key: key, States: states})
	})

	// initial announce
	if err := ch.Track(State{UserID: userID, LastSeenAt: time.Now()}); err != nil {
		_ = ch.Unsubscribe()
		_ = conn.Close()
		return
	}

	done := make(chan struct{})

	// write pump
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case b, ok := <-send:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// read pump
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var f clientFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			log.Printf("presence: bad frame channel=%s key=%s err=%v", channelID, selfKey, err)
			continue
		}
		if f.Type != "track" {
			continue
		}
		if err := ch.Track(State{UserID: userID, IsTyping: f.State.IsTyping, LastSeenAt: time.Now()}); err != nil {
			break
		}
	}

	close(done)
	_ = ch.Unsubscribe()
	_ = conn.Close()
}
