package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pawsquare/pawsquare/internal/presence"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// auth happens via the token check below; the websocket handshake cannot
	// carry an Authorization header from browsers
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ConversationPresence upgrades to a websocket on the conversation's presence
// channel. Only participants may join.
func (h *Handler) ConversationPresence(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	convID := c.Param("conversation_id")
	member, err := h.MessagingSvc.IsParticipant(c.Request.Context(), convID, uid)
	if err != nil || !member {
		notFound(c, "conversation not found")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("presence: upgrade failed conv=%s err=%v", convID, err)
		return
	}
	presence.ServeConn(h.Hub, conn, presence.ConversationChannel(convID), uid, strconv.FormatUint(uid, 10))
}

// GlobalPresence joins the app-wide online channel.
func (h *Handler) GlobalPresence(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("presence: upgrade failed channel=global err=%v", err)
		return
	}
	presence.ServeConn(h.Hub, conn, presence.GlobalChannel, uid, strconv.FormatUint(uid, 10))
}
