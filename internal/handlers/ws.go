// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/gofish/internal/game"
	"github.com/jason-s-yu/gofish/internal/journal"
	"github.com/jason-s-yu/gofish/internal/middleware"
	"github.com/sirupsen/logrus"
)

// ClientMessage is the structure of inbound WebSocket messages.
type ClientMessage struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

// GameWSHandler upgrades the HTTP connection to WebSocket, registers it with
// the hub and runs the read loop until the client goes away. The transport
// close is the disconnect signal: cleanup always runs when the loop exits,
// whatever the connection was doing.
func GameWSHandler(logger *logrus.Logger, session *game.Session, hub *Hub, rec journal.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"gofish"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "gofish" {
			c.Close(websocket.StatusPolicyViolation, "client must speak the gofish subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		connID := uuid.New()
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		client := hub.Register(connID, cancel)
		ch := NewConnectionHandler(connID, session, hub, rec, logger)

		go writePump(ctx, c, client, logger)

		readErr := readMessages(ctx, c, ch, logger)

		// Cleanup after the read loop exits for any reason.
		ch.Disconnect()
		hub.Unregister(connID)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
	}
}

// readMessages decodes inbound messages and routes them to the connection
// handler until the connection closes or the context is cancelled. The
// terminating error is returned for logging; normal closures yield nil.
func readMessages(ctx context.Context, c *websocket.Conn, ch *ConnectionHandler, logger *logrus.Logger) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			logger.Warnf("Connection %s: ignoring non-text message type %d", ch.id, typ)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Connection %s: invalid JSON: %v", ch.id, err)
			continue
		}

		switch msg.Type {
		case "join":
			ch.Join(msg.Username)
		case "new message":
			ch.Chat(msg.Message)
		case "typing":
			ch.Typing()
		case "stop typing":
			ch.StopTyping()
		default:
			logger.Warnf("Connection %s: unknown message type %q", ch.id, msg.Type)
		}
	}
}

// writePump drains the hub queue onto the socket and pings periodically. It
// exits when the queue closes, the context ends or a write fails; the read
// loop then observes the closure and triggers cleanup.
func writePump(ctx context.Context, c *websocket.Conn, client *hubClient, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-client.OutChan:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("Connection %s: write failed: %v", client.ID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("Connection %s: ping failed, assuming disconnect: %v", client.ID, err)
				return
			}
		}
	}
}
