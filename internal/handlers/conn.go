// internal/handlers/conn.go
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gofish/internal/game"
	"github.com/jason-s-yu/gofish/internal/journal"
	"github.com/jason-s-yu/gofish/internal/models"
	"github.com/jason-s-yu/gofish/internal/sanitize"
	"github.com/sirupsen/logrus"
)

// Publisher is the transport capability a ConnectionHandler emits through.
// The Hub implements it; tests substitute a recording fake.
type Publisher interface {
	EmitTo(id uuid.UUID, ev game.Event)
	BroadcastExcept(sender uuid.UUID, ev game.Event)
	BroadcastAll(ev game.Event)
}

// ConnectionHandler bridges one client connection to the shared session. It
// translates inbound events (join, chat, typing, disconnect) into session
// mutations and outbound emissions. Each handler is driven by a single read
// loop, so its own fields need no locking; session state is guarded by the
// session mutex, held for the whole of each event.
type ConnectionHandler struct {
	id      uuid.UUID
	session *game.Session
	pub     Publisher
	rec     journal.Recorder
	logger  *logrus.Logger

	joined bool
	player *models.Player
}

// NewConnectionHandler wires a handler for one connection.
func NewConnectionHandler(id uuid.UUID, s *game.Session, pub Publisher, rec journal.Recorder, logger *logrus.Logger) *ConnectionHandler {
	if rec == nil {
		rec = journal.Nop{}
	}
	return &ConnectionHandler{
		id:      id,
		session: s,
		pub:     pub,
		rec:     rec,
		logger:  logger,
	}
}

// Join runs the join protocol: sanitize the requested name, reject
// duplicates, add the player, deal a starting hand and start the turn cycle
// once a second player has drawn cards. A repeated join on the same
// connection is a no-op, as is an empty name.
func (ch *ConnectionHandler) Join(rawUsername string) {
	ch.session.Mu.Lock()
	defer ch.session.Mu.Unlock()

	if ch.joined {
		return
	}
	username := sanitize.Escape(strings.ToLower(strings.TrimSpace(rawUsername)))
	if username == "" {
		return
	}
	if ch.session.HasPlayer(username) {
		ch.pub.EmitTo(ch.id, game.Event{Type: game.EventUsernameTaken, Username: username})
		return
	}

	p, err := ch.session.AddPlayer(username)
	if err != nil {
		ch.logger.Warnf("Connection %s: failed to add player %q: %v", ch.id, username, err)
		return
	}
	ch.player = p
	ch.joined = true
	ch.logger.Infof("Player %q joined on connection %s", username, ch.id)

	snap := ch.session.Snapshot()
	ch.pub.EmitTo(ch.id, game.Event{Type: game.EventJoined, Username: username, Game: snap})
	ch.pub.BroadcastExcept(ch.id, game.Event{Type: game.EventUserJoined, Username: username, Game: snap})

	if cards, ok := ch.session.DealStartingHand(p); ok {
		// Drawn cards are revealed to the drawer only, one event per card in
		// the order they left the pile.
		for _, c := range cards {
			ch.pub.EmitTo(ch.id, game.Event{Type: game.EventTake, Rank: c.Rank, Suit: c.Suit})
		}
		n := ch.session.SuitCount()
		snap = ch.session.Snapshot()
		ch.pub.EmitTo(ch.id, game.Event{
			Type:    game.EventStatus,
			Message: fmt.Sprintf("You draw %d cards", n),
			Game:    snap,
		})
		ch.pub.BroadcastExcept(ch.id, game.Event{
			Type:    game.EventStatus,
			Message: fmt.Sprintf("%s draws %d cards", username, n),
			Game:    snap,
		})
		if len(ch.session.Players()) > 1 && ch.session.Turn() == nil {
			// This join brought the table from solo to a playable game.
			ch.session.AdvanceTurn()
		}
	} else {
		snap = ch.session.Snapshot()
		ch.pub.EmitTo(ch.id, game.Event{
			Type:    game.EventStatus,
			Message: "Not enough cards in the pile for you \U0001F61E",
			Game:    snap,
		})
		ch.pub.BroadcastExcept(ch.id, game.Event{
			Type:    game.EventStatus,
			Message: fmt.Sprintf("Not enough cards in the pile for %s \U0001F61E", username),
			Game:    snap,
		})
	}

	ch.record("join", username)
}

// Chat sanitizes the text and relays it to everyone but the sender. There is
// no other validation; empty messages are still relayed.
func (ch *ConnectionHandler) Chat(rawMessage string) {
	msg := sanitize.Escape(rawMessage)
	ch.pub.BroadcastExcept(ch.id, game.Event{
		Type:     game.EventNewMessage,
		Username: ch.username(),
		Message:  msg,
	})
}

// Typing relays a typing indicator to everyone but the sender.
func (ch *ConnectionHandler) Typing() {
	ch.pub.BroadcastExcept(ch.id, game.Event{Type: game.EventTyping, Username: ch.username()})
}

// StopTyping relays the end of a typing indicator to everyone but the sender.
func (ch *ConnectionHandler) StopTyping() {
	ch.pub.BroadcastExcept(ch.id, game.Event{Type: game.EventStopTyping, Username: ch.username()})
}

// Disconnect removes the player from the roster, returns their cards to the
// pile and tells the table. Safe to call for connections that never joined,
// or whose player never drew a hand.
func (ch *ConnectionHandler) Disconnect() {
	ch.session.Mu.Lock()
	defer ch.session.Mu.Unlock()

	if !ch.joined {
		return
	}
	p := ch.player
	ch.joined = false

	// Roster removal first: a resulting turn re-derivation broadcasts its
	// status before any cards move, matching the event order clients expect.
	ch.session.RemovePlayer(p)
	reclaimed := ch.session.Reclaim(p)
	ch.logger.Infof("Player %q left; %d cards returned to the pile", p.Name, reclaimed)

	ch.pub.BroadcastExcept(ch.id, game.Event{
		Type:     game.EventUserLeft,
		Username: p.Name,
		Game:     ch.session.Snapshot(),
	})

	ch.record("leave", p.Name)
}

// username is the joined player's name, or empty for connections that have
// not joined (their chat/typing relays still go out, unnamed, as the source
// behavior tolerates).
func (ch *ConnectionHandler) username() string {
	if ch.player != nil {
		return ch.player.Name
	}
	return ""
}

// record journals a roster change asynchronously. Best-effort: a journal
// failure is logged and otherwise ignored.
func (ch *ConnectionHandler) record(event, username string) {
	e := journal.Entry{
		Event:     event,
		Username:  username,
		PileSize:  ch.session.PileSize(),
		Players:   len(ch.session.Players()),
		Turn:      ch.session.Turn(),
		Timestamp: time.Now().Unix(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := ch.rec.Record(ctx, e); err != nil {
			ch.logger.Warnf("Journal record failed for %s/%s: %v", e.Event, e.Username, err)
		}
	}()
}
