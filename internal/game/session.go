// internal/game/session.go
package game

import (
	"errors"
	"sync"

	"github.com/jason-s-yu/gofish/internal/deck"
	"github.com/jason-s-yu/gofish/internal/models"
)

// ErrNameTaken is returned by AddPlayer when the sanitized name is already on
// the roster.
var ErrNameTaken = errors.New("username taken")

// Session is the single shared game table: the roster, the turn pointer and
// the draw pile. One instance is created at startup and injected into every
// connection handler.
//
// All methods assume the caller holds Mu. The connection read loop locks once
// per inbound event, so every event is handled atomically with respect to the
// others (no handler suspends mid-mutation).
type Session struct {
	Mu sync.Mutex

	deck    *deck.Deck
	pile    *deck.Hand
	players []*models.Player
	turn    *int

	// BroadcastFn delivers an event to every connected client, including the
	// one whose action produced it. Injected by the transport layer; nil is
	// tolerated (events are dropped), which the tests rely on.
	BroadcastFn func(ev Event)
}

// NewSession builds a session whose pile holds the deck's entire card
// universe, shuffled once up front.
func NewSession(d *deck.Deck) *Session {
	pile := deck.NewFullHand(d)
	pile.Shuffle()
	return &Session{
		deck: d,
		pile: pile,
	}
}

// SuitCount is the number of suits in the deck, which is also the size of a
// starting hand.
func (s *Session) SuitCount() int {
	return len(s.deck.Suits)
}

// PileSize reports how many cards remain in the draw pile.
func (s *Session) PileSize() int {
	return s.pile.Len()
}

// Players returns the live roster slice. Callers must hold Mu and must not
// mutate it.
func (s *Session) Players() []*models.Player {
	return s.players
}

// HasPlayer reports whether a player with the given sanitized name is on the
// roster.
func (s *Session) HasPlayer(name string) bool {
	for _, p := range s.players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// AddPlayer appends a new player with an empty hand to the roster. It never
// starts a turn; the caller triggers AdvanceTurn only after the new player
// successfully draws a starting hand.
func (s *Session) AddPlayer(name string) (*models.Player, error) {
	if s.HasPlayer(name) {
		return nil, ErrNameTaken
	}
	p := &models.Player{
		Name:  name,
		Ranks: []string{},
		Hand:  deck.NewHand(),
	}
	s.players = append(s.players, p)
	return p, nil
}

// AdvanceTurn re-derives the turn pointer: nil with one or zero players,
// otherwise the first player when no turn was assigned yet, otherwise the
// next player modulo the live player count. When a turn is assigned, a
// "<name>'s turn" status is broadcast to every connection.
func (s *Session) AdvanceTurn() {
	if len(s.players) <= 1 {
		s.turn = nil
		return
	}
	if s.turn == nil {
		first := 0
		s.turn = &first
	} else {
		next := (*s.turn + 1) % len(s.players)
		s.turn = &next
	}
	s.broadcast(Event{
		Type:    EventStatus,
		Message: s.players[*s.turn].Name + "'s turn",
		Game:    s.Snapshot(),
	})
}

// RemovePlayer takes p off the roster and repairs the turn pointer. When the
// departing player held the turn, or only one player remains, the turn is
// re-derived via AdvanceTurn (possibly becoming nil). Otherwise the stored
// index is shifted to keep pointing at the same player in the shrunk list.
func (s *Session) RemovePlayer(p *models.Player) {
	i := -1
	for idx, pl := range s.players {
		if pl == p {
			i = idx
			break
		}
	}
	if i < 0 {
		return
	}
	s.players = append(s.players[:i], s.players[i+1:]...)

	switch {
	case len(s.players) <= 1:
		s.AdvanceTurn()
	case s.turn != nil && *s.turn == i:
		s.AdvanceTurn()
	case s.turn != nil && i < *s.turn:
		shifted := *s.turn - 1
		s.turn = &shifted
	}
}

// DealStartingHand draws one card per suit from the pile into p's hand, in
// pile order. When the pile holds fewer cards than there are suits, nothing
// is drawn and ok is false; the player keeps an empty hand.
func (s *Session) DealStartingHand(p *models.Player) (cards []deck.Card, ok bool) {
	n := s.SuitCount()
	if s.pile.Len() < n {
		return nil, false
	}
	cards = make([]deck.Card, 0, n)
	for i := 0; i < n; i++ {
		c, err := s.pile.Give()
		if err != nil {
			break
		}
		p.Hand.Take(c)
		cards = append(cards, c)
	}
	p.HandSize = p.Hand.Len()
	return cards, true
}

// Reclaim returns a departed player's cards to the pile: first everything
// still in their hand, then every card of each rank they had completed,
// pulled from whichever hand currently holds it. Each card is moved at most
// once, so a hand card of a completed rank is not double-counted. The pile is
// reshuffled afterwards. Returns the number of cards moved.
//
// Callers invoke this after RemovePlayer, so p is no longer on the roster.
func (s *Session) Reclaim(p *models.Player) int {
	moved := 0
	for _, c := range p.Hand.Cards() {
		p.Hand.Remove(c)
		s.pile.Take(c)
		moved++
	}
	p.HandSize = 0

	for _, rankName := range p.Ranks {
		rank, err := s.deck.RankByName(rankName)
		if err != nil {
			continue
		}
		for _, c := range rank.Cards {
			if s.pile.Contains(c) {
				continue
			}
			for _, other := range s.players {
				if other.Hand.Remove(c) {
					other.HandSize = other.Hand.Len()
					break
				}
			}
			s.pile.Take(c)
			moved++
		}
	}

	s.pile.Shuffle()
	return moved
}

// Snapshot builds the serializable session view broadcast with most events.
func (s *Session) Snapshot() *Snapshot {
	users := make([]*models.Player, len(s.players))
	copy(users, s.players)
	snap := &Snapshot{
		PileSize: s.pile.Len(),
		Users:    users,
	}
	if s.turn != nil {
		t := *s.turn
		snap.Turn = &t
	}
	return snap
}

// Turn returns the current turn index, or nil when no turn is assigned.
func (s *Session) Turn() *int {
	return s.turn
}

func (s *Session) broadcast(ev Event) {
	if s.BroadcastFn != nil {
		s.BroadcastFn(ev)
	}
}
