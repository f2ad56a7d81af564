// internal/deck/hand.go
package deck

import (
	"errors"
	"math/rand"
)

// ErrEmptyHand is returned by Give when there is no card left to deal.
var ErrEmptyHand = errors.New("hand is empty")

// Hand is a mutable ordered collection of cards. A player's hand and the
// shared draw pile are both Hands; the pile is simply the ownerless one.
//
// Take and Remove are deliberately tolerant primitives: Take never checks for
// duplicates and Remove ignores absent cards. Conservation is the caller's
// responsibility and is enforced at the session level, where every
// hand-to-pile move goes through a single code path.
type Hand struct {
	cards []Card
}

// NewHand returns an empty hand.
func NewHand() *Hand {
	return &Hand{}
}

// NewFullHand returns a hand holding the deck's entire card universe, in
// catalog order. Used to build the pile at startup.
func NewFullHand(d *Deck) *Hand {
	return &Hand{cards: d.Cards()}
}

// Shuffle randomizes the order of the cards in place.
func (h *Hand) Shuffle() {
	rand.Shuffle(len(h.cards), func(i, j int) {
		h.cards[i], h.cards[j] = h.cards[j], h.cards[i]
	})
}

// Give removes and returns the first card in current order.
func (h *Hand) Give() (Card, error) {
	if len(h.cards) == 0 {
		return Card{}, ErrEmptyHand
	}
	c := h.cards[0]
	h.cards = h.cards[1:]
	return c, nil
}

// Take appends a card to the hand.
func (h *Hand) Take(c Card) {
	h.cards = append(h.cards, c)
}

// Remove deletes the first occurrence of c, reporting whether it was present.
func (h *Hand) Remove(c Card) bool {
	for i, have := range h.cards {
		if have == c {
			h.cards = append(h.cards[:i], h.cards[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether c is currently in the hand.
func (h *Hand) Contains(c Card) bool {
	for _, have := range h.cards {
		if have == c {
			return true
		}
	}
	return false
}

// Len reports the number of cards held.
func (h *Hand) Len() int {
	return len(h.cards)
}

// Cards returns a copy of the hand's contents in current order.
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}
