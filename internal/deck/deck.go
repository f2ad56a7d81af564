// internal/deck/deck.go
package deck

import (
	"errors"
	"fmt"
)

// ErrRankNotFound is returned by RankByName for an unknown rank name.
var ErrRankNotFound = errors.New("rank not found")

// Card is an immutable (rank, suit) pair. Two cards are the same card iff
// both fields are equal; the deck never produces duplicate pairs.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func (c Card) String() string {
	return c.Rank + " of " + c.Suit
}

// Rank groups every card sharing one rank name. The slice is populated once
// by NewDeck and treated as read-only afterwards.
type Rank struct {
	Name  string
	Cards []Card
}

// Deck is the immutable catalog of suits, ranks and the full card universe
// built from them. It is constructed once at startup and shared by every
// connection for the process lifetime.
type Deck struct {
	Suits []string
	Ranks []*Rank

	byName map[string]*Rank
}

// NewDeck builds the card universe from ordered suit and rank names:
// one card per (rank, suit) combination, len(suits)*len(ranks) in total.
func NewDeck(def Definition) *Deck {
	d := &Deck{
		Suits:  append([]string(nil), def.Suits...),
		byName: make(map[string]*Rank, len(def.Ranks)),
	}
	for _, rankName := range def.Ranks {
		r := &Rank{Name: rankName, Cards: make([]Card, 0, len(def.Suits))}
		for _, suit := range def.Suits {
			r.Cards = append(r.Cards, Card{Rank: rankName, Suit: suit})
		}
		d.Ranks = append(d.Ranks, r)
		d.byName[rankName] = r
	}
	return d
}

// RankByName looks up a rank by its name.
func (d *Deck) RankByName(name string) (*Rank, error) {
	r, ok := d.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRankNotFound, name)
	}
	return r, nil
}

// Size reports the total number of cards in the universe.
func (d *Deck) Size() int {
	return len(d.Suits) * len(d.Ranks)
}

// Cards returns a fresh slice holding every card in catalog order.
func (d *Deck) Cards() []Card {
	cards := make([]Card, 0, d.Size())
	for _, r := range d.Ranks {
		cards = append(cards, r.Cards...)
	}
	return cards
}
