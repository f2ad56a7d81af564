package models

import (
	"github.com/jason-s-yu/gofish/internal/deck"
)

// Player is one roster entry. Name is already sanitized, trimmed and
// lowercased by the time a Player exists. HandSize mirrors Hand.Len() and is
// what gets broadcast; the hand contents stay private to the owner.
type Player struct {
	Name     string   `json:"name"`
	HandSize int      `json:"hand_size"`
	Ranks    []string `json:"ranks"`

	Hand *deck.Hand `json:"-"`
}
