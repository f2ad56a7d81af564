package game

import (
	"testing"

	"github.com/jason-s-yu/gofish/internal/deck"
	"github.com/jason-s-yu/gofish/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBroadcaster collects events instead of sending them over WS.
type mockBroadcaster struct {
	events []Event
}

func (mb *mockBroadcaster) broadcastFn(ev Event) {
	mb.events = append(mb.events, ev)
}

func (mb *mockBroadcaster) lastEvent() *Event {
	if len(mb.events) == 0 {
		return nil
	}
	return &mb.events[len(mb.events)-1]
}

func standardDeck() *deck.Deck {
	return deck.NewDeck(deck.Definition{
		Suits: []string{"clubs", "diamonds", "hearts", "spades"},
		Ranks: []string{"ace", "2", "3", "4", "5", "6", "7", "8", "9", "10", "jack", "queen", "king"},
	})
}

func newTestSession(t *testing.T) (*Session, *mockBroadcaster) {
	t.Helper()
	s := NewSession(standardDeck())
	mb := &mockBroadcaster{}
	s.BroadcastFn = mb.broadcastFn
	return s, mb
}

// assertConservation checks that every card is in exactly one place: the
// pile plus all hand sizes must add back up to the deck size.
func assertConservation(t *testing.T, s *Session) {
	t.Helper()
	total := s.PileSize()
	for _, p := range s.Players() {
		total += p.HandSize
	}
	assert.Equal(t, s.deck.Size(), total, "cards lost or duplicated")
}

func TestAddPlayerRejectsDuplicateName(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.AddPlayer("alice")
	require.NoError(t, err)

	_, err = s.AddPlayer("alice")
	require.ErrorIs(t, err, ErrNameTaken)
	assert.Len(t, s.Players(), 1)
}

func TestAddPlayerDoesNotStartTurn(t *testing.T) {
	s, mb := newTestSession(t)

	_, err := s.AddPlayer("alice")
	require.NoError(t, err)
	_, err = s.AddPlayer("bob")
	require.NoError(t, err)

	assert.Nil(t, s.Turn())
	assert.Empty(t, mb.events)
}

func TestAdvanceTurnRotation(t *testing.T) {
	s, mb := newTestSession(t)
	names := []string{"alice", "bob", "carol"}
	for _, n := range names {
		_, err := s.AddPlayer(n)
		require.NoError(t, err)
	}

	// First advance assigns index 0, then cycles 1, 2, 0, ...
	want := []int{0, 1, 2, 0, 1}
	for _, expected := range want {
		s.AdvanceTurn()
		require.NotNil(t, s.Turn())
		assert.Equal(t, expected, *s.Turn())

		ev := mb.lastEvent()
		require.NotNil(t, ev)
		assert.Equal(t, EventStatus, ev.Type)
		assert.Equal(t, names[expected]+"'s turn", ev.Message)
		require.NotNil(t, ev.Game)
		require.NotNil(t, ev.Game.Turn)
		assert.Equal(t, expected, *ev.Game.Turn)
	}
}

func TestAdvanceTurnSoloClearsTurn(t *testing.T) {
	s, mb := newTestSession(t)
	_, err := s.AddPlayer("alice")
	require.NoError(t, err)

	s.AdvanceTurn()
	assert.Nil(t, s.Turn())
	assert.Empty(t, mb.events, "no turn status should be broadcast for a solo table")
}

func TestRemovePlayerShiftsTurnIndex(t *testing.T) {
	s, _ := newTestSession(t)
	players := make([]*models.Player, 0, 3)
	for _, n := range []string{"alice", "bob", "carol"} {
		p, err := s.AddPlayer(n)
		require.NoError(t, err)
		players = append(players, p)
	}

	s.AdvanceTurn() // 0: alice
	s.AdvanceTurn() // 1: bob
	require.Equal(t, 1, *s.Turn())

	// Removing alice (index 0, not the turn holder) shifts bob to index 0;
	// the turn pointer must follow him.
	s.RemovePlayer(players[0])
	require.NotNil(t, s.Turn())
	assert.Equal(t, 0, *s.Turn())
	assert.Equal(t, "bob", s.Players()[*s.Turn()].Name)
}

func TestRemoveTurnHolderAdvancesTurn(t *testing.T) {
	s, _ := newTestSession(t)
	players := make([]*models.Player, 0, 3)
	for _, n := range []string{"alice", "bob", "carol"} {
		p, err := s.AddPlayer(n)
		require.NoError(t, err)
		players = append(players, p)
	}

	s.AdvanceTurn() // alice holds the turn
	require.Equal(t, 0, *s.Turn())

	s.RemovePlayer(players[0])
	require.NotNil(t, s.Turn())
	assert.Less(t, *s.Turn(), len(s.Players()))
	assert.GreaterOrEqual(t, *s.Turn(), 0)
}

func TestRemovePlayerDownToSoloClearsTurn(t *testing.T) {
	s, _ := newTestSession(t)
	alice, err := s.AddPlayer("alice")
	require.NoError(t, err)
	_, err = s.AddPlayer("bob")
	require.NoError(t, err)

	s.AdvanceTurn()
	require.NotNil(t, s.Turn())

	s.RemovePlayer(alice)
	assert.Nil(t, s.Turn())
	assert.Len(t, s.Players(), 1)
}

func TestDealStartingHand(t *testing.T) {
	s, _ := newTestSession(t)
	p, err := s.AddPlayer("alice")
	require.NoError(t, err)

	cards, ok := s.DealStartingHand(p)
	require.True(t, ok)
	assert.Len(t, cards, 4)
	assert.Equal(t, 4, p.HandSize)
	assert.Equal(t, 48, s.PileSize())
	assertConservation(t, s)
}

func TestDealStartingHandInsufficientPile(t *testing.T) {
	d := deck.NewDeck(deck.Definition{
		Suits: []string{"hearts", "spades"},
		Ranks: []string{"ace"},
	})
	s := NewSession(d)

	p1, err := s.AddPlayer("alice")
	require.NoError(t, err)
	_, ok := s.DealStartingHand(p1)
	require.True(t, ok)
	assert.Equal(t, 0, s.PileSize())

	// Only two cards existed; the second player draws nothing.
	p2, err := s.AddPlayer("bob")
	require.NoError(t, err)
	cards, ok := s.DealStartingHand(p2)
	assert.False(t, ok)
	assert.Empty(t, cards)
	assert.Equal(t, 0, p2.HandSize)
	assert.Nil(t, s.Turn())
	assertConservation(t, s)
}

func TestReclaimReturnsHandToPile(t *testing.T) {
	s, _ := newTestSession(t)
	alice, err := s.AddPlayer("alice")
	require.NoError(t, err)
	bob, err := s.AddPlayer("bob")
	require.NoError(t, err)

	_, ok := s.DealStartingHand(alice)
	require.True(t, ok)
	_, ok = s.DealStartingHand(bob)
	require.True(t, ok)
	require.Equal(t, 44, s.PileSize())

	s.RemovePlayer(alice)
	moved := s.Reclaim(alice)

	assert.Equal(t, 4, moved)
	assert.Equal(t, 48, s.PileSize())
	assert.Equal(t, 0, alice.HandSize)
	assertConservation(t, s)
}

func TestReclaimCountsRankCardsOnce(t *testing.T) {
	s, _ := newTestSession(t)
	alice, err := s.AddPlayer("alice")
	require.NoError(t, err)
	bob, err := s.AddPlayer("bob")
	require.NoError(t, err)

	// Hand-pick cards so the rank cleanup overlaps both alice's own hand and
	// bob's: alice holds two cards including an ace, bob holds another ace,
	// and alice has "completed" the ace rank.
	give := func(p *models.Player, c deck.Card) {
		require.True(t, s.pile.Remove(c))
		p.Hand.Take(c)
		p.HandSize = p.Hand.Len()
	}
	aceClubs := deck.Card{Rank: "ace", Suit: "clubs"}
	twoClubs := deck.Card{Rank: "2", Suit: "clubs"}
	aceSpades := deck.Card{Rank: "ace", Suit: "spades"}
	give(alice, aceClubs)
	give(alice, twoClubs)
	give(bob, aceSpades)
	alice.Ranks = []string{"ace"}
	require.Equal(t, 49, s.PileSize())

	s.RemovePlayer(alice)
	moved := s.Reclaim(alice)

	// Two hand cards plus bob's ace; the ace of clubs is not double-counted
	// and the aces already in the pile are untouched.
	assert.Equal(t, 3, moved)
	assert.Equal(t, 52, s.PileSize())
	assert.Equal(t, 0, bob.HandSize)
	assert.False(t, bob.Hand.Contains(aceSpades))
	assertConservation(t, s)
}

func TestReclaimSafeForEmptyHand(t *testing.T) {
	s, _ := newTestSession(t)
	alice, err := s.AddPlayer("alice")
	require.NoError(t, err)

	s.RemovePlayer(alice)
	assert.Zero(t, s.Reclaim(alice))
	assert.Equal(t, 52, s.PileSize())
}

func TestSnapshotShape(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.AddPlayer("alice")
	require.NoError(t, err)
	_, err = s.AddPlayer("bob")
	require.NoError(t, err)
	s.AdvanceTurn()

	snap := s.Snapshot()
	assert.Equal(t, 52, snap.PileSize)
	require.NotNil(t, snap.Turn)
	assert.Equal(t, 0, *snap.Turn)
	require.Len(t, snap.Users, 2)
	assert.Equal(t, "alice", snap.Users[0].Name)
}
