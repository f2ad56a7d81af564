// internal/journal/journal.go
package journal

import "context"

// Entry is one roster change pushed to the journal queue: who joined or
// left, and the table state after the event settled.
type Entry struct {
	Event     string `json:"event"`
	Username  string `json:"username"`
	PileSize  int    `json:"pile_size"`
	Players   int    `json:"players"`
	Turn      *int   `json:"turn"`
	Timestamp int64  `json:"timestamp"`
}

// Recorder receives journal entries. Recording is best-effort; a failed
// record never affects gameplay.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Nop discards every entry. Used when no Redis address is configured.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error { return nil }
