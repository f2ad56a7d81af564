package journal

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRecorderPushesEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rec := NewRedisRecorder(rdb, "test_events")

	turn := 0
	err := rec.Record(context.Background(), Entry{
		Event:     "join",
		Username:  "alice",
		PileSize:  48,
		Players:   2,
		Turn:      &turn,
		Timestamp: 1700000000,
	})
	require.NoError(t, err)

	vals, err := mr.List("test_events")
	require.NoError(t, err)
	require.Len(t, vals, 1)

	var got Entry
	require.NoError(t, json.Unmarshal([]byte(vals[0]), &got))
	assert.Equal(t, "join", got.Event)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, 48, got.PileSize)
	require.NotNil(t, got.Turn)
	assert.Equal(t, 0, *got.Turn)
}

func TestRedisRecorderPreservesOrder(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rec := NewRedisRecorder(rdb, "")

	for _, ev := range []string{"join", "join", "leave"} {
		require.NoError(t, rec.Record(context.Background(), Entry{Event: ev}))
	}

	vals, err := mr.List(DefaultQueueName)
	require.NoError(t, err)
	require.Len(t, vals, 3)

	var first, last Entry
	require.NoError(t, json.Unmarshal([]byte(vals[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(vals[2]), &last))
	assert.Equal(t, "join", first.Event)
	assert.Equal(t, "leave", last.Event)
}

func TestNopRecorder(t *testing.T) {
	assert.NoError(t, Nop{}.Record(context.Background(), Entry{Event: "join"}))
}
