package searchlog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) Store {
	database, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		database.Close()
	})

	store, err := NewStore(database)
	require.NoError(t, err)
	return store
}

func TestRecordAndHistory(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Unix(1700000000, 0)
	events := []Event{
		{User: "alice", Kind: "team", Query: "river plate", Time: base},
		{User: "alice", Kind: "player", Query: "enzo perez", Time: base.Add(time.Minute)},
		{User: "bob", Kind: "team", Query: "boca juniors", Time: base},
	}
	for _, event := range events {
		require.NoError(t, store.Record(ctx, event))
	}

	history, err := store.History(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// newest first
	require.Equal(t, "enzo perez", history[0].Query)
	require.Equal(t, "player", history[0].Kind)
	require.Equal(t, base.Add(time.Minute).Unix(), history[0].Time.Unix())
	require.Equal(t, "river plate", history[1].Query)
}

func TestHistoryLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Unix(1700000000, 0)
	for i := 0; i < 4; i++ {
		err := store.Record(ctx, Event{
			User:  "alice",
			Kind:  "team",
			Query: "query",
			Time:  base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	history, err := store.History(ctx, "alice", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, base.Add(3*time.Minute).Unix(), history[0].Time.Unix())
}

func TestHistoryDefaultsTime(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	require.NoError(t, store.Record(ctx, Event{
		User:  "alice",
		Kind:  "prediction",
		Query: "river plate vs boca juniors",
	}))

	history, err := store.History(ctx, "alice", 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.False(t, history[0].Time.Before(before))
}

func TestHistoryEmpty(t *testing.T) {
	store := testStore(t)

	history, err := store.History(context.Background(), "nobody", 10)
	require.NoError(t, err)
	require.Empty(t, history)
}
