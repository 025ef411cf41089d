package sessions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-todo-client/sessions"
	fakesessionrepo "github.com/jrsteele09/go-todo-client/sessions/repofakes"
	"github.com/jrsteele09/go-todo-client/users"
)

func TestLoad_Empty(t *testing.T) {
	snap, err := sessions.Load(context.Background(), fakesessionrepo.NewFakeSessionRepo())
	require.NoError(t, err)
	require.Equal(t, sessions.Snapshot{}, snap)
}

func TestSaveLoadClear(t *testing.T) {
	ctx := context.Background()
	store := fakesessionrepo.NewFakeSessionRepo()
	want := sessions.Snapshot{
		Token: "abc",
		User:  &users.User{ID: 3, Email: "ada@example.com", Photo: "https://cdn.example.com/ada.png"},
	}

	require.NoError(t, sessions.Save(ctx, store, want))
	got, err := sessions.Load(ctx, store)
	require.NoError(t, err)
	require.Equal(t, want, got)

	t.Run("token only keeps the user snapshot", func(t *testing.T) {
		require.NoError(t, sessions.Save(ctx, store, sessions.Snapshot{Token: "def"}))
		got, err := sessions.Load(ctx, store)
		require.NoError(t, err)
		require.Equal(t, "def", got.Token)
		require.Equal(t, want.User, got.User)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, sessions.Clear(ctx, store))
		require.False(t, store.Has(sessions.KeyToken))
		require.False(t, store.Has(sessions.KeyUser))
		got, err := sessions.Load(ctx, store)
		require.NoError(t, err)
		require.Equal(t, sessions.Snapshot{}, got)
	})
}

func TestLoad_CorruptUserIsDropped(t *testing.T) {
	ctx := context.Background()
	store := fakesessionrepo.NewFakeSessionRepo()
	require.NoError(t, store.Set(ctx, map[string]string{sessions.KeyToken: "abc", sessions.KeyUser: "{not json"}))

	snap, err := sessions.Load(ctx, store)
	require.NoError(t, err)
	require.Equal(t, "abc", snap.Token)
	require.Nil(t, snap.User)
}

func TestLoad_StoreFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	store := fakesessionrepo.NewFakeSessionRepo()
	store.FailWith(boom)

	_, err := sessions.Load(context.Background(), store)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, sessions.Save(context.Background(), store, sessions.Snapshot{Token: "x"}), boom)
	require.ErrorIs(t, sessions.Clear(context.Background(), store), boom)
}
