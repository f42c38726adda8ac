package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "mulalens:company:Betopia", Key("Betopia"))
}

func TestSessionStore_RoundTrip(t *testing.T) {
	s, err := NewSessionStoreWithPath(time.Minute, t.TempDir())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ctx := context.Background()

	_, found, err := s.Get(ctx, "Betopia")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "Betopia", []byte(`{"sentiment":"Mixed"}`)))

	data, found, err := s.Get(ctx, "Betopia")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"sentiment":"Mixed"}`, string(data))
}

func TestSessionStore_KeysAreScopedByName(t *testing.T) {
	s, err := NewSessionStoreWithPath(time.Minute, t.TempDir())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "Alpha", []byte(`{"a":1}`)))

	_, found, err := s.Get(ctx, "Beta")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionStore_OverwriteLastWriteWins(t *testing.T) {
	s, err := NewSessionStoreWithPath(time.Minute, t.TempDir())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "Alpha", []byte(`{"v":1}`)))
	require.NoError(t, s.Set(ctx, "Alpha", []byte(`{"v":2}`)))

	data, found, err := s.Get(ctx, "Alpha")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"v":2}`, string(data))
}
