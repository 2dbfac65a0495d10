package sockets

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSocket struct {
	closed atomic.Bool
}

func (f *fakeSocket) ReadJSON(v interface{}) error  { return nil }
func (f *fakeSocket) WriteJSON(v interface{}) error { return nil }
func (f *fakeSocket) RemoteAddr() string            { return "test" }

func (f *fakeSocket) Close() error {
	f.closed.Store(true)
	return nil
}

func TestSocketPoolAddReplacesAndClosesOld(t *testing.T) {
	pool := NewSocketPool()
	old := &fakeSocket{}
	replacement := &fakeSocket{}

	pool.AddSocket("alice", old)
	pool.AddSocket("alice", replacement)

	require.True(t, old.closed.Load())
	require.Same(t, replacement, pool.GetSocket("alice"))
	require.Equal(t, 1, pool.Len())
}

func TestSocketPoolGetOffline(t *testing.T) {
	pool := NewSocketPool()
	require.Nil(t, pool.GetSocket("nobody"))
}

func TestSocketPoolRemoveIdentityGuard(t *testing.T) {
	pool := NewSocketPool()
	stale := &fakeSocket{}
	current := &fakeSocket{}

	pool.AddSocket("alice", stale)
	pool.AddSocket("alice", current)

	// the handler of the replaced connection must not evict the new one
	require.False(t, pool.RemoveSocket("alice", stale))
	require.Same(t, current, pool.GetSocket("alice"))

	require.True(t, pool.RemoveSocket("alice", current))
	require.True(t, current.closed.Load())
	require.Nil(t, pool.GetSocket("alice"))

	require.False(t, pool.RemoveSocket("alice", current))
}

func TestSocketPoolClose(t *testing.T) {
	pool := NewSocketPool()
	a := &fakeSocket{}
	b := &fakeSocket{}
	pool.AddSocket("alice", a)
	pool.AddSocket("bob", b)

	pool.Close()

	require.True(t, a.closed.Load())
	require.True(t, b.closed.Load())
	require.Equal(t, 0, pool.Len())
}
