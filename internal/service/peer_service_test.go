package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wavecall/relay/internal/repository/memory"
	"github.com/wavecall/relay/internal/sockets"
)

// stubSocket must not be zero-size: the identity-guard test relies on two
// instances having distinct addresses, which Go does not guarantee for
// zero-size allocations.
type stubSocket struct{ _ byte }

func (stubSocket) ReadJSON(v interface{}) error  { return nil }
func (stubSocket) WriteJSON(v interface{}) error { return nil }
func (stubSocket) Close() error                  { return nil }
func (stubSocket) RemoteAddr() string            { return "test" }

func TestPeerServiceRegisterAndLookup(t *testing.T) {
	svc := NewPeerService(memory.NewPeerRepository(), sockets.NewSocketPool())
	soc := &stubSocket{}

	require.False(t, svc.Online("alice"))
	require.Nil(t, svc.Lookup("alice"))

	require.NoError(t, svc.Register("alice", soc))
	require.True(t, svc.Online("alice"))
	require.Same(t, soc, svc.Lookup("alice").(*stubSocket))

	peers, err := svc.GetAll()
	require.NoError(t, err)
	require.Len(t, peers, 1)
	require.Equal(t, "alice", peers[0].ID)
}

func TestPeerServiceUnregisterIdentityGuard(t *testing.T) {
	svc := NewPeerService(memory.NewPeerRepository(), sockets.NewSocketPool())
	stale := &stubSocket{}
	current := &stubSocket{}

	require.NoError(t, svc.Register("alice", stale))
	require.NoError(t, svc.Register("alice", current))

	// the replaced connection's teardown must leave the new registration alone
	require.False(t, svc.Unregister("alice", stale))
	require.True(t, svc.Online("alice"))

	require.True(t, svc.Unregister("alice", current))
	require.False(t, svc.Online("alice"))

	peers, err := svc.GetAll()
	require.NoError(t, err)
	require.Empty(t, peers)
}
