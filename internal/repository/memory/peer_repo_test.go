package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wavecall/relay/internal/domain"
)

func TestPeerRepository(t *testing.T) {
	repo := NewPeerRepository()
	now := time.Now()

	require.NoError(t, repo.Save(domain.Peer{ID: "alice", ConnectedAt: now, LastSeen: now}))

	p, err := repo.GetByID("alice")
	require.NoError(t, err)
	require.Equal(t, "alice", p.ID)

	_, err = repo.GetByID("bob")
	require.ErrorIs(t, err, domain.ErrPeerNotFound)

	later := now.Add(30 * time.Second)
	require.NoError(t, repo.Touch("alice", later))
	p, err = repo.GetByID("alice")
	require.NoError(t, err)
	require.Equal(t, later, p.LastSeen)

	require.ErrorIs(t, repo.Touch("bob", later), domain.ErrPeerNotFound)

	require.NoError(t, repo.Delete("alice"))
	_, err = repo.GetByID("alice")
	require.ErrorIs(t, err, domain.ErrPeerNotFound)

	// deleting an already removed peer is fine
	require.NoError(t, repo.Delete("alice"))

	peers, err := repo.GetAll()
	require.NoError(t, err)
	require.Empty(t, peers)
}
