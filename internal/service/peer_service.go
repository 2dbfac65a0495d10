package service

import (
	"time"

	"github.com/wavecall/relay/internal/domain"
	"github.com/wavecall/relay/internal/sockets"
)

// PeerService is the peer registry: it owns the mapping from peer id to live
// connection (via the socket pool) plus the peer metadata record. At most one
// live connection exists per peer id; registering over an existing one closes
// the old handle.
type PeerService struct {
	repo domain.PeerRepository
	pool *sockets.SocketPool
}

func NewPeerService(repo domain.PeerRepository, pool *sockets.SocketPool) *PeerService {
	return &PeerService{
		repo: repo,
		pool: pool,
	}
}

func (s *PeerService) Register(peerID string, soc sockets.Socket) error {
	s.pool.AddSocket(sockets.SocketID(peerID), soc)

	now := time.Now()
	return s.repo.Save(domain.Peer{
		ID:          peerID,
		ConnectedAt: now,
		LastSeen:    now,
	})
}

// Unregister removes the peer only if soc is still its current connection and
// reports whether it did. A stale disconnect after a reconnect replaced the
// handle is a no-op, so the replacement keeps its registration.
func (s *PeerService) Unregister(peerID string, soc sockets.Socket) bool {
	if !s.pool.RemoveSocket(sockets.SocketID(peerID), soc) {
		return false
	}
	_ = s.repo.Delete(peerID)
	return true
}

// Lookup returns the peer's live connection, or nil if offline.
func (s *PeerService) Lookup(peerID string) sockets.Socket {
	return s.pool.GetSocket(sockets.SocketID(peerID))
}

func (s *PeerService) Online(peerID string) bool {
	return s.Lookup(peerID) != nil
}

func (s *PeerService) Touch(peerID string) {
	_ = s.repo.Touch(peerID, time.Now())
}

func (s *PeerService) GetAll() ([]domain.Peer, error) {
	return s.repo.GetAll()
}
