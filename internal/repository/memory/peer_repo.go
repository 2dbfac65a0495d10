package memory

import (
	"sync"
	"time"

	"github.com/wavecall/relay/internal/domain"
)

type PeerRepository struct {
	peers map[string]domain.Peer
	mu    sync.RWMutex
}

func NewPeerRepository() *PeerRepository {
	return &PeerRepository{
		peers: make(map[string]domain.Peer),
	}
}

func (r *PeerRepository) Save(p domain.Peer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.peers[p.ID] = p
	return nil
}

func (r *PeerRepository) GetByID(id string) (domain.Peer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.peers[id]
	if !ok {
		return domain.Peer{}, domain.ErrPeerNotFound
	}
	return p, nil
}

func (r *PeerRepository) GetAll() ([]domain.Peer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	peers := make([]domain.Peer, 0, len(r.peers))
	for _, p := range r.peers {
		peers = append(peers, p)
	}
	return peers, nil
}

func (r *PeerRepository) Touch(id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.peers[id]
	if !ok {
		return domain.ErrPeerNotFound
	}
	p.LastSeen = at
	r.peers[id] = p
	return nil
}

// Delete is a silent no-op for unknown ids; disconnect events can arrive
// after cleanup already ran.
func (r *PeerRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.peers, id)
	return nil
}
