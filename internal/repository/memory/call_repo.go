package memory

import (
	"hash/fnv"
	"sync"

	"github.com/wavecall/relay/internal/domain"
)

const callShardCount = 16

type callShard struct {
	mu       sync.RWMutex
	sessions map[string]domain.CallSession
}

// CallRepository is the in-memory call session table. Sessions are sharded by
// call id hash so transitions on unrelated calls never serialize on one lock.
// A separate pair index reserves the "one live call per peer pair" invariant:
// two concurrent Creates for the same pair serialize there, and exactly one
// wins.
type CallRepository struct {
	shards [callShardCount]callShard

	pairMu    sync.Mutex
	livePairs map[pairKey]string // unordered pair -> live call id
}

type pairKey struct {
	a, b string
}

func makePairKey(x, y string) pairKey {
	if x < y {
		return pairKey{a: x, b: y}
	}
	return pairKey{a: y, b: x}
}

func NewCallRepository() *CallRepository {
	r := &CallRepository{
		livePairs: make(map[pairKey]string),
	}
	for i := range r.shards {
		r.shards[i].sessions = make(map[string]domain.CallSession)
	}
	return r
}

func (r *CallRepository) shardFor(id string) *callShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &r.shards[h.Sum32()%callShardCount]
}

func (r *CallRepository) Create(s domain.CallSession) error {
	key := makePairKey(s.CallerID, s.ReceiverID)

	r.pairMu.Lock()
	if _, taken := r.livePairs[key]; taken {
		r.pairMu.Unlock()
		return domain.ErrSessionConflict
	}
	r.livePairs[key] = s.ID
	r.pairMu.Unlock()

	shard := r.shardFor(s.ID)
	shard.mu.Lock()
	shard.sessions[s.ID] = s
	shard.mu.Unlock()
	return nil
}

func (r *CallRepository) GetByID(id string) (domain.CallSession, error) {
	shard := r.shardFor(id)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	s, ok := shard.sessions[id]
	if !ok {
		return domain.CallSession{}, domain.ErrCallNotFound
	}
	return s, nil
}

func (r *CallRepository) Update(id string, fn func(*domain.CallSession) error) (domain.CallSession, error) {
	shard := r.shardFor(id)

	shard.mu.Lock()
	s, ok := shard.sessions[id]
	if !ok {
		shard.mu.Unlock()
		return domain.CallSession{}, domain.ErrCallNotFound
	}

	wasTerminal := s.Terminal()
	if err := fn(&s); err != nil {
		shard.mu.Unlock()
		return domain.CallSession{}, err
	}
	shard.sessions[id] = s
	shard.mu.Unlock()

	if !wasTerminal && s.Terminal() {
		r.releasePair(s)
	}
	return s, nil
}

func (r *CallRepository) releasePair(s domain.CallSession) {
	key := makePairKey(s.CallerID, s.ReceiverID)
	r.pairMu.Lock()
	if r.livePairs[key] == s.ID {
		delete(r.livePairs, key)
	}
	r.pairMu.Unlock()
}

func (r *CallRepository) GetAll() ([]domain.CallSession, error) {
	var sessions []domain.CallSession
	for i := range r.shards {
		shard := &r.shards[i]
		shard.mu.RLock()
		for _, s := range shard.sessions {
			sessions = append(sessions, s)
		}
		shard.mu.RUnlock()
	}
	return sessions, nil
}

func (r *CallRepository) GetByPeer(peerID string) ([]domain.CallSession, error) {
	var sessions []domain.CallSession
	for i := range r.shards {
		shard := &r.shards[i]
		shard.mu.RLock()
		for _, s := range shard.sessions {
			if s.Involves(peerID) {
				sessions = append(sessions, s)
			}
		}
		shard.mu.RUnlock()
	}
	return sessions, nil
}

func (r *CallRepository) Delete(id string) error {
	shard := r.shardFor(id)

	shard.mu.Lock()
	s, ok := shard.sessions[id]
	if !ok {
		shard.mu.Unlock()
		return domain.ErrCallNotFound
	}
	delete(shard.sessions, id)
	shard.mu.Unlock()

	if !s.Terminal() {
		r.releasePair(s)
	}
	return nil
}
