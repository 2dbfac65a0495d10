package domain

import "time"

// Peer is a registered signalling participant. The live transport connection
// itself is owned by the socket pool; this record only carries metadata shown
// on the admin API and used for staleness decisions.
type Peer struct {
	ID          string
	ConnectedAt time.Time
	LastSeen    time.Time
}

type PeerRepository interface {
	Save(peer Peer) error
	GetByID(id string) (Peer, error)
	GetAll() ([]Peer, error)
	Touch(id string, at time.Time) error
	Delete(id string) error
}
