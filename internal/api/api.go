package api

import "time"

// IceServer mirrors the RTCIceServer shape browsers expect in
// RTCPeerConnection configuration. Passed through to clients verbatim.
type IceServer struct {
	URLs       []string `json:"urls" yaml:"urls"`
	Username   string   `json:"username,omitempty" yaml:"username,omitempty"`
	Credential string   `json:"credential,omitempty" yaml:"credential,omitempty"`
}

type PeerConnectionConfig struct {
	IceServers []IceServer `json:"iceServers" yaml:"iceServers"`
}

func DefaultPeerConnectionConfig() PeerConnectionConfig {
	return PeerConnectionConfig{
		IceServers: []IceServer{
			{URLs: []string{"stun:stun.l.google.com:19302"}},
		},
	}
}

// Peer is the admin API view of a connected peer.
type Peer struct {
	ID          string    `json:"id"`
	ConnectedAt time.Time `json:"connectedAt"`
	LastSeen    time.Time `json:"lastSeen"`
}

// Call is the admin API view of a call session.
type Call struct {
	ID              string     `json:"callId"`
	CallerID        string     `json:"callerId"`
	ReceiverID      string     `json:"receiverId"`
	State           string     `json:"state"`
	StartedAt       time.Time  `json:"startedAt"`
	AnsweredAt      *time.Time `json:"answeredAt,omitempty"`
	EndedAt         *time.Time `json:"endedAt,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	DurationSeconds int        `json:"durationSeconds"`
}
