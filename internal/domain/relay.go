package domain

import "github.com/pion/webrtc/v4"

type RelayKind string

const (
	RelayIncomingCall = RelayKind("incoming_call")
	RelayAnswer       = RelayKind("answer")
	RelayCandidate    = RelayKind("candidate")
	RelayEndNotice    = RelayKind("end_notice")
)

// RelayInstruction tells the transport layer to deliver a payload to a peer.
// It is transient: produced by the router, consumed immediately, never stored.
// Delivery is best effort; a target that went offline in the meantime is a
// logged condition, not an error, and is never retried.
type RelayInstruction struct {
	TargetPeerID string
	Kind         RelayKind
	CallID       string

	// CallerID is set for incoming_call so the receiver knows who is ringing.
	CallerID string

	SDP       *webrtc.SessionDescription
	Candidate *webrtc.ICECandidateInit
	Reason    EndReason
}
