package api

import "github.com/pion/webrtc/v4"

type SignalEvent string

const (
	SignalEventInitPeer  = SignalEvent("init_peer")
	SignalEventInitiate  = SignalEvent("initiate")
	SignalEventInitiated = SignalEvent("initiate:ok")
	SignalEventAnswer    = SignalEvent("answer")
	SignalEventIce       = SignalEvent("ice")
	SignalEventEnd       = SignalEvent("end")
	SignalEventReject    = SignalEvent("reject")
	SignalEventPing      = SignalEvent("ping")
	SignalEventPong      = SignalEvent("pong")
)

type RejectCode string

const (
	RejectCodeNotFound     = RejectCode("not_found")
	RejectCodePeerOffline  = RejectCode("peer_offline")
	RejectCodeConflict     = RejectCode("conflict")
	RejectCodeInvalidState = RejectCode("invalid_state")
	RejectCodeProtocol     = RejectCode("protocol")
)

// SignalMessage is the envelope for every message on a peer socket, in both
// directions. Exactly one payload pointer is set, matching Event.
type SignalMessage struct {
	Event     SignalEvent       `json:"event"`
	CallID    string            `json:"callId,omitempty"`
	Initiate  *InitiateMessage  `json:"initiate,omitempty"`
	Initiated *InitiatedMessage `json:"initiated,omitempty"`
	Answer    *AnswerMessage    `json:"answer,omitempty"`
	Ice       *IceMessage       `json:"ice,omitempty"`
	End       *EndMessage       `json:"end,omitempty"`
	Reject    *RejectMessage    `json:"reject,omitempty"`
	InitPeer  *InitPeerMessage  `json:"initPeer,omitempty"`
	Ping      *PingMessage      `json:"ping,omitempty"`
}

// InitiateMessage starts a call. Client to server it carries the receiver and
// the SDP offer; server to receiver it additionally carries the caller id and
// the generated call id in the envelope.
type InitiateMessage struct {
	ReceiverID string                    `json:"receiverId,omitempty"`
	CallerID   string                    `json:"callerId,omitempty"`
	Offer      webrtc.SessionDescription `json:"offer"`
}

// InitiatedMessage acknowledges an accepted initiate to the caller. The call
// id is in the envelope; the caller needs it for ICE and end messages.
type InitiatedMessage struct {
	State string `json:"state"`
}

type AnswerMessage struct {
	Answer webrtc.SessionDescription `json:"answer"`
}

type IceMessage struct {
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

// EndMessage has no fields client to server; server to peer it carries the
// reason the call ended.
type EndMessage struct {
	Reason string `json:"reason,omitempty"`
}

type RejectMessage struct {
	Code    RejectCode `json:"code"`
	Message string     `json:"message,omitempty"`
}

type InitPeerMessage struct {
	PcConfig         PeerConnectionConfig `json:"pcConfig"`
	PingIntervalMsec int                  `json:"pingIntervalMsec"`
}

type PingMessage struct {
	Timestamp int64 `json:"timestamp"`
}
