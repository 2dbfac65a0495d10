package api

import (
	"errors"
	"time"

	"github.com/wavecall/relay/internal/domain"
)

func ToApiPeer(p domain.Peer) Peer {
	return Peer{
		ID:          p.ID,
		ConnectedAt: p.ConnectedAt,
		LastSeen:    p.LastSeen,
	}
}

func ToApiPeers(peers []domain.Peer) []Peer {
	result := make([]Peer, len(peers))
	for i, p := range peers {
		result[i] = ToApiPeer(p)
	}
	return result
}

func ToApiCall(s domain.CallSession) Call {
	var answeredAt, endedAt *time.Time
	if !s.AnsweredAt.IsZero() {
		t := s.AnsweredAt
		answeredAt = &t
	}
	if !s.EndedAt.IsZero() {
		t := s.EndedAt
		endedAt = &t
	}

	return Call{
		ID:              s.ID,
		CallerID:        s.CallerID,
		ReceiverID:      s.ReceiverID,
		State:           string(s.State),
		StartedAt:       s.StartedAt,
		AnsweredAt:      answeredAt,
		EndedAt:         endedAt,
		Reason:          string(s.EndReason),
		DurationSeconds: int(s.Duration() / time.Second),
	}
}

func ToApiCalls(sessions []domain.CallSession) []Call {
	calls := make([]Call, len(sessions))
	for i, s := range sessions {
		calls[i] = ToApiCall(s)
	}
	return calls
}

// RejectCodeForError maps the domain error taxonomy to the wire rejection
// code, so clients can distinguish offline from conflict from not-found
// without string matching.
func RejectCodeForError(err error) RejectCode {
	switch {
	case errors.Is(err, domain.ErrPeerOffline):
		return RejectCodePeerOffline
	case errors.Is(err, domain.ErrSessionConflict):
		return RejectCodeConflict
	case errors.Is(err, domain.ErrInvalidState):
		return RejectCodeInvalidState
	case errors.Is(err, domain.ErrPeerNotFound), errors.Is(err, domain.ErrCallNotFound):
		return RejectCodeNotFound
	default:
		return RejectCodeProtocol
	}
}

// ToSignalMessage converts a relay instruction into its outbound wire form.
func ToSignalMessage(instr domain.RelayInstruction) SignalMessage {
	switch instr.Kind {
	case domain.RelayIncomingCall:
		return SignalMessage{
			Event:  SignalEventInitiate,
			CallID: instr.CallID,
			Initiate: &InitiateMessage{
				CallerID: instr.CallerID,
				Offer:    *instr.SDP,
			},
		}
	case domain.RelayAnswer:
		return SignalMessage{
			Event:  SignalEventAnswer,
			CallID: instr.CallID,
			Answer: &AnswerMessage{Answer: *instr.SDP},
		}
	case domain.RelayCandidate:
		return SignalMessage{
			Event:  SignalEventIce,
			CallID: instr.CallID,
			Ice:    &IceMessage{Candidate: *instr.Candidate},
		}
	case domain.RelayEndNotice:
		return SignalMessage{
			Event:  SignalEventEnd,
			CallID: instr.CallID,
			End:    &EndMessage{Reason: string(instr.Reason)},
		}
	}
	return SignalMessage{}
}
