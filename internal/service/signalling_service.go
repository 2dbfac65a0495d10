package service

import (
	"fmt"

	"github.com/pion/webrtc/v4"
	"github.com/wavecall/relay/internal/domain"
)

// SignallingService is the router: it turns each inbound signalling message
// into a lifecycle transition plus a relay instruction, or an error for the
// sender. It references sessions but never owns them; all mutation goes
// through the CallService.
//
// Messages from one connection are processed in arrival order by the
// connection's read loop; the router imposes no ordering across calls.
type SignallingService struct {
	calls *CallService
	peers *PeerService
}

func NewSignallingService(calls *CallService, peers *PeerService) *SignallingService {
	return &SignallingService{
		calls: calls,
		peers: peers,
	}
}

// Initiate handles an initiate message from callerID. On success the offer is
// relayed to the receiver together with the generated call id.
func (s *SignallingService) Initiate(callerID, receiverID string, offer webrtc.SessionDescription) (domain.CallSession, domain.RelayInstruction, error) {
	session, err := s.calls.Initiate(callerID, receiverID)
	if err != nil {
		return domain.CallSession{}, domain.RelayInstruction{}, err
	}

	sdp := offer
	return session, domain.RelayInstruction{
		TargetPeerID: session.ReceiverID,
		Kind:         domain.RelayIncomingCall,
		CallID:       session.ID,
		CallerID:     session.CallerID,
		SDP:          &sdp,
	}, nil
}

// Answer handles an answer message. Only the receiver of a ringing call may
// answer; the SDP answer is relayed to the caller.
func (s *SignallingService) Answer(senderID, callID string, answer webrtc.SessionDescription) (domain.CallSession, domain.RelayInstruction, error) {
	session, err := s.lookupFor(senderID, callID)
	if err != nil {
		return domain.CallSession{}, domain.RelayInstruction{}, err
	}
	if senderID != session.ReceiverID {
		return domain.CallSession{}, domain.RelayInstruction{}, fmt.Errorf("answer from non-receiver: %w", domain.ErrInvalidState)
	}

	session, err = s.calls.Answer(callID)
	if err != nil {
		return domain.CallSession{}, domain.RelayInstruction{}, err
	}

	sdp := answer
	return session, domain.RelayInstruction{
		TargetPeerID: session.CallerID,
		Kind:         domain.RelayAnswer,
		CallID:       session.ID,
		SDP:          &sdp,
	}, nil
}

// Candidate relays a trickle ICE candidate verbatim to the other party.
// Candidates are valid while the call is ringing or active; one for an
// unknown or already ended call yields ErrCallNotFound, which the transport
// drops without a rejection since late candidates after hangup are routine.
func (s *SignallingService) Candidate(senderID, callID string, candidate webrtc.ICECandidateInit) (domain.RelayInstruction, error) {
	session, err := s.lookupFor(senderID, callID)
	if err != nil {
		return domain.RelayInstruction{}, err
	}
	if session.Terminal() {
		return domain.RelayInstruction{}, domain.ErrCallNotFound
	}

	target, _ := session.OtherParty(senderID)
	cand := candidate
	return domain.RelayInstruction{
		TargetPeerID: target,
		Kind:         domain.RelayCandidate,
		CallID:       session.ID,
		Candidate:    &cand,
	}, nil
}

// End handles an end message from senderID. The reason depends on who hung up
// and where the call stood: the caller abandoning a ringing call cancels it,
// the receiver declining rejects it, and either party ending an active call
// completes it. A second end for an already ended call is a no-op with no
// relay. The returned instruction, if any, notifies the other party.
func (s *SignallingService) End(senderID, callID string) (domain.CallSession, *domain.RelayInstruction, error) {
	session, err := s.lookupFor(senderID, callID)
	if err != nil {
		return domain.CallSession{}, nil, err
	}

	var reason domain.EndReason
	switch session.State {
	case domain.CallStateRinging:
		if senderID == session.CallerID {
			reason = domain.EndReasonCallerCancelled
		} else {
			reason = domain.EndReasonReceiverRejected
		}
	case domain.CallStateActive:
		reason = domain.EndReasonCompleted
	case domain.CallStateEnded:
		return session, nil, nil
	}

	session, changed, err := s.calls.End(callID, reason)
	if err != nil {
		return domain.CallSession{}, nil, err
	}
	if !changed {
		return session, nil, nil
	}

	target, _ := session.OtherParty(senderID)
	return session, &domain.RelayInstruction{
		TargetPeerID: target,
		Kind:         domain.RelayEndNotice,
		CallID:       session.ID,
		Reason:       session.EndReason,
	}, nil
}

// Disconnect ends every live call involving peerID with reason peer-lost and
// returns end notices for the surviving counterparts.
func (s *SignallingService) Disconnect(peerID string) []domain.RelayInstruction {
	ended := s.calls.EndAllForPeer(peerID, domain.EndReasonPeerLost)

	instructions := make([]domain.RelayInstruction, 0, len(ended))
	for _, session := range ended {
		target, ok := session.OtherParty(peerID)
		if !ok {
			continue
		}
		instructions = append(instructions, domain.RelayInstruction{
			TargetPeerID: target,
			Kind:         domain.RelayEndNotice,
			CallID:       session.ID,
			Reason:       session.EndReason,
		})
	}
	return instructions
}

// EndNotices builds notifications for both participants of a session ended
// without either of them asking, such as a timeout sweep.
func (s *SignallingService) EndNotices(session domain.CallSession) []domain.RelayInstruction {
	return []domain.RelayInstruction{
		{TargetPeerID: session.CallerID, Kind: domain.RelayEndNotice, CallID: session.ID, Reason: session.EndReason},
		{TargetPeerID: session.ReceiverID, Kind: domain.RelayEndNotice, CallID: session.ID, Reason: session.EndReason},
	}
}

// lookupFor fetches the session and hides its existence from non-participants.
func (s *SignallingService) lookupFor(senderID, callID string) (domain.CallSession, error) {
	session, err := s.calls.Get(callID)
	if err != nil {
		return domain.CallSession{}, err
	}
	if !session.Involves(senderID) {
		return domain.CallSession{}, domain.ErrCallNotFound
	}
	return session, nil
}
