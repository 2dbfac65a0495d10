package api

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/require"

	"github.com/wavecall/relay/internal/domain"
)

func TestToApiCall(t *testing.T) {
	started := time.Now()

	ringing := domain.CallSession{
		ID:         "c1",
		CallerID:   "alice",
		ReceiverID: "bob",
		State:      domain.CallStateRinging,
		StartedAt:  started,
	}
	call := ToApiCall(ringing)
	require.Equal(t, "ringing", call.State)
	require.Nil(t, call.AnsweredAt)
	require.Nil(t, call.EndedAt)
	require.Zero(t, call.DurationSeconds)

	completed := ringing
	completed.State = domain.CallStateEnded
	completed.AnsweredAt = started.Add(2 * time.Second)
	completed.EndedAt = started.Add(62 * time.Second)
	completed.EndReason = domain.EndReasonCompleted
	call = ToApiCall(completed)
	require.NotNil(t, call.AnsweredAt)
	require.NotNil(t, call.EndedAt)
	require.Equal(t, "completed", call.Reason)
	require.Equal(t, 60, call.DurationSeconds)

	// rejected before answer: ended but zero duration
	rejected := ringing
	rejected.State = domain.CallStateEnded
	rejected.EndedAt = started.Add(10 * time.Second)
	rejected.EndReason = domain.EndReasonReceiverRejected
	call = ToApiCall(rejected)
	require.Nil(t, call.AnsweredAt)
	require.NotNil(t, call.EndedAt)
	require.Zero(t, call.DurationSeconds)
}

func TestRejectCodeForError(t *testing.T) {
	tests := []struct {
		err  error
		code RejectCode
	}{
		{domain.ErrPeerOffline, RejectCodePeerOffline},
		{domain.ErrSessionConflict, RejectCodeConflict},
		{domain.ErrInvalidState, RejectCodeInvalidState},
		{domain.ErrPeerNotFound, RejectCodeNotFound},
		{domain.ErrCallNotFound, RejectCodeNotFound},
		{domain.ErrProtocol, RejectCodeProtocol},
		{errors.New("anything else"), RejectCodeProtocol},
		{fmt.Errorf("receiver bob: %w", domain.ErrPeerOffline), RejectCodePeerOffline},
	}

	for _, tc := range tests {
		require.Equal(t, tc.code, RejectCodeForError(tc.err), "error %v", tc.err)
	}
}

func TestToSignalMessage(t *testing.T) {
	offer := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0"}
	candidate := webrtc.ICECandidateInit{Candidate: "candidate:0"}

	msg := ToSignalMessage(domain.RelayInstruction{
		Kind:     domain.RelayIncomingCall,
		CallID:   "c1",
		CallerID: "alice",
		SDP:      &offer,
	})
	require.Equal(t, SignalEventInitiate, msg.Event)
	require.Equal(t, "c1", msg.CallID)
	require.NotNil(t, msg.Initiate)
	require.Equal(t, "alice", msg.Initiate.CallerID)
	require.Equal(t, offer, msg.Initiate.Offer)

	msg = ToSignalMessage(domain.RelayInstruction{Kind: domain.RelayAnswer, CallID: "c1", SDP: &offer})
	require.Equal(t, SignalEventAnswer, msg.Event)
	require.NotNil(t, msg.Answer)

	msg = ToSignalMessage(domain.RelayInstruction{Kind: domain.RelayCandidate, CallID: "c1", Candidate: &candidate})
	require.Equal(t, SignalEventIce, msg.Event)
	require.NotNil(t, msg.Ice)
	require.Equal(t, candidate, msg.Ice.Candidate)

	msg = ToSignalMessage(domain.RelayInstruction{Kind: domain.RelayEndNotice, CallID: "c1", Reason: domain.EndReasonTimeout})
	require.Equal(t, SignalEventEnd, msg.Event)
	require.NotNil(t, msg.End)
	require.Equal(t, "timeout", msg.End.Reason)
}
