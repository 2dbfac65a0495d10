package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ringingSession() CallSession {
	return CallSession{
		ID:         "call-1",
		CallerID:   "alice",
		ReceiverID: "bob",
		State:      CallStateRinging,
		StartedAt:  time.Now(),
	}
}

func TestCallSessionAnswer(t *testing.T) {
	s := ringingSession()
	answeredAt := s.StartedAt.Add(3 * time.Second)

	require.NoError(t, s.Answer(answeredAt))
	require.Equal(t, CallStateActive, s.State)
	require.Equal(t, answeredAt, s.AnsweredAt)

	// answering twice, or answering after hangup, is invalid
	require.ErrorIs(t, s.Answer(answeredAt), ErrInvalidState)
	s.End(answeredAt.Add(time.Second), EndReasonCompleted)
	require.ErrorIs(t, s.Answer(answeredAt), ErrInvalidState)
}

func TestCallSessionEndIsIdempotent(t *testing.T) {
	s := ringingSession()
	firstEnd := s.StartedAt.Add(5 * time.Second)

	require.True(t, s.End(firstEnd, EndReasonCallerCancelled))
	require.Equal(t, CallStateEnded, s.State)

	// the duplicate keeps the first end's time and reason
	require.False(t, s.End(firstEnd.Add(time.Minute), EndReasonTimeout))
	require.Equal(t, firstEnd, s.EndedAt)
	require.Equal(t, EndReasonCallerCancelled, s.EndReason)
}

func TestCallSessionDuration(t *testing.T) {
	s := ringingSession()

	require.Zero(t, s.Duration())

	// never answered means zero duration regardless of ring time
	unanswered := ringingSession()
	unanswered.End(unanswered.StartedAt.Add(45*time.Second), EndReasonTimeout)
	require.Zero(t, unanswered.Duration())

	require.NoError(t, s.Answer(s.StartedAt.Add(2*time.Second)))
	s.End(s.AnsweredAt.Add(90*time.Second), EndReasonCompleted)
	require.Equal(t, 90*time.Second, s.Duration())
}

func TestCallSessionOtherParty(t *testing.T) {
	s := ringingSession()

	other, ok := s.OtherParty("alice")
	require.True(t, ok)
	require.Equal(t, "bob", other)

	other, ok = s.OtherParty("bob")
	require.True(t, ok)
	require.Equal(t, "alice", other)

	_, ok = s.OtherParty("mallory")
	require.False(t, ok)
}

func TestCallSessionSamePair(t *testing.T) {
	s := ringingSession()

	require.True(t, s.SamePair("alice", "bob"))
	require.True(t, s.SamePair("bob", "alice"))
	require.False(t, s.SamePair("alice", "carol"))
}
