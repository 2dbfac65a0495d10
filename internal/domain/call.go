package domain

import "time"

type CallState string

const (
	CallStateRinging = CallState("ringing")
	CallStateActive  = CallState("active")
	CallStateEnded   = CallState("ended")
)

type EndReason string

const (
	EndReasonCompleted        = EndReason("completed")
	EndReasonCallerCancelled  = EndReason("caller-cancelled")
	EndReasonReceiverRejected = EndReason("receiver-rejected")
	EndReasonTimeout          = EndReason("timeout")
	EndReasonPeerLost         = EndReason("peer-lost")
)

// CallSession is a single 1:1 call. State only moves forward:
// ringing -> active -> ended, or ringing -> ended. Nothing leaves ended.
type CallSession struct {
	ID         string
	CallerID   string
	ReceiverID string
	State      CallState
	StartedAt  time.Time
	AnsweredAt time.Time
	EndedAt    time.Time
	EndReason  EndReason
}

func (s *CallSession) Terminal() bool {
	return s.State == CallStateEnded
}

func (s *CallSession) Involves(peerID string) bool {
	return s.CallerID == peerID || s.ReceiverID == peerID
}

// OtherParty returns the counterpart of peerID in this call, or false if
// peerID is not a participant.
func (s *CallSession) OtherParty(peerID string) (string, bool) {
	switch peerID {
	case s.CallerID:
		return s.ReceiverID, true
	case s.ReceiverID:
		return s.CallerID, true
	}
	return "", false
}

// SamePair reports whether this call is between the given peers, in either
// direction.
func (s *CallSession) SamePair(a, b string) bool {
	return (s.CallerID == a && s.ReceiverID == b) || (s.CallerID == b && s.ReceiverID == a)
}

// Answer moves the call from ringing to active and stamps the answer time.
func (s *CallSession) Answer(now time.Time) error {
	if s.State != CallStateRinging {
		return ErrInvalidState
	}
	s.State = CallStateActive
	s.AnsweredAt = now
	return nil
}

// End moves the call to ended. Ending an already ended call is a no-op that
// keeps the original end time and reason; duplicate termination signals are
// expected from disconnect races. Returns whether the state changed.
func (s *CallSession) End(now time.Time, reason EndReason) bool {
	if s.State == CallStateEnded {
		return false
	}
	s.State = CallStateEnded
	s.EndedAt = now
	s.EndReason = reason
	return true
}

// Duration is talk time: ended minus answered. A call that was never answered
// has zero duration, however long it rang.
func (s *CallSession) Duration() time.Duration {
	if s.AnsweredAt.IsZero() || s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.AnsweredAt)
}

type CallRepository interface {
	// Create inserts a new session. It fails with ErrSessionConflict if a
	// non-terminal session already exists for the same unordered peer pair;
	// the existence check and the insert are a single critical section.
	Create(session CallSession) error
	GetByID(id string) (CallSession, error)
	// Update applies fn to the stored session under the session's lock and
	// returns the resulting snapshot. If fn returns an error the session is
	// left untouched.
	Update(id string, fn func(*CallSession) error) (CallSession, error)
	GetAll() ([]CallSession, error)
	GetByPeer(peerID string) ([]CallSession, error)
	Delete(id string) error
}
