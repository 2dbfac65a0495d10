package domain

import (
	"context"
	"time"
)

// CallOutcome is the durable record of a finished call, handed to the
// directory service exactly once per terminal transition.
type CallOutcome struct {
	CallID     string
	CallerID   string
	ReceiverID string
	Reason     EndReason
	StartedAt  time.Time
	AnsweredAt time.Time
	EndedAt    time.Time
	Duration   time.Duration
}

// Directory is the external user-directory collaborator. PeerExists validates
// receiver identity before a registry lookup; RecordCallOutcome persists call
// history. Both are outside this process and may be slow or unavailable.
type Directory interface {
	PeerExists(ctx context.Context, peerID string) (bool, error)
	RecordCallOutcome(ctx context.Context, outcome CallOutcome) error
}
