package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/wavecall/relay/internal/domain"
	"github.com/wavecall/relay/internal/metrics"
)

// PeerPresence is the slice of the peer registry the lifecycle manager needs.
type PeerPresence interface {
	Online(peerID string) bool
}

// CallService owns call sessions for their whole life: creation, transitions,
// timeout sweeps and garbage collection. Nothing else mutates a session.
type CallService struct {
	calls     domain.CallRepository
	peers     PeerPresence
	directory domain.Directory
}

func NewCallService(calls domain.CallRepository, peers PeerPresence, dir domain.Directory) *CallService {
	return &CallService{
		calls:     calls,
		peers:     peers,
		directory: dir,
	}
}

// Initiate creates a ringing session from caller to receiver. The receiver
// must be known to the directory and currently connected, and no other live
// session may exist for the pair; the conflict check and insert are atomic in
// the repository.
func (s *CallService) Initiate(callerID, receiverID string) (domain.CallSession, error) {
	if callerID == receiverID {
		return domain.CallSession{}, domain.ErrSelfCall
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := s.directory.PeerExists(ctx, receiverID)
	if err != nil {
		// Directory trouble must not take calling down; the registry check
		// below still guards against unknown receivers.
		slog.Warn("directory lookup failed, continuing with registry only",
			"receiverID", receiverID, "error", err)
	} else if !exists {
		return domain.CallSession{}, fmt.Errorf("receiver %s: %w", receiverID, domain.ErrPeerNotFound)
	}

	if !s.peers.Online(receiverID) {
		return domain.CallSession{}, fmt.Errorf("receiver %s: %w", receiverID, domain.ErrPeerOffline)
	}

	session := domain.CallSession{
		ID:         uuid.NewString(),
		CallerID:   callerID,
		ReceiverID: receiverID,
		State:      domain.CallStateRinging,
		StartedAt:  time.Now(),
	}
	if err := s.calls.Create(session); err != nil {
		return domain.CallSession{}, err
	}

	metrics.CallsInitiatedTotal.Inc()
	metrics.ActiveCalls.Inc()
	slog.Info("call initiated", "callID", session.ID, "callerID", callerID, "receiverID", receiverID)
	return session, nil
}

// Answer moves a ringing call to active.
func (s *CallService) Answer(callID string) (domain.CallSession, error) {
	now := time.Now()
	session, err := s.calls.Update(callID, func(cs *domain.CallSession) error {
		return cs.Answer(now)
	})
	if err != nil {
		return domain.CallSession{}, err
	}

	metrics.RingTime.Observe(session.AnsweredAt.Sub(session.StartedAt).Seconds())
	slog.Info("call answered", "callID", callID)
	return session, nil
}

// End terminates a call with the given reason. Ending an already ended call
// is accepted and ignored; the returned bool says whether this call actually
// performed the transition. The directory outcome is recorded exactly once,
// by whichever caller won.
func (s *CallService) End(callID string, reason domain.EndReason) (domain.CallSession, bool, error) {
	now := time.Now()
	changed := false
	session, err := s.calls.Update(callID, func(cs *domain.CallSession) error {
		changed = cs.End(now, reason)
		return nil
	})
	if err != nil {
		return domain.CallSession{}, false, err
	}
	if !changed {
		return session, false, nil
	}

	metrics.ActiveCalls.Dec()
	metrics.CallsEndedTotal.WithLabelValues(string(session.EndReason)).Inc()
	if d := session.Duration(); d > 0 {
		metrics.CallDuration.Observe(d.Seconds())
	}
	slog.Info("call ended", "callID", callID, "reason", session.EndReason, "duration", session.Duration())

	s.recordOutcome(session)
	return session, true, nil
}

// EndAllForPeer terminates every non-terminal session involving peerID and
// returns the sessions it ended. Used on peer disconnect with peer-lost.
func (s *CallService) EndAllForPeer(peerID string, reason domain.EndReason) []domain.CallSession {
	sessions, err := s.calls.GetByPeer(peerID)
	if err != nil {
		return nil
	}

	var ended []domain.CallSession
	for _, cs := range sessions {
		if cs.Terminal() {
			continue
		}
		result, changed, err := s.End(cs.ID, reason)
		if err != nil || !changed {
			continue
		}
		ended = append(ended, result)
	}
	return ended
}

// ExpireStale ends ringing sessions older than ringingTimeout with reason
// timeout, and, when activeTimeout is non-zero, active sessions whose answer
// is older than activeTimeout. It returns the sessions it ended so the
// transport can notify the participants.
func (s *CallService) ExpireStale(now time.Time, ringingTimeout, activeTimeout time.Duration) []domain.CallSession {
	sessions, err := s.calls.GetAll()
	if err != nil {
		return nil
	}

	var expired []domain.CallSession
	for _, cs := range sessions {
		stale := false
		switch cs.State {
		case domain.CallStateRinging:
			stale = now.Sub(cs.StartedAt) > ringingTimeout
		case domain.CallStateActive:
			stale = activeTimeout > 0 && now.Sub(cs.AnsweredAt) > activeTimeout
		}
		if !stale {
			continue
		}

		result, changed, err := s.End(cs.ID, domain.EndReasonTimeout)
		if err != nil || !changed {
			continue
		}
		slog.Info("call expired", "callID", cs.ID, "state", cs.State)
		expired = append(expired, result)
	}
	return expired
}

// PurgeEnded drops terminal sessions older than retention from the table.
func (s *CallService) PurgeEnded(now time.Time, retention time.Duration) {
	sessions, err := s.calls.GetAll()
	if err != nil {
		return
	}

	for _, cs := range sessions {
		if cs.Terminal() && now.Sub(cs.EndedAt) > retention {
			_ = s.calls.Delete(cs.ID)
		}
	}
}

func (s *CallService) Get(callID string) (domain.CallSession, error) {
	return s.calls.GetByID(callID)
}

// Recent returns sessions involving peerID (or all when peerID is empty),
// newest first, capped at limit.
func (s *CallService) Recent(peerID string, limit int) ([]domain.CallSession, error) {
	var sessions []domain.CallSession
	var err error
	if peerID == "" {
		sessions, err = s.calls.GetAll()
	} else {
		sessions, err = s.calls.GetByPeer(peerID)
	}
	if err != nil {
		return nil, err
	}

	slices.SortFunc(sessions, func(a, b domain.CallSession) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (s *CallService) recordOutcome(session domain.CallSession) {
	outcome := domain.CallOutcome{
		CallID:     session.ID,
		CallerID:   session.CallerID,
		ReceiverID: session.ReceiverID,
		Reason:     session.EndReason,
		StartedAt:  session.StartedAt,
		AnsweredAt: session.AnsweredAt,
		EndedAt:    session.EndedAt,
		Duration:   session.Duration(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.directory.RecordCallOutcome(ctx, outcome); err != nil {
			slog.Error("failed to record call outcome", "callID", outcome.CallID, "error", err)
		}
	}()
}
