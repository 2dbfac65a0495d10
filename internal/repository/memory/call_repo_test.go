package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wavecall/relay/internal/domain"
)

func newSession(id, caller, receiver string) domain.CallSession {
	return domain.CallSession{
		ID:         id,
		CallerID:   caller,
		ReceiverID: receiver,
		State:      domain.CallStateRinging,
		StartedAt:  time.Now(),
	}
}

func TestCallRepositoryCreateConflict(t *testing.T) {
	repo := NewCallRepository()

	require.NoError(t, repo.Create(newSession("c1", "alice", "bob")))

	// same pair, both directions
	require.ErrorIs(t, repo.Create(newSession("c2", "alice", "bob")), domain.ErrSessionConflict)
	require.ErrorIs(t, repo.Create(newSession("c3", "bob", "alice")), domain.ErrSessionConflict)

	// a different pair is unaffected
	require.NoError(t, repo.Create(newSession("c4", "alice", "carol")))
}

func TestCallRepositoryPairFreedOnTerminal(t *testing.T) {
	repo := NewCallRepository()

	require.NoError(t, repo.Create(newSession("c1", "alice", "bob")))

	_, err := repo.Update("c1", func(s *domain.CallSession) error {
		s.End(time.Now(), domain.EndReasonCompleted)
		return nil
	})
	require.NoError(t, err)

	// the ended session stays in the table but the pair is callable again
	require.NoError(t, repo.Create(newSession("c2", "bob", "alice")))

	got, err := repo.GetByID("c1")
	require.NoError(t, err)
	require.Equal(t, domain.CallStateEnded, got.State)
}

func TestCallRepositoryConcurrentCreateOneWins(t *testing.T) {
	repo := NewCallRepository()

	const attempts = 64
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(newSession(fmt.Sprintf("c%d", i), "alice", "bob"))
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
		} else {
			require.ErrorIs(t, err, domain.ErrSessionConflict)
		}
	}
	require.Equal(t, 1, created)
}

func TestCallRepositoryUpdate(t *testing.T) {
	repo := NewCallRepository()
	require.NoError(t, repo.Create(newSession("c1", "alice", "bob")))

	got, err := repo.Update("c1", func(s *domain.CallSession) error {
		return s.Answer(time.Now())
	})
	require.NoError(t, err)
	require.Equal(t, domain.CallStateActive, got.State)

	// a failing fn leaves the session untouched
	_, err = repo.Update("c1", func(s *domain.CallSession) error {
		return s.Answer(time.Now())
	})
	require.ErrorIs(t, err, domain.ErrInvalidState)
	got, err = repo.GetByID("c1")
	require.NoError(t, err)
	require.Equal(t, domain.CallStateActive, got.State)

	_, err = repo.Update("missing", func(s *domain.CallSession) error { return nil })
	require.ErrorIs(t, err, domain.ErrCallNotFound)
}

func TestCallRepositoryGetByPeer(t *testing.T) {
	repo := NewCallRepository()
	require.NoError(t, repo.Create(newSession("c1", "alice", "bob")))
	require.NoError(t, repo.Create(newSession("c2", "alice", "carol")))
	require.NoError(t, repo.Create(newSession("c3", "dave", "erin")))

	sessions, err := repo.GetByPeer("alice")
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	sessions, err = repo.GetByPeer("erin")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "c3", sessions[0].ID)

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestCallRepositoryDeleteReleasesLivePair(t *testing.T) {
	repo := NewCallRepository()
	require.NoError(t, repo.Create(newSession("c1", "alice", "bob")))

	require.NoError(t, repo.Delete("c1"))
	_, err := repo.GetByID("c1")
	require.ErrorIs(t, err, domain.ErrCallNotFound)

	require.NoError(t, repo.Create(newSession("c2", "alice", "bob")))

	require.ErrorIs(t, repo.Delete("missing"), domain.ErrCallNotFound)
}
