package directory

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/wavecall/relay/internal/config"
	"github.com/wavecall/relay/internal/domain"
)

type directoryStub struct {
	mu       sync.Mutex
	peers    map[string]bool
	outcomes []callOutcomeBody
	apiKeys  []string
}

func (s *directoryStub) handle(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apiKeys = append(s.apiKeys, string(ctx.Request.Header.Peek("X-Api-Key")))

	path := string(ctx.Path())
	switch {
	case ctx.IsGet() && len(path) > len("/peers/") && path[:len("/peers/")] == "/peers/":
		if s.peers[path[len("/peers/"):]] {
			ctx.SetStatusCode(fasthttp.StatusOK)
		} else {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	case ctx.IsPost() && path == "/calls":
		var body callOutcomeBody
		if err := json.Unmarshal(ctx.PostBody(), &body); err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			return
		}
		s.outcomes = append(s.outcomes, body)
		ctx.SetStatusCode(fasthttp.StatusCreated)
	default:
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
}

func newStubDirectory(t *testing.T, stub *directoryStub) *HTTPDirectory {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: stub.handle}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	apiKey := "test-key"
	dir := NewHTTPDirectory(config.DirectoryConfig{
		BaseURL:     "http://directory.test",
		APIKey:      &apiKey,
		TimeoutMsec: 1000,
	})
	dir.client = &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}
	return dir
}

func TestHTTPDirectoryPeerExists(t *testing.T) {
	stub := &directoryStub{peers: map[string]bool{"alice": true}}
	dir := newStubDirectory(t, stub)

	exists, err := dir.PeerExists(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = dir.PeerExists(context.Background(), "nobody")
	require.NoError(t, err)
	require.False(t, exists)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Equal(t, []string{"test-key", "test-key"}, stub.apiKeys)
}

func TestHTTPDirectoryPeerExistsCancelledContext(t *testing.T) {
	dir := newStubDirectory(t, &directoryStub{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dir.PeerExists(ctx, "alice")
	require.ErrorIs(t, err, context.Canceled)
}

func TestHTTPDirectoryRecordCallOutcome(t *testing.T) {
	stub := &directoryStub{}
	dir := newStubDirectory(t, stub)

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := dir.RecordCallOutcome(context.Background(), domain.CallOutcome{
		CallID:     "c1",
		CallerID:   "alice",
		ReceiverID: "bob",
		Reason:     domain.EndReasonCompleted,
		StartedAt:  started,
		AnsweredAt: started.Add(2 * time.Second),
		EndedAt:    started.Add(62 * time.Second),
		Duration:   time.Minute,
	})
	require.NoError(t, err)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Len(t, stub.outcomes, 1)
	got := stub.outcomes[0]
	require.Equal(t, "c1", got.CallID)
	require.Equal(t, "completed", got.Status)
	require.Equal(t, "2026-03-01T12:00:00Z", got.StartedAt)
	require.Equal(t, "2026-03-01T12:00:02Z", got.AnsweredAt)
	require.Equal(t, 60, got.DurationSeconds)
}

func TestHTTPDirectoryRecordCallOutcomeUnanswered(t *testing.T) {
	stub := &directoryStub{}
	dir := newStubDirectory(t, stub)

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := dir.RecordCallOutcome(context.Background(), domain.CallOutcome{
		CallID:     "c2",
		CallerID:   "alice",
		ReceiverID: "bob",
		Reason:     domain.EndReasonTimeout,
		StartedAt:  started,
		EndedAt:    started.Add(45 * time.Second),
	})
	require.NoError(t, err)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Len(t, stub.outcomes, 1)
	require.Empty(t, stub.outcomes[0].AnsweredAt)
	require.Zero(t, stub.outcomes[0].DurationSeconds)
}
