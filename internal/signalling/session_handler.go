package signalling

import (
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/wavecall/relay/internal/metrics"
	"github.com/wavecall/relay/internal/service"
	"github.com/wavecall/relay/internal/sockets"
)

type Session struct {
	PeerID  string
	Socket  sockets.Socket
	Cleanup func()
}

// SessionHandler opens and closes peer sessions: it wraps the raw websocket,
// registers the peer (closing any previous connection for the same id) and
// keeps the connection metrics straight.
type SessionHandler struct {
	peers *service.PeerService
}

func NewSessionHandler(peers *service.PeerService) *SessionHandler {
	return &SessionHandler{peers: peers}
}

func (h *SessionHandler) RegisterPeerSession(conn *websocket.Conn, peerID string) *Session {
	socket := sockets.NewSocket(conn)
	_ = h.peers.Register(peerID, socket)

	metrics.PeersOnline.Inc()
	metrics.PeerConnectionsTotal.Inc()

	cleanup := func() {
		metrics.PeersOnline.Dec()
		metrics.PeerDisconnectionsTotal.Inc()
		slog.Info("peer session closed", "peerID", peerID)
	}

	slog.Info("peer session started", "peerID", peerID, "addr", socket.RemoteAddr())

	return &Session{
		PeerID:  peerID,
		Socket:  socket,
		Cleanup: cleanup,
	}
}
