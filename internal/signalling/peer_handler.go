package signalling

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/wavecall/relay/internal/api"
	"github.com/wavecall/relay/internal/config"
	"github.com/wavecall/relay/internal/domain"
	"github.com/wavecall/relay/internal/metrics"
	"github.com/wavecall/relay/internal/service"
)

// PeerHandler owns the peer WebSocket endpoint. Each connection gets one read
// loop, so a peer's messages are processed in arrival order; replies and
// rejections go back through the connection's own writer loop, while relays
// write directly to the target peer's socket.
type PeerHandler struct {
	cfg      *config.Manager
	peers    *service.PeerService
	router   *service.SignallingService
	sessions *SessionHandler
}

func NewPeerHandler(
	cfg *config.Manager,
	peers *service.PeerService,
	router *service.SignallingService,
	sessions *SessionHandler,
) *PeerHandler {
	return &PeerHandler{
		cfg:      cfg,
		peers:    peers,
		router:   router,
		sessions: sessions,
	}
}

func (h *PeerHandler) HandleSocket(c *websocket.Conn) {
	peerID := c.Params("id")
	if peerID == "" {
		_ = c.Close()
		return
	}

	session := h.sessions.RegisterPeerSession(c, peerID)
	defer session.Cleanup()

	cfg := h.cfg.Get()
	pingInterval := time.Duration(cfg.Server.PingIntervalMsec) * time.Millisecond

	loop := NewConnectionLoop(session.Socket, peerID, pingInterval)
	loop.Start()
	defer loop.Stop()

	defer h.teardown(session)

	loop.Send(api.SignalMessage{
		Event: api.SignalEventInitPeer,
		InitPeer: &api.InitPeerMessage{
			PcConfig:         cfg.WebRTC.PeerConnectionConfig,
			PingIntervalMsec: cfg.Server.PingIntervalMsec,
		},
	})

	for {
		var message api.SignalMessage
		if err := session.Socket.ReadJSON(&message); err != nil {
			slog.Debug("peer disconnected", "peerID", peerID, "error", err)
			break
		}
		h.processMessage(loop, peerID, message)
	}
}

// teardown runs once the read loop exits. If this connection is still the
// peer's current one it is unregistered and every live call involving the
// peer ends with peer-lost; a connection that was already replaced by a
// reconnect must leave the replacement and its calls alone.
func (h *PeerHandler) teardown(session *Session) {
	if !h.peers.Unregister(session.PeerID, session.Socket) {
		return
	}
	for _, instr := range h.router.Disconnect(session.PeerID) {
		h.Deliver(instr)
	}
}

func (h *PeerHandler) processMessage(loop *ConnectionLoop, peerID string, m api.SignalMessage) {
	metrics.SignalMessagesTotal.WithLabelValues(string(m.Event), "in").Inc()

	switch m.Event {
	case api.SignalEventInitiate:
		h.handleInitiate(loop, peerID, m)
	case api.SignalEventAnswer:
		h.handleAnswer(loop, peerID, m)
	case api.SignalEventIce:
		h.handleIce(loop, peerID, m)
	case api.SignalEventEnd:
		h.handleEnd(loop, peerID, m)
	case api.SignalEventPong:
		h.peers.Touch(peerID)
	case api.SignalEventPing:
		loop.Send(api.SignalMessage{Event: api.SignalEventPong})
	default:
		h.reject(loop, m.CallID, fmt.Errorf("unknown event %q: %w", m.Event, domain.ErrProtocol))
	}
}

func (h *PeerHandler) handleInitiate(loop *ConnectionLoop, peerID string, m api.SignalMessage) {
	if m.Initiate == nil || m.Initiate.ReceiverID == "" {
		h.reject(loop, m.CallID, fmt.Errorf("initiate requires receiverId and offer: %w", domain.ErrProtocol))
		return
	}

	session, instr, err := h.router.Initiate(peerID, m.Initiate.ReceiverID, m.Initiate.Offer)
	if err != nil {
		h.reject(loop, "", err)
		return
	}

	h.Deliver(instr)
	loop.Send(api.SignalMessage{
		Event:     api.SignalEventInitiated,
		CallID:    session.ID,
		Initiated: &api.InitiatedMessage{State: string(session.State)},
	})
}

func (h *PeerHandler) handleAnswer(loop *ConnectionLoop, peerID string, m api.SignalMessage) {
	if m.CallID == "" || m.Answer == nil {
		h.reject(loop, m.CallID, fmt.Errorf("answer requires callId and answer: %w", domain.ErrProtocol))
		return
	}

	_, instr, err := h.router.Answer(peerID, m.CallID, m.Answer.Answer)
	if err != nil {
		h.reject(loop, m.CallID, err)
		return
	}
	h.Deliver(instr)
}

func (h *PeerHandler) handleIce(loop *ConnectionLoop, peerID string, m api.SignalMessage) {
	if m.CallID == "" || m.Ice == nil {
		h.reject(loop, m.CallID, fmt.Errorf("ice requires callId and candidate: %w", domain.ErrProtocol))
		return
	}

	instr, err := h.router.Candidate(peerID, m.CallID, m.Ice.Candidate)
	if err != nil {
		// Stray candidates arriving after the call ended are expected with
		// trickle ICE; drop them without bothering the sender.
		slog.Debug("dropping ice candidate", "peerID", peerID, "callID", m.CallID, "error", err)
		return
	}
	h.Deliver(instr)
}

func (h *PeerHandler) handleEnd(loop *ConnectionLoop, peerID string, m api.SignalMessage) {
	if m.CallID == "" {
		h.reject(loop, m.CallID, fmt.Errorf("end requires callId: %w", domain.ErrProtocol))
		return
	}

	_, instr, err := h.router.End(peerID, m.CallID)
	if err != nil {
		h.reject(loop, m.CallID, err)
		return
	}
	if instr != nil {
		h.Deliver(*instr)
	}
}

// Deliver sends a relay instruction to its target, best effort. The target
// being offline or its connection closing mid-write is logged and dropped;
// signalling messages are not guaranteed delivery and are never retried.
func (h *PeerHandler) Deliver(instr domain.RelayInstruction) {
	target := h.peers.Lookup(instr.TargetPeerID)
	if target == nil {
		slog.Debug("relay target offline", "targetID", instr.TargetPeerID, "kind", instr.Kind, "callID", instr.CallID)
		metrics.RelayFailuresTotal.Inc()
		return
	}

	msg := api.ToSignalMessage(instr)
	metrics.SignalMessagesTotal.WithLabelValues(string(msg.Event), "out").Inc()
	if err := target.WriteJSON(msg); err != nil {
		slog.Warn("relay delivery failed", "targetID", instr.TargetPeerID, "callID", instr.CallID, "error", err)
		metrics.RelayFailuresTotal.Inc()
	}
}

func (h *PeerHandler) reject(loop *ConnectionLoop, callID string, err error) {
	code := api.RejectCodeForError(err)
	metrics.RejectionsTotal.WithLabelValues(string(code)).Inc()
	metrics.SignalMessagesTotal.WithLabelValues(string(api.SignalEventReject), "out").Inc()

	loop.Send(api.SignalMessage{
		Event:  api.SignalEventReject,
		CallID: callID,
		Reject: &api.RejectMessage{Code: code, Message: err.Error()},
	})
}
