package peer_client

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/pion/webrtc/v4"

	"github.com/wavecall/relay/internal/api"
)

type Config struct {
	SignallingUrl string
}

// Client is a minimal signalling peer used for smoke-testing a relay
// deployment. It speaks the same socket protocol as a real endpoint but only
// ever produces offers; it never transmits media.
type Client struct {
	conn         *websocket.Conn
	peerID       string
	pcConfig     api.PeerConnectionConfig
	pingInterval time.Duration
}

// Dial connects to the relay as peerID and waits for the init_peer message.
func Dial(config Config, peerID string) (*Client, error) {
	url := getWebSocketUrl(config.SignallingUrl, peerID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("peer_client: dial %s: %w", url, err)
	}

	var initMessage api.SignalMessage
	if err := conn.ReadJSON(&initMessage); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if initMessage.Event != api.SignalEventInitPeer || initMessage.InitPeer == nil {
		_ = conn.Close()
		return nil, errors.New("peer_client: no init_peer message")
	}

	return &Client{
		conn:         conn,
		peerID:       peerID,
		pcConfig:     initMessage.InitPeer.PcConfig,
		pingInterval: time.Duration(initMessage.InitPeer.PingIntervalMsec) * time.Millisecond,
	}, nil
}

func (c *Client) PeerID() string {
	return c.peerID
}

// Call creates a local peer connection, sends an offer to receiverID and
// waits for the relay to accept the call. The returned call id identifies the
// session in subsequent ice and end messages. The caller owns the returned
// peer connection.
func (c *Client) Call(receiverID string) (string, *webrtc.PeerConnection, error) {
	peerConnection, err := webrtc.NewPeerConnection(webrtcConfiguration(c.pcConfig))
	if err != nil {
		return "", nil, err
	}

	if _, err = peerConnection.AddTransceiverFromKind(webrtc.RTPCodecTypeAudio); err != nil {
		_ = peerConnection.Close()
		return "", nil, err
	}

	createdOffer, err := peerConnection.CreateOffer(nil)
	if err != nil {
		_ = peerConnection.Close()
		return "", nil, err
	}
	if err = peerConnection.SetLocalDescription(createdOffer); err != nil {
		_ = peerConnection.Close()
		return "", nil, err
	}

	if err = c.conn.WriteJSON(api.SignalMessage{
		Event:    api.SignalEventInitiate,
		Initiate: &api.InitiateMessage{ReceiverID: receiverID, Offer: createdOffer},
	}); err != nil {
		_ = peerConnection.Close()
		return "", nil, err
	}

	for {
		message, err := c.Next()
		if err != nil {
			_ = peerConnection.Close()
			return "", nil, err
		}
		switch message.Event {
		case api.SignalEventInitiated:
			return message.CallID, peerConnection, nil
		case api.SignalEventReject:
			_ = peerConnection.Close()
			return "", nil, fmt.Errorf("peer_client: call rejected: %s", message.Reject.Code)
		}
	}
}

// End terminates callID from this side.
func (c *Client) End(callID string) error {
	return c.conn.WriteJSON(api.SignalMessage{
		Event:  api.SignalEventEnd,
		CallID: callID,
		End:    &api.EndMessage{},
	})
}

// Next reads the next signalling message, transparently answering keepalive
// pings from the relay.
func (c *Client) Next() (api.SignalMessage, error) {
	for {
		var message api.SignalMessage
		if err := c.conn.ReadJSON(&message); err != nil {
			return api.SignalMessage{}, err
		}
		if message.Event == api.SignalEventPing {
			if err := c.conn.WriteJSON(api.SignalMessage{Event: api.SignalEventPong}); err != nil {
				return api.SignalMessage{}, err
			}
			continue
		}
		return message, nil
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func getWebSocketUrl(baseUrl, peerID string) string {
	if strings.HasPrefix(baseUrl, "http") {
		baseUrl = "ws" + baseUrl[4:]
	}
	return baseUrl + "/ws/peers/" + peerID
}
