package sockets

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
)

type SocketID string

// Socket is a JSON message transport for one peer connection. WriteJSON is
// safe for concurrent use; the underlying websocket allows only one writer at
// a time and relays, pings and replies all write from different goroutines.
type Socket interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
	RemoteAddr() string
}

type socketImpl struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
}

func NewSocket(conn *websocket.Conn) Socket {
	return &socketImpl{ws: conn}
}

func (s *socketImpl) ReadJSON(v interface{}) error {
	return s.ws.ReadJSON(v)
}

func (s *socketImpl) WriteJSON(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.ws.WriteJSON(v)
}

func (s *socketImpl) Close() error {
	return s.ws.Close()
}

func (s *socketImpl) RemoteAddr() string {
	return s.ws.NetConn().RemoteAddr().String()
}
