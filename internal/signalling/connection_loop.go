package signalling

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wavecall/relay/internal/api"
	"github.com/wavecall/relay/internal/sockets"
)

// ConnectionLoop runs the outbound side of a peer connection: a writer
// goroutine draining a message channel so handlers never block on a slow
// socket, and a ping loop that keeps the connection alive and detects dead
// peers.
type ConnectionLoop struct {
	socket   sockets.Socket
	peerID   string
	messages chan interface{}
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	interval time.Duration
}

func NewConnectionLoop(socket sockets.Socket, peerID string, pingInterval time.Duration) *ConnectionLoop {
	ctx, cancel := context.WithCancel(context.Background())
	return &ConnectionLoop{
		socket:   socket,
		peerID:   peerID,
		messages: make(chan interface{}, 16),
		ctx:      ctx,
		cancel:   cancel,
		interval: pingInterval,
	}
}

func (l *ConnectionLoop) Start() {
	l.wg.Add(2)
	go l.writerLoop()
	go l.pingLoop()
}

func (l *ConnectionLoop) Stop() {
	l.cancel()
	l.wg.Wait()
}

// Send queues a message for the writer goroutine. Messages queued after Stop
// are discarded.
func (l *ConnectionLoop) Send(msg interface{}) {
	select {
	case l.messages <- msg:
	case <-l.ctx.Done():
	}
}

func (l *ConnectionLoop) writerLoop() {
	defer l.wg.Done()
	for {
		select {
		case msg := <-l.messages:
			if err := l.socket.WriteJSON(msg); err != nil {
				slog.Debug("failed to write to peer", "peerID", l.peerID, "error", err)
				// unblock Send callers; the read loop will notice the dead
				// connection and tear the session down
				l.cancel()
				return
			}
		case <-l.ctx.Done():
			return
		}
	}
}

func (l *ConnectionLoop) pingLoop() {
	defer l.wg.Done()
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Send(api.SignalMessage{
				Event: api.SignalEventPing,
				Ping:  &api.PingMessage{Timestamp: time.Now().Unix()},
			})
		case <-l.ctx.Done():
			return
		}
	}
}
