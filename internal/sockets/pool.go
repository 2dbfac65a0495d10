package sockets

import "sync"

// SocketPool maps peer ids to their single live connection. Adding a socket
// for an id that already has one closes the old connection, so a peer never
// holds two live handles.
type SocketPool struct {
	mutex   sync.Mutex
	sockets map[SocketID]Socket
}

func NewSocketPool() *SocketPool {
	return &SocketPool{
		sockets: make(map[SocketID]Socket),
	}
}

func (p *SocketPool) AddSocket(id SocketID, soc Socket) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if oldConn, contains := p.sockets[id]; contains {
		_ = oldConn.Close()
	}
	p.sockets[id] = soc
}

// GetSocket returns the live connection for id, or nil if the peer is
// offline. The result reflects all completed Add/Remove calls: a lookup after
// a removal never returns the stale handle.
func (p *SocketPool) GetSocket(id SocketID) Socket {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if conn, contains := p.sockets[id]; contains {
		return conn
	}
	return nil
}

// RemoveSocket removes the mapping for id only if it still points at soc and
// reports whether it did. A handler that lost its slot to a reconnect must
// not tear down the replacement connection.
func (p *SocketPool) RemoveSocket(id SocketID, soc Socket) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	current, contains := p.sockets[id]
	if !contains || current != soc {
		return false
	}
	delete(p.sockets, id)
	_ = current.Close()
	return true
}

func (p *SocketPool) CloseSocket(id SocketID) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if oldConn, contains := p.sockets[id]; contains {
		_ = oldConn.Close()
		delete(p.sockets, id)
	}
}

func (p *SocketPool) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.sockets)
}

func (p *SocketPool) Close() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for _, conn := range p.sockets {
		_ = conn.Close()
	}
	p.sockets = make(map[SocketID]Socket)
}
