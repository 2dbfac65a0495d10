package domain

import "errors"

// Signalling error taxonomy. Every error here is recoverable and scoped to the
// message that triggered it; callers match with errors.Is and report a
// structured rejection to the originating connection only.
var (
	ErrPeerNotFound    = errors.New("peer not found")
	ErrPeerOffline     = errors.New("peer has no live connection")
	ErrCallNotFound    = errors.New("call not found")
	ErrSessionConflict = errors.New("a call between these peers already exists")
	ErrInvalidState    = errors.New("transition not allowed from current call state")
	ErrProtocol        = errors.New("malformed or unrecognized message")
	ErrSelfCall        = errors.New("caller and receiver must differ")
)
