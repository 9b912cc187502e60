package plot

import (
	"context"
	"errors"
)

// Artifact is one rendered graph.
type Artifact struct {
	Name string
	PNG  []byte
}

// Host hands out rendering sessions.
type Host interface {
	Open(ctx context.Context) (Session, error)
}

// Session renders graphs until it is closed.
type Session interface {
	Render(ctx context.Context, r *Report, g Graph) (Artifact, error)
	Close() error
}

// ErrSessionClosed is returned when rendering through a closed session.
var ErrSessionClosed = errors.New("rendering session closed")
