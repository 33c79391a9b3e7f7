package libcfd

import (
	"context"
	"io"
	"time"

	"github.com/quic-go/quic-go"
)

// quicStream narrows quic.Stream to the methods this package actually
// uses, so the in-process mock edge used by tests (spec.md §8) can stand
// in without a real UDP socket.
type quicStream interface {
	io.Reader
	io.Writer
	Close() error
	CancelRead(quic.StreamErrorCode)
	CancelWrite(quic.StreamErrorCode)
	SetWriteDeadline(time.Time) error
	SetDeadline(time.Time) error
}

// quicSession narrows quic.Connection the same way.
type quicSession interface {
	OpenStreamSync(ctx context.Context) (quicStream, error)
	AcceptStream(ctx context.Context) (quicStream, error)
	CloseWithError(code quic.ApplicationErrorCode, msg string) error
}

type quicSessionAdapter struct {
	conn quic.Connection
}

func wrapSession(conn quic.Connection) quicSession {
	return quicSessionAdapter{conn: conn}
}

func (a quicSessionAdapter) OpenStreamSync(ctx context.Context) (quicStream, error) {
	return a.conn.OpenStreamSync(ctx)
}

func (a quicSessionAdapter) AcceptStream(ctx context.Context) (quicStream, error) {
	return a.conn.AcceptStream(ctx)
}

func (a quicSessionAdapter) CloseWithError(code quic.ApplicationErrorCode, msg string) error {
	return a.conn.CloseWithError(code, msg)
}
