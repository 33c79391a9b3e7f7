package libcfd

import (
	"sync"
	"sync/atomic"
	"time"
)

// RequestStream is the byte-level handle handed to the caller after
// RespondWith returns: the two halves of the bidirectional QUIC stream
// the envelope arrived on, exposed as a conventional readable/writable
// byte channel. Accept creates it and the framing layer reads the request
// envelope and writes the response envelope through it; once RespondWith
// has returned it, the framing layer never touches either half again
// (spec.md §4.5, §4.6).
type RequestStream struct {
	lock         sync.Mutex
	stream       quicStream
	writeTimeout time.Duration
	closing      atomic.Bool
}

func newRequestStream(stream quicStream, writeTimeout time.Duration) *RequestStream {
	return &RequestStream{stream: stream, writeTimeout: writeTimeout}
}

// Read implements io.Reader. No buffering is added beyond what quic-go
// itself provides (spec.md §4.6).
func (s *RequestStream) Read(p []byte) (int, error) {
	return s.stream.Read(p)
}

// Write implements io.Writer. Back-pressure from the transport is
// surfaced as ordinary blocking on Write, and a write timeout (if one
// has been set) cancels the write rather than hanging forever.
func (s *RequestStream) Write(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.writeTimeout > 0 {
		_ = s.stream.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	n, err := s.stream.Write(p)
	if err != nil && !s.closing.Load() {
		if netErr, ok := err.(interface{ Timeout() bool }); ok && netErr.Timeout() {
			s.stream.CancelWrite(0)
		}
	}
	return n, err
}

// CloseWrite half-closes the send direction only; the caller can still
// read any remaining bytes from the peer.
func (s *RequestStream) CloseWrite() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.stream.Close()
}

// Close closes both halves. ConnectRequest.Drop calls it to abandon a
// request without responding. Nothing calls it automatically: a
// ConnectRequest discarded without RespondWith or Drop leaves its stream
// open.
func (s *RequestStream) Close() error {
	s.closing.Store(true)
	_ = s.stream.SetWriteDeadline(time.Now())

	s.lock.Lock()
	defer s.lock.Unlock()

	s.stream.CancelRead(0)
	return s.stream.Close()
}
