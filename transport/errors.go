package transport

import "fmt"

// ResolutionError reports that a source or destination hint yielded no
// candidates at all, distinct from every candidate failing to connect.
type ResolutionError struct {
	Hint  string
	Cause error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("transport: could not resolve %s: %v", e.Hint, e.Cause)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// DialError reports that every resolved candidate failed either at the
// socket-bind stage or the QUIC-connect stage. Stage distinguishes
// spec.md §7's BindFailed from ConnectFailed.
type DialError struct {
	Stage string // "bind" or "connect"
	Cause error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("transport: %s failed: %v", e.Stage, e.Cause)
}

func (e *DialError) Unwrap() error { return e.Cause }

// TLSError reports that the pinned-root TLS client configuration could
// not be built (spec.md §7's TlsFailed). A failed handshake, including a
// certificate validation failure, is not reported as a TLSError: Dial
// returns it as a DialError with Stage "connect".
type TLSError struct {
	Cause error
}

func (e *TLSError) Error() string {
	return fmt.Sprintf("transport: tls failed: %v", e.Cause)
}

func (e *TLSError) Unwrap() error { return e.Cause }
