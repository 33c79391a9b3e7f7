package libcfd

import (
	"fmt"

	"github.com/argotunnel/libcfd/tunnelrpc/pogs"
)

// RegistrationError is re-exported so callers branching with errors.As
// don't need to import tunnelrpc/pogs directly. It carries cause,
// should_retry and retry_after verbatim from the rejection arm of the
// registration response (spec.md §4.3); nothing in this library acts on
// should_retry/retry_after (see SPEC_FULL.md §9, Open Question (a)).
type RegistrationError = pogs.RegistrationError

// SignatureError reports that a per-request stream opened with bytes
// other than the 8-byte framing magic (spec.md §7 SignatureMismatch).
type SignatureError struct {
	Observed []byte
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("libcfd: unknown signature: %x", e.Observed)
}

// SchemaDecodeError reports that an envelope failed to decode, or that
// its type/union discriminant was not recognized.
type SchemaDecodeError struct {
	Cause error
}

func (e *SchemaDecodeError) Error() string {
	return fmt.Sprintf("libcfd: envelope decode failed: %v", e.Cause)
}

func (e *SchemaDecodeError) Unwrap() error { return e.Cause }

// StreamClosedError reports that the transport surfaced EOF or a reset
// while framing was still in progress.
type StreamClosedError struct {
	Cause error
}

func (e *StreamClosedError) Error() string {
	return fmt.Sprintf("libcfd: stream closed during framing: %v", e.Cause)
}

func (e *StreamClosedError) Unwrap() error { return e.Cause }
