// Package rpc owns the single bidirectional stream dedicated to the
// registration capability RPC and drives it from one cooperative
// goroutine, the way a capnp RPC engine must be driven: never from more
// than one task at a time. Callers on any goroutine enqueue work on a
// bounded channel; the driver goroutine dequeues one item at a time and
// races it against the engine's own termination.
package rpc

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	capnprpc "zombiezen.com/go/capnproto2/rpc"

	"github.com/argotunnel/libcfd/tunnelrpc/pogs"
	"github.com/argotunnel/libcfd/tunnelrpc/schema"
)

// callQueueDepth is the capacity of the driver's work-item channel.
// Calls beyond this depth block the submitting goroutine until the
// driver drains the backlog (spec.md §4.2/§5).
const callQueueDepth = 8

// call is a type-erased unit of work the driver executes against the
// bootstrap capability. It is the Go shape of the Rust original's
// Call/Task/CallTask trait trio: run does the work and returns a result
// or an error, with no knowledge of what the caller is waiting for.
type call func(ctx context.Context, bootstrap schema.RegistrationServer) (interface{}, error)

type callRequest struct {
	run    call
	result chan<- callResult
}

type callResult struct {
	value interface{}
	err   error
}

// Driver owns one bidirectional stream's worth of capnp RPC engine.
// It must be started with Run before any call method is used, and Run
// must be the only goroutine touching the underlying conn.
type Driver struct {
	requests chan callRequest
	log      *zerolog.Logger
}

// New builds a Driver bound to no stream yet; Run supplies the stream and
// blocks for the driver's lifetime.
func New(log *zerolog.Logger) *Driver {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Driver{
		requests: make(chan callRequest, callQueueDepth),
		log:      log,
	}
}

// Run drives the capnp RPC engine over stream as the client end of a
// two-party vat network until ctx is canceled or Close is called. It
// must be run in its own goroutine; RegisterConnection and other call
// methods are safe to invoke concurrently from any other goroutine while
// Run is active.
func (d *Driver) Run(ctx context.Context, stream io.ReadWriteCloser) error {
	transport := capnprpc.StreamTransport(stream)
	conn := capnprpc.NewConn(transport)
	defer conn.Close()

	bootstrapClient := conn.Bootstrap(ctx)
	bootstrap := schema.RegistrationServer{Client: bootstrapClient}

	// conn.Wait blocks until the vat network shuts down; run it on its
	// own goroutine, record its error, and close done so Run can select
	// on it alongside ctx and the work queue.
	var engineErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		engineErr = conn.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-done:
			return nil

		case req, ok := <-d.requests:
			if !ok {
				// Sender closed: half-close gracefully and let the
				// remote observe an orderly shutdown of the control
				// channel before we return.
				return conn.Close()
			}
			d.runOne(ctx, req, bootstrap, done, &engineErr)
		}
	}
}

// runOne executes req.run, racing it against the engine's own
// termination so that a call in flight when the connection dies gets
// the engine's error rather than hanging forever.
// engineErr is read only after done is closed.
func (d *Driver) runOne(ctx context.Context, req callRequest, bootstrap schema.RegistrationServer, done <-chan struct{}, engineErr *error) {
	resultCh := make(chan callResult, 1)
	go func() {
		value, err := req.run(ctx, bootstrap)
		resultCh <- callResult{value: value, err: err}
	}()

	select {
	case res := <-resultCh:
		req.result <- res
	case <-done:
		cause := *engineErr
		if cause == nil {
			cause = context.Canceled
		}
		req.result <- callResult{err: &TransportError{Cause: cause}}
	case <-ctx.Done():
		req.result <- callResult{err: &TransportError{Cause: ctx.Err()}}
	}
}

// Close drops the sender half of the work queue, which unblocks Run and
// lets it half-close the connection. It is safe to call once; calling it
// twice panics, matching "drop the channel" semantics having no
// idempotent analogue in Go.
func (d *Driver) Close() {
	close(d.requests)
}

// submit enqueues c and blocks until the driver goroutine has executed
// it and produced a result, or ctx is canceled first.
func (d *Driver) submit(ctx context.Context, c call) (interface{}, error) {
	resultCh := make(chan callResult, 1)
	select {
	case d.requests <- callRequest{run: c, result: resultCh}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-resultCh:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RegisterConnection issues the sole capability call this library needs:
// registerConnection on the bootstrap capability. It may be called from
// any goroutine once Run has started.
func (d *Driver) RegisterConnection(
	ctx context.Context,
	auth pogs.TunnelAuth,
	tunnelID uuid.UUID,
	connIndex uint8,
	options pogs.ConnectionOptions,
) (*pogs.ConnectionDetails, error) {
	value, err := d.submit(ctx, func(ctx context.Context, bootstrap schema.RegistrationServer) (interface{}, error) {
		promise := bootstrap.RegisterConnection(ctx, func(p schema.RegistrationServer_registerConnection_Params) error {
			return pogs.MarshalRegisterConnectionParams(p, auth, tunnelID, connIndex, options)
		})
		response, err := promise.Struct()
		if err != nil {
			return nil, &TransportError{Cause: err}
		}
		return pogs.UnmarshalConnectionResponse(response)
	})
	if err != nil {
		return nil, err
	}
	details, _ := value.(*pogs.ConnectionDetails)
	return details, nil
}

// TransportError wraps a failure of the RPC engine itself (as opposed to
// an application-level rejection arm of a response), matching spec.md
// §7's RpcTransport error kind.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return "tunnel rpc transport terminated: " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error { return e.Cause }
