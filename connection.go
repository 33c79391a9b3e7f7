// Package libcfd establishes and maintains a persistent, bidirectionally
// multiplexed QUIC tunnel from an origin process to a cloud edge. Once a
// Connection is registered, the edge pushes inbound application requests
// over the tunnel as framed envelopes; the caller answers each one and
// receives the two stream halves as an opaque byte channel.
package libcfd

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/argotunnel/libcfd/credential"
	"github.com/argotunnel/libcfd/rpc"
	"github.com/argotunnel/libcfd/transport"
	"github.com/argotunnel/libcfd/tunnelrpc/pogs"
)

// registrationFeatures is the exact, order-preserving feature list every
// registration declares (spec.md §4.3).
var registrationFeatures = []string{
	"serialized_headers",
	"support_datagram_v2",
	"support_quic_eof",
	"management_logs",
}

// clientVersion is the opaque version string sent as
// options.client.version. It is not parsed by the edge for anything this
// library depends on (spec.md §9, Open Question (b)).
const clientVersion = "libcfd_0.1.0"

// state is the Connection lifecycle spec.md §4.4 names.
type state int32

const (
	stateUnregistered state = iota
	stateRegistering
	stateReady
	stateClosed
)

// Connection owns exactly one transport-level session to the edge. It is
// single-shot: construct with New, drain with repeated Accept calls,
// and Close when done.
type Connection struct {
	session   quicSession
	connIndex uint8
	log       *zerolog.Logger

	mu    sync.Mutex
	state state
}

// ConnectionDetails is the result of a successful registration
// (spec.md §3).
type ConnectionDetails = pogs.ConnectionDetails

// Options configures Connection.New beyond the required credential,
// connection index, source and destination.
type Options struct {
	// Log receives internal diagnostic events. A disabled logger is used
	// if nil (see SPEC_FULL.md §1's ambient-stack expansion).
	Log *zerolog.Logger
	// Transport tunes the QUIC dial (see transport.Options).
	Transport transport.Options
}

// New composes the transport factory, the RPC driver, and the
// registration step into a single Connection. It returns once
// registration has completed and the control stream is half-closed, so
// the RPC driver task has already terminated by the time the first
// Accept is legal (spec.md §3 Connection invariant (b), §4.4).
func New(ctx context.Context, cred *credential.TunnelCredential, connIndex uint8, src transport.Source, dst transport.Destination, opts Options) (*Connection, *ConnectionDetails, error) {
	log := opts.Log
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	session, err := transport.Dial(ctx, src, dst, opts.Transport)
	if err != nil {
		return nil, nil, err
	}
	wrapped := wrapSession(session)

	controlStream, err := wrapped.OpenStreamSync(ctx)
	if err != nil {
		wrapped.CloseWithError(quic.ApplicationErrorCode(0), "control stream failed")
		return nil, nil, &rpc.TransportError{Cause: err}
	}

	details, err := registerOverControlStream(ctx, log, controlStream, cred, connIndex)
	if err != nil {
		wrapped.CloseWithError(quic.ApplicationErrorCode(0), "registration failed")
		return nil, nil, err
	}

	log.Info().Str("location", details.Location).Str("uuid", details.UUID.String()).Msg("tunnel registered")

	return &Connection{
		session:   wrapped,
		connIndex: connIndex,
		log:       log,
		state:     stateReady,
	}, details, nil
}

// registerOverControlStream runs the RPC driver and the registration
// call concurrently, the way QUICConnection.Serve fans in its component
// loops with an errgroup, and returns only once both have finished: the
// driver's loop exits as soon as the registration goroutine closes it
// after its call returns, whether or not the call succeeded.
func registerOverControlStream(ctx context.Context, log *zerolog.Logger, controlStream quicStream, cred *credential.TunnelCredential, connIndex uint8) (*ConnectionDetails, error) {
	driver := rpc.New(log)
	group, groupCtx := errgroup.WithContext(ctx)

	var details *ConnectionDetails
	group.Go(func() error {
		return driver.Run(groupCtx, controlStream)
	})
	group.Go(func() error {
		defer driver.Close()

		clientID := uuid.New()
		clientInfo := pogs.ClientInfo{
			ClientID: clientID[:],
			Features: registrationFeatures,
			Version:  clientVersion,
			Arch:     fmt.Sprintf("%s_%s", runtime.GOOS, runtime.GOARCH),
		}
		options := pogs.ConnectionOptions{
			Client:             clientInfo,
			ReplaceExisting:    true,
			CompressionQuality: 0,
		}
		auth := pogs.TunnelAuth{
			AccountTag:   cred.AccountTag,
			TunnelSecret: cred.TunnelSecret,
		}

		d, err := driver.RegisterConnection(groupCtx, auth, cred.TunnelID, connIndex, options)
		if err != nil {
			return errors.Wrap(err, "libcfd: registration")
		}
		details = d
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return details, nil
}

// Accept awaits one inbound bidirectional stream, applies the
// per-request framing protocol, and returns one ConnectRequest. Only one
// Accept call may be in flight at a time (spec.md §4.4); sequential
// calls observe the same ordering the transport surfaces streams in.
func (c *Connection) Accept(ctx context.Context) (*ConnectRequest, error) {
	if c.getState() != stateReady {
		return nil, fmt.Errorf("libcfd: Accept called outside the Ready state")
	}

	qs, err := c.session.AcceptStream(ctx)
	if err != nil {
		c.setState(stateClosed)
		return nil, &StreamClosedError{Cause: err}
	}

	stream := newRequestStream(qs, 0)
	wire, err := readConnectRequest(stream)
	if err != nil {
		stream.Close()
		return nil, err
	}

	return &ConnectRequest{
		Dest:     wire.Dest,
		Type:     wire.Type,
		Metadata: dedupeMetadata(wire.Metadata),
		stream:   stream,
	}, nil
}

// Close tears down the underlying transport session, canceling all
// in-flight Accept calls with a transport error.
func (c *Connection) Close() error {
	c.setState(stateClosed)
	return c.session.CloseWithError(quic.ApplicationErrorCode(0), "connection closed")
}

func (c *Connection) setState(s state) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func (c *Connection) getState() state {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
