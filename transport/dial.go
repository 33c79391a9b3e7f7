// Package transport opens the client-side QUIC endpoint this library
// tunnels over: it binds a local UDP socket, resolves the edge address
// (by explicit address, region alias, or default), and completes a TLS
// 1.3 handshake pinned to the embedded edge root.
package transport

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"

	"github.com/argotunnel/libcfd/tlsconfig"
)

// Region names the destination aliases spec.md §4.1 defines. A
// Destination.Addr is always dialed as a literal host:port string; a
// Region value that is not one of these constants is an error.
type Region string

const (
	Region1 Region = "region1"
	Region2 Region = "region2"
	Default Region = "default"
)

var regionAddr = map[Region]string{
	Region1: "region1.argotunnel.com:7844",
	Region2: "region2.argotunnel.com:7844",
	Default: "region2.argotunnel.com:7844",
}

// Destination selects the edge address transport.Dial connects to.
// Exactly one of Region or Addr should be set; Addr wins if both are.
type Destination struct {
	Region Region
	Addr   string
}

func (d Destination) candidates() ([]string, error) {
	if d.Addr != "" {
		return []string{d.Addr}, nil
	}
	region := d.Region
	if region == "" {
		region = Default
	}
	addr, ok := regionAddr[region]
	if !ok {
		return nil, errors.Errorf("transport: unknown region alias %q", region)
	}
	return []string{addr}, nil
}

// Source selects the local address transport.Dial binds before dialing.
// The zero value binds any IPv4 address on an ephemeral port.
type Source struct {
	Addr string
}

func (s Source) candidates() []string {
	if s.Addr != "" {
		return []string{s.Addr}
	}
	return []string{"0.0.0.0:0"}
}

// Options tunes the QUIC handshake. The zero value is a reasonable
// default: no caller-supplied idle timeout override (quic-go's own
// default applies). Datagrams are never enabled — UDP/ICMP datagram
// sessions are out of scope for this library (see SPEC_FULL.md
// Non-goals).
type Options struct {
	MaxIdleTimeout time.Duration // zero uses quic-go's default
}

// Dial resolves src and dst, binds a UDP socket, and completes a QUIC
// handshake against the edge, returning the established session. It
// implements the resolve-bind-dial algorithm of spec.md §4.1: the last
// error from a failed candidate is what's returned, not the first.
func Dial(ctx context.Context, src Source, dst Destination, opts Options) (quic.Connection, error) {
	srcCandidates := src.candidates()
	if len(srcCandidates) == 0 {
		return nil, &ResolutionError{Hint: "source", Cause: errors.New("no source candidates")}
	}

	var udpConn *net.UDPConn
	var lastBindErr error
	for _, addr := range srcCandidates {
		resolved, err := net.ResolveUDPAddr("udp", addr)
		if err != nil {
			lastBindErr = err
			continue
		}
		conn, err := net.ListenUDP("udp", resolved)
		if err != nil {
			lastBindErr = err
			continue
		}
		udpConn = conn
		break
	}
	if udpConn == nil {
		return nil, &DialError{Stage: "bind", Cause: lastBindErr}
	}

	dstCandidates, err := dst.candidates()
	if err != nil {
		udpConn.Close()
		return nil, &ResolutionError{Hint: "destination", Cause: err}
	}
	if len(dstCandidates) == 0 {
		udpConn.Close()
		return nil, &ResolutionError{Hint: "destination", Cause: errors.New("no destination candidates")}
	}

	quicConfig := &quic.Config{
		EnableDatagrams: false,
		MaxIdleTimeout:  opts.MaxIdleTimeout,
	}

	var lastDialErr error
	for _, addr := range dstCandidates {
		udpAddr, err := net.ResolveUDPAddr("udp", addr)
		if err != nil {
			lastDialErr = err
			continue
		}

		tlsConf, err := tlsconfig.ClientConfig(tlsconfig.EdgeSNI)
		if err != nil {
			udpConn.Close()
			return nil, &TLSError{Cause: err}
		}

		session, err := quic.Dial(ctx, udpConn, udpAddr, tlsConf, quicConfig)
		if err != nil {
			lastDialErr = err
			continue
		}
		return session, nil
	}

	udpConn.Close()
	if lastDialErr == nil {
		lastDialErr = errors.New("no destination candidates reachable")
	}
	return nil, &DialError{Stage: "connect", Cause: lastDialErr}
}
