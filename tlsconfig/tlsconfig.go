// Package tlsconfig builds the TLS client configuration used to dial the
// tunnel edge. Unlike the teacher's tlsconfig package, which also serves
// CLI-flag-driven server-side TLS for cloudflared's local listeners, this
// package only ever configures one thing: a client handshake pinned to a
// single embedded root.
package tlsconfig

const (
	// EdgeSNI is the QUIC handshake's SNI, independent of any destination
	// hostname supplied by the caller. The edge terminates TLS behind this
	// name regardless of which tunnel hostname traffic is ultimately routed
	// to (spec.md §4.1).
	EdgeSNI = "quic.cftunnel.com"
)
