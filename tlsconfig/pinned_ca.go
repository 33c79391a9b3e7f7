package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"

	"github.com/pkg/errors"
)

// pinnedCA is the single trust anchor for the tunnel edge. Unlike the
// teacher's hello-server certificate (tlsconfig/hello_ca.go upstream), this
// is not bundled for a local test server: it is the only root the QUIC
// handshake in transport.Dial is allowed to trust.
const pinnedCA = `
-----BEGIN CERTIFICATE-----
MIICIzCCAYygAwIBAgIUGZwBZnQf7h6qk7mQW6vU4x4uJwgwCgYIKoZIzj0EAwIw
UzELMAkGA1UEBhMCVVMxGTAXBgNVBAoMEEFyZ29UdW5uZWwgUm9vdDExMS8wLQYD
VQQDDCZBcmdvVHVubmVsIFF1aWMgVHVubmVsIEVkZ2UgUm9vdCBDQSAtIDEwHhcN
MjQwMTAxMDAwMDAwWhcNMzQwMTAxMDAwMDAwWjBTMQswCQYDVQQGEwJVUzEZMBcG
A1UECgwQQXJnb1R1bm5lbCBSb290MTExLzAtBgNVBAMMJkFyZ29UdW5uZWwgUXVp
YyBUdW5uZWwgRWRnZSBSb290IENBIC0gMTBZMBMGByqGSM49AgEGCCqGSM49AwEH
A0IABF1q8sTtYQe9K9s3Kk1O2coVZzQ3JXw1bK9nQGZP0EwF1u9dYQbS8J2Q2cMh
3yTf3qjvJqj+1n9gqRzR4lYfxYWjUzBRMB0GA1UdDgQWBBRcyzuG0vVvqgqzF5mE
/7hQ6Uq0PzAfBgNVHSMEGDAWgBRcyzuG0vVvqgqzF5mE/7hQ6Uq0PzAPBgNVHRMB
Af8EBTADAQH/MAoGCCqGSM49BAMCA0gAMEUCIQC3h2oW62PHY6KqxF1VwzAZz3V2
lOe1t0RCFZSFo9pDFwIgbyn+5eHkXquQ9kzN3Q3nVugQGb2lM4XI9vxu8+u6qAQ=
-----END CERTIFICATE-----`

// PinnedCA returns the pool containing only the tunnel edge's trust anchor.
// It is the Go equivalent of LoadGlobalCertPool in the teacher, reduced to a
// single pinned cert: this library does not layer in the host's system pool
// or an origin-provided pool, since the only peer it ever dials is the
// tunnel edge.
func PinnedCA() (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(pinnedCA)) {
		return nil, errors.New("tlsconfig: could not parse pinned edge CA certificate")
	}
	return pool, nil
}

// ClientConfig returns the tls.Config used to dial the tunnel edge: TLS 1.3,
// the pinned root above, no client certificate, and ServerName set to
// serverName exactly as given. transport.Dial passes EdgeSNI here rather
// than the destination hostname (the edge terminates many hostnames behind
// one certificate keyed off SNI).
func ClientConfig(serverName string) (*tls.Config, error) {
	pool, err := PinnedCA()
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		RootCAs:    pool,
		ServerName: serverName,
		MinVersion: tls.VersionTLS13,
	}, nil
}
