package tlsconfig

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinnedCAParses(t *testing.T) {
	pool, err := PinnedCA()
	require.NoError(t, err)
	assert.NotNil(t, pool)
}

func TestClientConfigForcesEdgeSNI(t *testing.T) {
	cfg, err := ClientConfig(EdgeSNI)
	require.NoError(t, err)
	assert.Equal(t, EdgeSNI, cfg.ServerName)
	assert.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)
	assert.NotNil(t, cfg.RootCAs)
}

func TestClientConfigServerNameIsIndependentOfDestination(t *testing.T) {
	cfg, err := ClientConfig(EdgeSNI)
	require.NoError(t, err)
	assert.NotEqual(t, "some-destination-hostname.example.com", cfg.ServerName)
}
