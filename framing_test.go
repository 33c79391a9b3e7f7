package libcfd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRequestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		typ  ConnectionType
	}{
		{"http", Http},
		{"websocket", Websocket},
		{"tcp", Tcp},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wire := connectRequestPogs{
				Dest: "example.com:443",
				Type: tc.typ,
				Metadata: []metadataPogs{
					{Key: "HttpHeader:Host", Val: "example.com"},
				},
			}

			var buf bytes.Buffer
			require.NoError(t, writeRawConnectRequest(&buf, wire))

			decoded, err := readConnectRequest(&buf)
			require.NoError(t, err)

			assert.Equal(t, wire.Dest, decoded.Dest)
			assert.Equal(t, wire.Type, decoded.Type)
			assert.Equal(t, dedupeMetadata(wire.Metadata), dedupeMetadata(decoded.Metadata))
		})
	}
}

func TestConnectResponseRoundTrip(t *testing.T) {
	t.Run("metadata arm", func(t *testing.T) {
		var buf bytes.Buffer
		resp := connectResponsePogs{Metadata: []metadataPogs{{Key: "HttpStatus", Val: "200"}}}
		require.NoError(t, writeConnectResponse(&buf, resp))

		decoded, err := readRawConnectResponse(&buf)
		require.NoError(t, err)
		assert.Equal(t, "", decoded.Error)
		assert.Equal(t, dedupeMetadata(resp.Metadata), dedupeMetadata(decoded.Metadata))
	})

	t.Run("error arm", func(t *testing.T) {
		var buf bytes.Buffer
		resp := connectResponsePogs{Error: "stale creds"}
		require.NoError(t, writeConnectResponse(&buf, resp))

		decoded, err := readRawConnectResponse(&buf)
		require.NoError(t, err)
		assert.Equal(t, "stale creds", decoded.Error)
	})
}

func TestMagicInvariant(t *testing.T) {
	good := append([]byte(nil), magic[:]...)
	assert.Equal(t, []byte{0x0A, 0x36, 0xCD, 0x12, 0xA1, 0x3E, 0x30, 0x31}, good)

	for i := range magic {
		corrupt := append([]byte(nil), magic[:]...)
		corrupt[i] ^= 0xFF

		_, err := readConnectRequest(bytes.NewReader(corrupt))
		require.Error(t, err)

		var sigErr *SignatureError
		require.ErrorAs(t, err, &sigErr)
		assert.Equal(t, corrupt, sigErr.Observed)
	}
}

func TestMagicMismatchDoesNotReadPastEightBytes(t *testing.T) {
	// A single corrupted leading byte plus trailing noise that is not a
	// valid capnp message: if readConnectRequest tried to decode past the
	// signature it would fail differently than SignatureError.
	payload := append([]byte{0xFF, 0x36, 0xCD, 0x12, 0xA1, 0x3E, 0x30, 0x31}, []byte("not a capnp message")...)

	_, err := readConnectRequest(bytes.NewReader(payload))
	var sigErr *SignatureError
	require.ErrorAs(t, err, &sigErr)
}

func TestMetadataUniquenessLastWriteWins(t *testing.T) {
	entries := []metadataPogs{
		{Key: "X-Trace", Val: "first"},
		{Key: "X-Trace", Val: "second"},
		{Key: "X-Other", Val: "only"},
	}

	got := dedupeMetadata(entries)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got["X-Trace"])
	assert.Equal(t, "only", got["X-Other"])
}

func TestUnknownConnectionTypeFailsDecode(t *testing.T) {
	wire := connectRequestPogs{Dest: "x", Type: ConnectionType(99)}
	var buf bytes.Buffer
	require.NoError(t, writeRawConnectRequest(&buf, wire))

	_, err := readConnectRequest(&buf)
	require.Error(t, err)
	var decodeErr *SchemaDecodeError
	require.ErrorAs(t, err, &decodeErr)
}
