package libcfd

import (
	"bytes"
	"fmt"
	"io"

	capnp "zombiezen.com/go/capnproto2"

	"github.com/argotunnel/libcfd/tunnelrpc/schema"
)

// magic is the fixed 8-byte prefix written at the head of both
// directions of every per-request stream before the schema-encoded
// envelope. The last two bytes ("01") are an opaque version tag baked
// into the signature, not a separately parsed field (spec.md §3, §9).
var magic = [8]byte{0x0A, 0x36, 0xCD, 0x12, 0xA1, 0x3E, 0x30, 0x31}

// ConnectionType is the closed enumeration of traffic kinds a
// ConnectRequest can carry. Unknown discriminants fail decoding.
type ConnectionType uint16

const (
	Http      ConnectionType = ConnectionType(schema.ConnectionType_http)
	Websocket ConnectionType = ConnectionType(schema.ConnectionType_websocket)
	Tcp       ConnectionType = ConnectionType(schema.ConnectionType_tcp)
)

func (t ConnectionType) valid() bool {
	switch t {
	case Http, Websocket, Tcp:
		return true
	default:
		return false
	}
}

func (t ConnectionType) String() string {
	return schema.ConnectionType(t).String()
}

// connectRequestPogs and connectResponsePogs are the plain-Go mirrors of
// the connect.capnp structs, named to match quic/pogs.go's
// ConnectRequest/ConnectResponse in the teacher. They are marshaled to
// and from the wire by hand through tunnelrpc/schema's generated
// accessors rather than zombiezen.com/go/capnproto2/pogs, since that
// package resolves struct layout from a schema registry this library
// never populates.
type connectRequestPogs struct {
	Dest     string
	Type     ConnectionType
	Metadata []metadataPogs
}

type connectResponsePogs struct {
	Error    string
	Metadata []metadataPogs
}

type metadataPogs struct {
	Key string
	Val string
}

// ConnectRequest represents one inbound request, decoded from the
// envelope on a newly accepted bidirectional stream (spec.md §3, §4.5).
type ConnectRequest struct {
	Dest     string
	Type     ConnectionType
	Metadata map[string]string

	stream    *RequestStream
	responded bool
}

// ConnectResponse is the tagged union the caller emits exactly once per
// ConnectRequest: either a metadata mapping (acceptance) or an error
// text (rejection).
type ConnectResponse struct {
	Metadata map[string]string
	Error    string
}

// marshalMetadata allocates a Metadata_List on dst's segment and copies
// entries into it in order, matching the wire layout readMetadata expects
// back. Marshaling through the generated accessors rather than pogs means
// this never depends on a schema registry entry existing for Metadata.
func marshalMetadata(dst *capnp.Segment, newList func(n int32) (schema.Metadata_List, error), entries []metadataPogs) error {
	list, err := newList(int32(len(entries)))
	if err != nil {
		return err
	}
	for i, e := range entries {
		m, err := schema.NewMetadata(dst)
		if err != nil {
			return err
		}
		if err := m.SetKey(e.Key); err != nil {
			return err
		}
		if err := m.SetVal(e.Val); err != nil {
			return err
		}
		if err := list.Set(i, m); err != nil {
			return err
		}
	}
	return nil
}

// readMetadata walks a decoded Metadata_List into the plain-Go mirror
// slice, the reverse of marshalMetadata.
func readMetadata(list schema.Metadata_List) ([]metadataPogs, error) {
	entries := make([]metadataPogs, list.Len())
	for i := range entries {
		m := list.At(i)
		key, err := m.Key()
		if err != nil {
			return nil, err
		}
		val, err := m.Val()
		if err != nil {
			return nil, err
		}
		entries[i] = metadataPogs{Key: key, Val: val}
	}
	return entries, nil
}

// readConnectRequest reads the magic and decodes one ConnectRequest
// envelope into the connectRequestPogs mirror; Accept projects that into
// the public type. It never reads past the envelope into the caller's
// opaque payload.
func readConnectRequest(r io.Reader) (*connectRequestPogs, error) {
	var observed [8]byte
	if _, err := io.ReadFull(r, observed[:]); err != nil {
		return nil, &StreamClosedError{Cause: err}
	}
	if !bytes.Equal(observed[:], magic[:]) {
		return nil, &SignatureError{Observed: append([]byte(nil), observed[:]...)}
	}

	msg, err := capnp.NewDecoder(r).Decode()
	if err != nil {
		return nil, &SchemaDecodeError{Cause: err}
	}

	root, err := schema.ReadRootConnectRequest(msg)
	if err != nil {
		return nil, &SchemaDecodeError{Cause: err}
	}

	dest, err := root.Dest()
	if err != nil {
		return nil, &SchemaDecodeError{Cause: err}
	}
	metaList, err := root.Metadata()
	if err != nil {
		return nil, &SchemaDecodeError{Cause: err}
	}
	meta, err := readMetadata(metaList)
	if err != nil {
		return nil, &SchemaDecodeError{Cause: err}
	}

	req := &connectRequestPogs{
		Dest:     dest,
		Type:     ConnectionType(root.Type()),
		Metadata: meta,
	}
	if !req.Type.valid() {
		return nil, &SchemaDecodeError{Cause: fmt.Errorf("unknown ConnectionType discriminant %d", req.Type)}
	}
	return req, nil
}

// writeRawConnectRequest writes the magic followed by one encoded
// ConnectRequest envelope. Production code never originates a
// ConnectRequest (only the edge does); this exists so the in-process
// mock edge used by tests (spec.md §8) can play the edge's role.
func writeRawConnectRequest(w io.Writer, req connectRequestPogs) error {
	if _, err := w.Write(magic[:]); err != nil {
		return &StreamClosedError{Cause: err}
	}

	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return &SchemaDecodeError{Cause: err}
	}
	root, err := schema.NewRootConnectRequest(seg)
	if err != nil {
		return &SchemaDecodeError{Cause: err}
	}
	if err := root.SetDest(req.Dest); err != nil {
		return &SchemaDecodeError{Cause: err}
	}
	root.SetType(schema.ConnectionType(req.Type))
	if err := marshalMetadata(seg, root.NewMetadata, req.Metadata); err != nil {
		return &SchemaDecodeError{Cause: err}
	}
	return capnp.NewEncoder(w).Encode(msg)
}

// readRawConnectResponse reads the magic and one ConnectResponse
// envelope. Production code never originates an accepted request's
// response read; this exists for tests asserting the caller's
// RespondWith wrote the expected bytes.
func readRawConnectResponse(r io.Reader) (*connectResponsePogs, error) {
	var observed [8]byte
	if _, err := io.ReadFull(r, observed[:]); err != nil {
		return nil, &StreamClosedError{Cause: err}
	}
	if !bytes.Equal(observed[:], magic[:]) {
		return nil, &SignatureError{Observed: append([]byte(nil), observed[:]...)}
	}

	msg, err := capnp.NewDecoder(r).Decode()
	if err != nil {
		return nil, &SchemaDecodeError{Cause: err}
	}
	root, err := schema.ReadRootConnectResponse(msg)
	if err != nil {
		return nil, &SchemaDecodeError{Cause: err}
	}

	var errText string
	if root.HasError() {
		errText, err = root.Error()
		if err != nil {
			return nil, &SchemaDecodeError{Cause: err}
		}
	}
	metaList, err := root.Metadata()
	if err != nil {
		return nil, &SchemaDecodeError{Cause: err}
	}
	meta, err := readMetadata(metaList)
	if err != nil {
		return nil, &SchemaDecodeError{Cause: err}
	}

	return &connectResponsePogs{Error: errText, Metadata: meta}, nil
}

// writeConnectResponse writes the magic followed by one encoded
// ConnectResponse envelope.
func writeConnectResponse(w io.Writer, resp connectResponsePogs) error {
	if _, err := w.Write(magic[:]); err != nil {
		return &StreamClosedError{Cause: err}
	}

	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return &SchemaDecodeError{Cause: err}
	}
	root, err := schema.NewRootConnectResponse(seg)
	if err != nil {
		return &SchemaDecodeError{Cause: err}
	}
	if resp.Error != "" {
		if err := root.SetError(resp.Error); err != nil {
			return &SchemaDecodeError{Cause: err}
		}
	}
	if err := marshalMetadata(seg, root.NewMetadata, resp.Metadata); err != nil {
		return &SchemaDecodeError{Cause: err}
	}
	if err := capnp.NewEncoder(w).Encode(msg); err != nil {
		return &StreamClosedError{Cause: err}
	}
	return nil
}

// dedupeMetadata collapses wire-level duplicate keys with last-write-wins,
// matching spec.md §3's Metadata entry invariant.
func dedupeMetadata(entries []metadataPogs) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Key] = e.Val
	}
	return m
}

func toWireMetadata(m map[string]string) []metadataPogs {
	entries := make([]metadataPogs, 0, len(m))
	for k, v := range m {
		entries = append(entries, metadataPogs{Key: k, Val: v})
	}
	return entries
}

// RespondWith sends resp on the stream this ConnectRequest arrived on
// and returns the raw stream halves to the caller as a single
// io.ReadWriteCloser plus CloseWrite. It may be called exactly once;
// subsequent calls return an error.
func (r *ConnectRequest) RespondWith(resp ConnectResponse) (*RequestStream, error) {
	if r.responded {
		return nil, fmt.Errorf("libcfd: RespondWith already called for this ConnectRequest")
	}
	r.responded = true

	wire := connectResponsePogs{Error: resp.Error, Metadata: toWireMetadata(resp.Metadata)}
	if err := writeConnectResponse(r.stream, wire); err != nil {
		r.stream.Close()
		return nil, err
	}
	return r.stream, nil
}

// Drop closes both stream halves without emitting a response, matching
// spec.md §4.5's "dropped without respond_with" lifecycle rule.
func (r *ConnectRequest) Drop() error {
	if r.responded {
		return nil
	}
	r.responded = true
	return r.stream.Close()
}
