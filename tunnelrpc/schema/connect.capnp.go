// Code in this file plays the role capnpc-go would fill if the .capnp
// sources in this directory were compiled by the Cap'n Proto code
// generator. It is hand-authored to the same shape capnpc-go emits:
// each schema struct becomes a Go struct embedding capnp.Struct, with
// NewRootX/ReadRootX constructors and typed field accessors, and List
// wrappers for repeated fields.
package schema

import (
	capnp "zombiezen.com/go/capnproto2"
)

// ConnectionType mirrors the connect.capnp enum. Values outside this range
// are not assigned a String() case, matching capnpc-go's behavior of
// emitting only the declared enumerants.
type ConnectionType uint16

const (
	ConnectionType_http      ConnectionType = 0
	ConnectionType_websocket ConnectionType = 1
	ConnectionType_tcp       ConnectionType = 2
)

func (c ConnectionType) String() string {
	switch c {
	case ConnectionType_http:
		return "http"
	case ConnectionType_websocket:
		return "websocket"
	case ConnectionType_tcp:
		return "tcp"
	default:
		return ""
	}
}

const Metadata_TypeID = 0x9f2f5c3a6b7a1d02

type Metadata struct{ Struct capnp.Struct }

func NewMetadata(s *capnp.Segment) (Metadata, error) {
	st, err := capnp.NewStruct(s, capnp.ObjectSize{DataSize: 0, PointerCount: 2})
	return Metadata{st}, err
}

func NewRootMetadata(s *capnp.Segment) (Metadata, error) {
	st, err := capnp.NewRootStruct(s, capnp.ObjectSize{DataSize: 0, PointerCount: 2})
	return Metadata{st}, err
}

func ReadRootMetadata(msg *capnp.Message) (Metadata, error) {
	root, err := msg.RootPtr()
	return Metadata{root.Struct()}, err
}

func (s Metadata) Key() (string, error)      { return s.Struct.Text(0) }
func (s Metadata) SetKey(v string) error     { return s.Struct.SetText(0, v) }
func (s Metadata) Val() (string, error)      { return s.Struct.Text(1) }
func (s Metadata) SetVal(v string) error     { return s.Struct.SetText(1, v) }
func (s Metadata) HasKey() bool              { return s.Struct.HasPtr(0) }
func (s Metadata) HasVal() bool              { return s.Struct.HasPtr(1) }

type Metadata_List struct{ List capnp.List }

func NewMetadata_List(s *capnp.Segment, sz int32) (Metadata_List, error) {
	l, err := capnp.NewCompositeList(s, capnp.ObjectSize{DataSize: 0, PointerCount: 2}, sz)
	return Metadata_List{l}, err
}

func (l Metadata_List) Len() int             { return l.List.Len() }
func (l Metadata_List) At(i int) Metadata    { return Metadata{l.List.Struct(i)} }
func (l Metadata_List) Set(i int, v Metadata) error { return l.List.SetStruct(i, v.Struct) }

const ConnectRequest_TypeID = 0x9f2f5c3a6b7a1d03

type ConnectRequest struct{ Struct capnp.Struct }

func NewConnectRequest(s *capnp.Segment) (ConnectRequest, error) {
	st, err := capnp.NewStruct(s, capnp.ObjectSize{DataSize: 8, PointerCount: 2})
	return ConnectRequest{st}, err
}

func NewRootConnectRequest(s *capnp.Segment) (ConnectRequest, error) {
	st, err := capnp.NewRootStruct(s, capnp.ObjectSize{DataSize: 8, PointerCount: 2})
	return ConnectRequest{st}, err
}

func ReadRootConnectRequest(msg *capnp.Message) (ConnectRequest, error) {
	root, err := msg.RootPtr()
	return ConnectRequest{root.Struct()}, err
}

func (s ConnectRequest) Dest() (string, error)  { return s.Struct.Text(0) }
func (s ConnectRequest) SetDest(v string) error { return s.Struct.SetText(0, v) }

func (s ConnectRequest) Type() ConnectionType      { return ConnectionType(s.Struct.Uint16(0)) }
func (s ConnectRequest) SetType(v ConnectionType)  { s.Struct.SetUint16(0, uint16(v)) }

func (s ConnectRequest) Metadata() (Metadata_List, error) {
	p, err := s.Struct.Ptr(1)
	return Metadata_List{p.List()}, err
}

func (s ConnectRequest) SetMetadata(v Metadata_List) error {
	return s.Struct.SetPtr(1, v.List.ToPtr())
}

func (s ConnectRequest) NewMetadata(n int32) (Metadata_List, error) {
	l, err := NewMetadata_List(s.Struct.Segment(), n)
	if err != nil {
		return Metadata_List{}, err
	}
	if err := s.Struct.SetPtr(1, l.List.ToPtr()); err != nil {
		return Metadata_List{}, err
	}
	return l, nil
}

const ConnectResponse_TypeID = 0x9f2f5c3a6b7a1d04

type ConnectResponse struct{ Struct capnp.Struct }

func NewConnectResponse(s *capnp.Segment) (ConnectResponse, error) {
	st, err := capnp.NewStruct(s, capnp.ObjectSize{DataSize: 0, PointerCount: 2})
	return ConnectResponse{st}, err
}

func NewRootConnectResponse(s *capnp.Segment) (ConnectResponse, error) {
	st, err := capnp.NewRootStruct(s, capnp.ObjectSize{DataSize: 0, PointerCount: 2})
	return ConnectResponse{st}, err
}

func ReadRootConnectResponse(msg *capnp.Message) (ConnectResponse, error) {
	root, err := msg.RootPtr()
	return ConnectResponse{root.Struct()}, err
}

func (s ConnectResponse) Error() (string, error)  { return s.Struct.Text(0) }
func (s ConnectResponse) SetError(v string) error { return s.Struct.SetText(0, v) }
func (s ConnectResponse) HasError() bool          { return s.Struct.HasPtr(0) }

func (s ConnectResponse) Metadata() (Metadata_List, error) {
	p, err := s.Struct.Ptr(1)
	return Metadata_List{p.List()}, err
}

func (s ConnectResponse) SetMetadata(v Metadata_List) error {
	return s.Struct.SetPtr(1, v.List.ToPtr())
}

func (s ConnectResponse) NewMetadata(n int32) (Metadata_List, error) {
	l, err := NewMetadata_List(s.Struct.Segment(), n)
	if err != nil {
		return Metadata_List{}, err
	}
	if err := s.Struct.SetPtr(1, l.List.ToPtr()); err != nil {
		return Metadata_List{}, err
	}
	return l, nil
}
