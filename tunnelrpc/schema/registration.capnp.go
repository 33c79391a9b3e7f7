package schema

import (
	"context"

	capnp "zombiezen.com/go/capnproto2"
	"zombiezen.com/go/capnproto2/server"
)

const TunnelAuth_TypeID = 0xc3a921f9d5b6c801

type TunnelAuth struct{ Struct capnp.Struct }

func NewTunnelAuth(s *capnp.Segment) (TunnelAuth, error) {
	st, err := capnp.NewStruct(s, capnp.ObjectSize{DataSize: 0, PointerCount: 2})
	return TunnelAuth{st}, err
}

func NewRootTunnelAuth(s *capnp.Segment) (TunnelAuth, error) {
	st, err := capnp.NewRootStruct(s, capnp.ObjectSize{DataSize: 0, PointerCount: 2})
	return TunnelAuth{st}, err
}

func (s TunnelAuth) AccountTag() (string, error)    { return s.Struct.Text(0) }
func (s TunnelAuth) SetAccountTag(v string) error   { return s.Struct.SetText(0, v) }
func (s TunnelAuth) TunnelSecret() ([]byte, error)  { return s.Struct.Data(1) }
func (s TunnelAuth) SetTunnelSecret(v []byte) error { return s.Struct.SetData(1, v) }

const ClientInfo_TypeID = 0xc3a921f9d5b6c802

type ClientInfo struct{ Struct capnp.Struct }

func NewClientInfo(s *capnp.Segment) (ClientInfo, error) {
	st, err := capnp.NewStruct(s, capnp.ObjectSize{DataSize: 0, PointerCount: 4})
	return ClientInfo{st}, err
}

func (s ClientInfo) ClientId() ([]byte, error)   { return s.Struct.Data(0) }
func (s ClientInfo) SetClientId(v []byte) error  { return s.Struct.SetData(0, v) }
func (s ClientInfo) Version() (string, error)    { return s.Struct.Text(2) }
func (s ClientInfo) SetVersion(v string) error   { return s.Struct.SetText(2, v) }
func (s ClientInfo) Arch() (string, error)       { return s.Struct.Text(3) }
func (s ClientInfo) SetArch(v string) error      { return s.Struct.SetText(3, v) }

func (s ClientInfo) Features() (capnp.TextList, error) {
	p, err := s.Struct.Ptr(1)
	return capnp.TextList{List: p.List()}, err
}

func (s ClientInfo) SetFeatures(v capnp.TextList) error {
	return s.Struct.SetPtr(1, v.List.ToPtr())
}

func (s ClientInfo) NewFeatures(n int32) (capnp.TextList, error) {
	l, err := capnp.NewTextList(s.Struct.Segment(), n)
	if err != nil {
		return capnp.TextList{}, err
	}
	if err := s.Struct.SetPtr(1, l.List.ToPtr()); err != nil {
		return capnp.TextList{}, err
	}
	return l, nil
}

const ConnectionOptions_TypeID = 0xc3a921f9d5b6c803

type ConnectionOptions struct{ Struct capnp.Struct }

func NewConnectionOptions(s *capnp.Segment) (ConnectionOptions, error) {
	st, err := capnp.NewStruct(s, capnp.ObjectSize{DataSize: 8, PointerCount: 1})
	return ConnectionOptions{st}, err
}

func (s ConnectionOptions) Client() (ClientInfo, error) {
	p, err := s.Struct.Ptr(0)
	return ClientInfo{p.Struct()}, err
}

func (s ConnectionOptions) SetClient(v ClientInfo) error {
	return s.Struct.SetPtr(0, v.Struct.ToPtr())
}

func (s ConnectionOptions) NewClient() (ClientInfo, error) {
	c, err := NewClientInfo(s.Struct.Segment())
	if err != nil {
		return ClientInfo{}, err
	}
	if err := s.Struct.SetPtr(0, c.Struct.ToPtr()); err != nil {
		return ClientInfo{}, err
	}
	return c, nil
}

func (s ConnectionOptions) ReplaceExisting() bool         { return s.Struct.Bit(0) }
func (s ConnectionOptions) SetReplaceExisting(v bool)     { s.Struct.SetBit(0, v) }
func (s ConnectionOptions) CompressionQuality() uint8     { return s.Struct.Uint8(1) }
func (s ConnectionOptions) SetCompressionQuality(v uint8) { s.Struct.SetUint8(1, v) }

const ConnectionDetails_TypeID = 0xc3a921f9d5b6c804

type ConnectionDetails struct{ Struct capnp.Struct }

func NewConnectionDetails(s *capnp.Segment) (ConnectionDetails, error) {
	st, err := capnp.NewStruct(s, capnp.ObjectSize{DataSize: 8, PointerCount: 2})
	return ConnectionDetails{st}, err
}

func (s ConnectionDetails) Uuid() ([]byte, error)              { return s.Struct.Data(0) }
func (s ConnectionDetails) SetUuid(v []byte) error             { return s.Struct.SetData(0, v) }
func (s ConnectionDetails) LocationName() (string, error)      { return s.Struct.Text(1) }
func (s ConnectionDetails) SetLocationName(v string) error     { return s.Struct.SetText(1, v) }
func (s ConnectionDetails) TunnelIsRemotelyManaged() bool       { return s.Struct.Bit(0) }
func (s ConnectionDetails) SetTunnelIsRemotelyManaged(v bool)   { s.Struct.SetBit(0, v) }

const ConnectionError_TypeID = 0xc3a921f9d5b6c805

type ConnectionError struct{ Struct capnp.Struct }

func NewConnectionError(s *capnp.Segment) (ConnectionError, error) {
	st, err := capnp.NewStruct(s, capnp.ObjectSize{DataSize: 16, PointerCount: 1})
	return ConnectionError{st}, err
}

func (s ConnectionError) Cause() (string, error)        { return s.Struct.Text(0) }
func (s ConnectionError) SetCause(v string) error       { return s.Struct.SetText(0, v) }
func (s ConnectionError) ShouldRetry() bool             { return s.Struct.Bit(0) }
func (s ConnectionError) SetShouldRetry(v bool)         { s.Struct.SetBit(0, v) }
func (s ConnectionError) RetryAfter() int64             { return s.Struct.Int64(8) }
func (s ConnectionError) SetRetryAfter(v int64)         { s.Struct.SetInt64(8, v) }

// ConnectionResponse_result_Which is the discriminant of the registration
// response's tagged union. An unrecognized value must be treated as a
// decode failure by callers, never defaulted.
type ConnectionResponse_result_Which uint16

const (
	ConnectionResponse_result_Which_error              ConnectionResponse_result_Which = 0
	ConnectionResponse_result_Which_connectionDetails   ConnectionResponse_result_Which = 1
)

const ConnectionResponse_TypeID = 0xc3a921f9d5b6c806

type ConnectionResponse struct{ Struct capnp.Struct }

func NewConnectionResponse(s *capnp.Segment) (ConnectionResponse, error) {
	st, err := capnp.NewStruct(s, capnp.ObjectSize{DataSize: 8, PointerCount: 1})
	return ConnectionResponse{st}, err
}

func (s ConnectionResponse) Result() ConnectionResponse_result { return ConnectionResponse_result(s) }

type ConnectionResponse_result ConnectionResponse

func (s ConnectionResponse_result) Which() ConnectionResponse_result_Which {
	return ConnectionResponse_result_Which(s.Struct.Uint16(0))
}

func (s ConnectionResponse_result) SetError(v ConnectionError) error {
	s.Struct.SetUint16(0, uint16(ConnectionResponse_result_Which_error))
	return s.Struct.SetPtr(0, v.Struct.ToPtr())
}

func (s ConnectionResponse_result) NewError() (ConnectionError, error) {
	c, err := NewConnectionError(s.Struct.Segment())
	if err != nil {
		return ConnectionError{}, err
	}
	if err := s.SetError(c); err != nil {
		return ConnectionError{}, err
	}
	return c, nil
}

func (s ConnectionResponse_result) Error() (ConnectionError, error) {
	p, err := s.Struct.Ptr(0)
	return ConnectionError{p.Struct()}, err
}

func (s ConnectionResponse_result) SetConnectionDetails(v ConnectionDetails) error {
	s.Struct.SetUint16(0, uint16(ConnectionResponse_result_Which_connectionDetails))
	return s.Struct.SetPtr(0, v.Struct.ToPtr())
}

func (s ConnectionResponse_result) NewConnectionDetails() (ConnectionDetails, error) {
	c, err := NewConnectionDetails(s.Struct.Segment())
	if err != nil {
		return ConnectionDetails{}, err
	}
	if err := s.SetConnectionDetails(c); err != nil {
		return ConnectionDetails{}, err
	}
	return c, nil
}

func (s ConnectionResponse_result) ConnectionDetails() (ConnectionDetails, error) {
	p, err := s.Struct.Ptr(0)
	return ConnectionDetails{p.Struct()}, err
}

// RegistrationServer_TypeID identifies the single-method capability
// interface this library's control stream bootstraps to.
const RegistrationServer_TypeID = 0xc3a921f9d5b6c807

// RegistrationServer is the capnp client handle for the bootstrap
// capability. A zero-value Client is a null capability.
type RegistrationServer struct{ Client capnp.Client }

type RegistrationServer_registerConnection_Params struct{ Struct capnp.Struct }

func (p RegistrationServer_registerConnection_Params) Auth() (TunnelAuth, error) {
	ptr, err := p.Struct.Ptr(0)
	return TunnelAuth{ptr.Struct()}, err
}

func (p RegistrationServer_registerConnection_Params) SetAuth(v TunnelAuth) error {
	return p.Struct.SetPtr(0, v.Struct.ToPtr())
}

func (p RegistrationServer_registerConnection_Params) NewAuth() (TunnelAuth, error) {
	a, err := NewTunnelAuth(p.Struct.Segment())
	if err != nil {
		return TunnelAuth{}, err
	}
	if err := p.SetAuth(a); err != nil {
		return TunnelAuth{}, err
	}
	return a, nil
}

func (p RegistrationServer_registerConnection_Params) TunnelId() ([]byte, error) {
	return p.Struct.Data(1)
}

func (p RegistrationServer_registerConnection_Params) SetTunnelId(v []byte) error {
	return p.Struct.SetData(1, v)
}

func (p RegistrationServer_registerConnection_Params) ConnIndex() uint8     { return p.Struct.Uint8(0) }
func (p RegistrationServer_registerConnection_Params) SetConnIndex(v uint8) { p.Struct.SetUint8(0, v) }

func (p RegistrationServer_registerConnection_Params) Options() (ConnectionOptions, error) {
	ptr, err := p.Struct.Ptr(2)
	return ConnectionOptions{ptr.Struct()}, err
}

func (p RegistrationServer_registerConnection_Params) SetOptions(v ConnectionOptions) error {
	return p.Struct.SetPtr(2, v.Struct.ToPtr())
}

func (p RegistrationServer_registerConnection_Params) NewOptions() (ConnectionOptions, error) {
	o, err := NewConnectionOptions(p.Struct.Segment())
	if err != nil {
		return ConnectionOptions{}, err
	}
	if err := p.SetOptions(o); err != nil {
		return ConnectionOptions{}, err
	}
	return o, nil
}

// registerConnectionMethod identifies the interface's single method on the
// wire. Both the client call site and the server dispatch table build their
// capnp.Method value from this, so the two can never drift apart.
var registerConnectionMethod = capnp.Method{
	InterfaceID:   RegistrationServer_TypeID,
	MethodID:      0,
	InterfaceName: "registration.capnp:RegistrationServer",
	MethodName:    "registerConnection",
}

// RegistrationServer_registerConnection_Results_Promise is the pipelined
// answer to a registerConnection call: Struct() blocks until the answer
// resolves (or the connection terminates), matching the semantics
// capnpc-go wires up for an interface method's return value.
type RegistrationServer_registerConnection_Results_Promise struct {
	Answer capnp.Answer
}

func (p RegistrationServer_registerConnection_Results_Promise) Result() RegistrationServer_registerConnection_Results_Future {
	return RegistrationServer_registerConnection_Results_Future{p.Answer}
}

func (p RegistrationServer_registerConnection_Results_Promise) Struct() (ConnectionResponse, error) {
	return p.Result().Struct()
}

type RegistrationServer_registerConnection_Results_Future struct{ Answer capnp.Answer }

// Struct resolves the answer and returns its result field (pointer 0 of the
// results struct), not the results struct itself.
func (f RegistrationServer_registerConnection_Results_Future) Struct() (ConnectionResponse, error) {
	s, err := f.Answer.Struct()
	if err != nil {
		return ConnectionResponse{}, err
	}
	p, err := s.Ptr(0)
	return ConnectionResponse{p.Struct()}, err
}

// RegisterConnection issues the single method this interface exposes.
// params is invoked to populate the call's argument struct before it is
// sent, the same callback shape capnpc-go generates for every method.
func (c RegistrationServer) RegisterConnection(ctx context.Context, params func(RegistrationServer_registerConnection_Params) error) RegistrationServer_registerConnection_Results_Promise {
	ans := c.Client.Call(&capnp.Call{
		Ctx:        ctx,
		Method:     registerConnectionMethod,
		ParamsSize: capnp.ObjectSize{DataSize: 8, PointerCount: 3},
		ParamsFunc: func(s capnp.Struct) error {
			if params == nil {
				return nil
			}
			return params(RegistrationServer_registerConnection_Params{Struct: s})
		},
	})
	return RegistrationServer_registerConnection_Results_Promise{Answer: ans}
}

func (c RegistrationServer) Close() error {
	return c.Client.Close()
}

// RegistrationServer_Server is implemented by a local capability that
// answers registerConnection calls; used only by the in-process mock edge
// in tests, the real edge implementation living entirely server-side.
type RegistrationServer_Server interface {
	RegisterConnection(RegistrationServer_registerConnection) error
}

// RegistrationServer_registerConnection bundles one inbound call's
// parameters, result builder and context, mirroring the method-call struct
// capnpc-go generates for server-side dispatch.
type RegistrationServer_registerConnection struct {
	Ctx     context.Context
	Options capnp.CallOptions
	Params  RegistrationServer_registerConnection_Params
	Results RegistrationServer_registerConnection_Results
}

type RegistrationServer_registerConnection_Results struct{ Struct capnp.Struct }

func (r RegistrationServer_registerConnection_Results) NewResult() (ConnectionResponse, error) {
	res, err := NewConnectionResponse(r.Struct.Segment())
	if err != nil {
		return ConnectionResponse{}, err
	}
	if err := r.Struct.SetPtr(0, res.Struct.ToPtr()); err != nil {
		return ConnectionResponse{}, err
	}
	return res, nil
}

// RegistrationServer_ServerToClient adapts a local
// RegistrationServer_Server implementation into a capnp.Client, the same
// role capnpc-go's generated _ServerToClient constructor plays. The single
// dispatch entry decodes the inbound call into the server-side call struct
// and hands it to s, matching the shape every generated *_Server interface
// method receives.
func RegistrationServer_ServerToClient(s RegistrationServer_Server) RegistrationServer {
	methods := []server.Method{
		{
			Method:      registerConnectionMethod,
			ResultsSize: capnp.ObjectSize{DataSize: 0, PointerCount: 1},
			Impl: func(ctx context.Context, opts capnp.CallOptions, params, results capnp.Struct) error {
				return s.RegisterConnection(RegistrationServer_registerConnection{
					Ctx:     ctx,
					Options: opts,
					Params:  RegistrationServer_registerConnection_Params{Struct: params},
					Results: RegistrationServer_registerConnection_Results{Struct: results},
				})
			},
		},
	}
	return RegistrationServer{Client: server.New(methods, nil)}
}
