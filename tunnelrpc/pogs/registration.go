// Package pogs provides the plain-old-Go-struct mirrors of the capnp
// registration schema, with Marshal/Unmarshal methods that move data
// to and from the generated struct accessors in tunnelrpc/schema. The
// name and shape follow the teacher's tunnelrpc/pogs package, reduced to
// the single registerConnection call this library drives.
package pogs

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/argotunnel/libcfd/tunnelrpc/schema"
)

// TunnelAuth identifies the tunnel being registered to the edge.
type TunnelAuth struct {
	AccountTag   string
	TunnelSecret []byte
}

func (a *TunnelAuth) MarshalCapnproto(s schema.TunnelAuth) error {
	if err := s.SetAccountTag(a.AccountTag); err != nil {
		return err
	}
	return s.SetTunnelSecret(a.TunnelSecret)
}

func (a *TunnelAuth) UnmarshalCapnproto(s schema.TunnelAuth) error {
	accountTag, err := s.AccountTag()
	if err != nil {
		return err
	}
	secret, err := s.TunnelSecret()
	if err != nil {
		return err
	}
	a.AccountTag = accountTag
	a.TunnelSecret = secret
	return nil
}

// ClientInfo is the declared identity of this library inside the
// registration request: a fresh per-call id, the fixed feature list, and
// the version/arch strings the edge recognizes.
type ClientInfo struct {
	ClientID []byte
	Features []string
	Version  string
	Arch     string
}

func (c *ClientInfo) MarshalCapnproto(s schema.ClientInfo) error {
	if err := s.SetClientId(c.ClientID); err != nil {
		return err
	}
	if err := s.SetVersion(c.Version); err != nil {
		return err
	}
	if err := s.SetArch(c.Arch); err != nil {
		return err
	}
	featureList, err := s.NewFeatures(int32(len(c.Features)))
	if err != nil {
		return err
	}
	for i, f := range c.Features {
		if err := featureList.Set(i, f); err != nil {
			return err
		}
	}
	return nil
}

// ConnectionOptions wraps the client identity plus the two registration
// flags spec.md §4.3 names. OriginLocalIP and NumPreviousAttempts, which
// the teacher's broader registration payload also carries, are not part
// of this library's request.
type ConnectionOptions struct {
	Client             ClientInfo
	ReplaceExisting    bool
	CompressionQuality uint8
}

func (o *ConnectionOptions) MarshalCapnproto(s schema.ConnectionOptions) error {
	client, err := s.NewClient()
	if err != nil {
		return err
	}
	if err := o.Client.MarshalCapnproto(client); err != nil {
		return err
	}
	s.SetReplaceExisting(o.ReplaceExisting)
	s.SetCompressionQuality(o.CompressionQuality)
	return nil
}

// ConnectionDetails is the successful registration result.
type ConnectionDetails struct {
	UUID                    uuid.UUID
	Location                string
	TunnelIsRemotelyManaged bool
}

func (d *ConnectionDetails) UnmarshalCapnproto(s schema.ConnectionDetails) error {
	idBytes, err := s.Uuid()
	if err != nil {
		return err
	}
	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return err
	}
	location, err := s.LocationName()
	if err != nil {
		return err
	}
	d.UUID = id
	d.Location = location
	d.TunnelIsRemotelyManaged = s.TunnelIsRemotelyManaged()
	return nil
}

// RegistrationError is the rejection arm of the registration response.
// should_retry/retry_after are preserved as fields and surfaced verbatim
// in Error(); nothing in this library acts on them (see SPEC_FULL.md §9).
type RegistrationError struct {
	Cause       string
	ShouldRetry bool
	RetryAfter  time.Duration
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration rejected: cause = %q, should_retry = %t, retry_after = %d",
		e.Cause, e.ShouldRetry, int64(e.RetryAfter))
}

func unmarshalRegistrationError(s schema.ConnectionError) (*RegistrationError, error) {
	cause, err := s.Cause()
	if err != nil {
		return nil, err
	}
	return &RegistrationError{
		Cause:       cause,
		ShouldRetry: s.ShouldRetry(),
		RetryAfter:  time.Duration(s.RetryAfter()),
	}, nil
}

// UnmarshalConnectionResponse decodes the tagged union response,
// returning either ConnectionDetails or a *RegistrationError. An
// unrecognized discriminant is a decode failure, never a default.
func UnmarshalConnectionResponse(s schema.ConnectionResponse) (*ConnectionDetails, error) {
	result := s.Result()
	switch result.Which() {
	case schema.ConnectionResponse_result_Which_error:
		errStruct, err := result.Error()
		if err != nil {
			return nil, err
		}
		regErr, err := unmarshalRegistrationError(errStruct)
		if err != nil {
			return nil, err
		}
		return nil, regErr

	case schema.ConnectionResponse_result_Which_connectionDetails:
		detailsStruct, err := result.ConnectionDetails()
		if err != nil {
			return nil, err
		}
		details := new(ConnectionDetails)
		if err := details.UnmarshalCapnproto(detailsStruct); err != nil {
			return nil, err
		}
		return details, nil

	default:
		return nil, fmt.Errorf("tunnelrpc/pogs: unknown ConnectionResponse discriminant %d", result.Which())
	}
}

// MarshalRegisterConnectionParams fills in one registerConnection call's
// argument struct. It is called from inside the capnp.Call's ParamsFunc
// callback, the same place the teacher's RegistrationServer_PogsClient
// builds the call.
func MarshalRegisterConnectionParams(p schema.RegistrationServer_registerConnection_Params, auth TunnelAuth, tunnelID uuid.UUID, connIndex uint8, options ConnectionOptions) error {
	authStruct, err := p.NewAuth()
	if err != nil {
		return err
	}
	if err := auth.MarshalCapnproto(authStruct); err != nil {
		return err
	}
	if err := p.SetTunnelId(tunnelID[:]); err != nil {
		return err
	}
	p.SetConnIndex(connIndex)
	optionsStruct, err := p.NewOptions()
	if err != nil {
		return err
	}
	return options.MarshalCapnproto(optionsStruct)
}
