// Package credential holds the tunnel identity a Connection registers with,
// plus a convenience helper for minting a short-lived "try-cloudflare"
// credential. Everything else in the module accepts a TunnelCredential from
// any source; this package is not a required dependency of the core.
package credential

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const tryCloudflareEndpoint = "https://api.trycloudflare.com/tunnel"

// TunnelCredential is the immutable identity a Connection registers with the
// edge. Account tag and hostname are opaque/display-only; the secret proves
// ownership of the tunnel id. Grounded on
// original_source/src/tunnel_config.rs's TunnelConfig.
type TunnelCredential struct {
	AccountTag   string
	TunnelSecret []byte
	TunnelID     uuid.UUID
	Hostname     string
}

// tryCloudflareResponse mirrors the JSON body api.trycloudflare.com returns,
// matching CreateTunnelResponse/CreateTunnelResult in
// original_source/src/tunnel_config.rs.
type tryCloudflareResponse struct {
	Result struct {
		AccountTag string `json:"account_tag"`
		Secret     string `json:"secret"`
		ID         string `json:"id"`
		Hostname   string `json:"hostname"`
	} `json:"result"`
}

// TryCloudflare requests a free, short-lived tunnel credential from
// Cloudflare's trial endpoint. This is a convenience only: any
// TunnelCredential built by other means (e.g. a paid account's named
// tunnel) works identically with Connection.New.
func TryCloudflare(ctx context.Context) (*TunnelCredential, error) {
	client := &http.Client{Timeout: 15 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tryCloudflareEndpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "credential: building trycloudflare request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "credential: calling trycloudflare")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("credential: trycloudflare returned status %d", resp.StatusCode)
	}

	var body tryCloudflareResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "credential: decoding trycloudflare response")
	}

	secret, err := base64.StdEncoding.DecodeString(body.Result.Secret)
	if err != nil {
		return nil, errors.Wrap(err, "credential: decoding tunnel secret")
	}

	tunnelID, err := uuid.Parse(body.Result.ID)
	if err != nil {
		return nil, errors.Wrap(err, "credential: parsing tunnel id")
	}

	return &TunnelCredential{
		AccountTag:   body.Result.AccountTag,
		TunnelSecret: secret,
		TunnelID:     tunnelID,
		Hostname:     body.Result.Hostname,
	}, nil
}

// String never prints the secret; it exists for log lines, matching the
// teacher's habit of logging tunnel id/hostname but never credentials.
func (c *TunnelCredential) String() string {
	return fmt.Sprintf("TunnelCredential{id=%s, hostname=%s}", c.TunnelID, c.Hostname)
}
