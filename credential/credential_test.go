package credential

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringNeverIncludesSecret(t *testing.T) {
	cred := &TunnelCredential{
		AccountTag:   "acct123",
		TunnelSecret: []byte("super-secret-bytes"),
		TunnelID:     uuid.New(),
		Hostname:     "example.trycloudflare.com",
	}

	s := cred.String()
	assert.Contains(t, s, cred.TunnelID.String())
	assert.Contains(t, s, cred.Hostname)
	assert.NotContains(t, s, "super-secret-bytes")
	assert.NotContains(t, s, cred.AccountTag)
}

func TestTryCloudflareResponseDecodesSecretAndID(t *testing.T) {
	id := uuid.New()
	raw := fmt.Sprintf(`{"result":{"account_tag":"acct","secret":"c3VwZXItc2VjcmV0","id":%q,"hostname":"foo.trycloudflare.com"}}`, id.String()) // secret is base64("super-secret")

	var body tryCloudflareResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &body))

	assert.Equal(t, "acct", body.Result.AccountTag)
	assert.NotEmpty(t, body.Result.Secret)

	// Decode the fields the same way TryCloudflare does.
	secret, err := base64.StdEncoding.DecodeString(body.Result.Secret)
	require.NoError(t, err)
	assert.Equal(t, []byte("super-secret"), secret)

	gotID, err := uuid.Parse(body.Result.ID)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
}
