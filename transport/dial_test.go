package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationCandidatesRegionAliases(t *testing.T) {
	cases := []struct {
		dest Destination
		want string
	}{
		{Destination{Region: Region1}, "region1.argotunnel.com:7844"},
		{Destination{Region: Region2}, "region2.argotunnel.com:7844"},
		{Destination{Region: Default}, "region2.argotunnel.com:7844"},
		{Destination{}, "region2.argotunnel.com:7844"}, // zero value -> Default
		{Destination{Addr: "edge.example.com:7844"}, "edge.example.com:7844"},
	}

	for _, tc := range cases {
		got, err := tc.dest.candidates()
		require.NoError(t, err)
		assert.Equal(t, []string{tc.want}, got)
	}
}

func TestDestinationUnknownRegionIsResolutionError(t *testing.T) {
	_, err := Destination{Region: Region("unknown")}.candidates()
	assert.Error(t, err)

	_, err = Dial(context.Background(), Source{Addr: "127.0.0.1:0"}, Destination{Region: Region("unknown")}, Options{})
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "destination", resErr.Hint)
}

func TestSourceCandidatesDefaultAnyEphemeral(t *testing.T) {
	got := Source{}.candidates()
	assert.Equal(t, []string{"0.0.0.0:0"}, got)
}

func TestSourceCandidatesExplicit(t *testing.T) {
	got := Source{Addr: "127.0.0.1:9000"}.candidates()
	assert.Equal(t, []string{"127.0.0.1:9000"}, got)
}
