package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateProducesValidToken(t *testing.T) {
	token := Generate()
	assert.True(t, strings.HasPrefix(token, "session_"))
	assert.True(t, Validate(token), "token hasil Generate harus lolos Validate: %s", token)
}

func TestValidateAcceptsLegacyFormat(t *testing.T) {
	assert.True(t, Validate("session_1735000000000_a1b2c3d4e5"))
}

func TestValidateRejectsMalformedTokens(t *testing.T) {
	cases := []string{
		"",
		"session_",
		"sesi_1735000000000_abc123",
		"session_abc_def!",
		"session_1735000000000_dengan spasi",
		strings.Repeat("a", 200),
		"session_1735000000000_" + strings.Repeat("a", 140),
	}
	for _, tc := range cases {
		assert.False(t, Validate(tc), "harus ditolak: %q", tc)
	}
}

func TestCurrentIsStableUntilReset(t *testing.T) {
	Reset()
	first := Current()
	assert.Equal(t, first, Current())

	Reset()
	assert.NotEqual(t, first, Current())
}
