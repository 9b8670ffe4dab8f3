package client

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsChainID(t *testing.T) {
	c := New("http://localhost:26657", nil)
	assert.Equal(t, ChainID, c.chainID)
}

func TestWithChainID_Overrides(t *testing.T) {
	c := New("http://localhost:26657", nil).WithChainID("secretdev-custom")
	assert.Equal(t, "secretdev-custom", c.chainID)
}

func TestBech32Decode_RoundTripsKnownAddress(t *testing.T) {
	raw := make([]byte, 20)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	init, err := parseContractInit(raw)
	require.NoError(t, err)

	hrp, decoded, err := bech32Decode(init.address)
	require.NoError(t, err)
	assert.Equal(t, "secret", hrp)
	assert.Equal(t, raw, decoded)
}

func TestBech32Decode_RejectsMalformed(t *testing.T) {
	_, _, err := bech32Decode("not-a-bech32-address")
	require.Error(t, err)
}

func TestParseUintOrZero(t *testing.T) {
	assert.Equal(t, uint64(12345), parseUintOrZero("12345"))
	assert.Equal(t, uint64(0), parseUintOrZero(""))
	assert.Equal(t, uint64(0), parseUintOrZero("12a45"))
}

func TestNextUnnamedLabel_IsMonotonicPerClient(t *testing.T) {
	c := New("http://localhost:26657", nil)
	first := c.NextUnnamedLabel()
	second := c.NextUnnamedLabel()

	assert.Equal(t, "unnamed_0", first)
	assert.Equal(t, "unnamed_1", second)
	assert.True(t, strings.HasPrefix(second, "unnamed_"))
}

func TestSeedEnclaveIOPublicKey_RejectsWrongLength(t *testing.T) {
	c := New("http://localhost:26657", nil)
	err := c.SeedEnclaveIOPublicKey(hex.EncodeToString([]byte("too-short")))
	require.Error(t, err)
}

func TestSeedEnclaveIOPublicKey_AcceptsValidKey(t *testing.T) {
	c := New("http://localhost:26657", nil)
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	err := c.SeedEnclaveIOPublicKey(hex.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, c.enclaveKey)
}
