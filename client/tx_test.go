package client

import (
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	secretcrypto "github.com/scrtlabs/localsecret-go/crypto"
)

func sealedErrorLog(t *testing.T, plaintext string) (log string, key []byte) {
	t.Helper()

	curve := ecdh.X25519()
	clientPriv, err := curve.GenerateKey(rand.Reader)
	require.NoError(t, err)
	enclavePriv, err := curve.GenerateKey(rand.Reader)
	require.NoError(t, err)

	nonce, err := secretcrypto.GenerateNonce()
	require.NoError(t, err)

	envelope, err := secretcrypto.Encrypt(clientPriv.Bytes(), clientPriv.PublicKey().Bytes(), enclavePriv.PublicKey().Bytes(), []byte(plaintext), nonce)
	require.NoError(t, err)

	ciphertext := envelope[secretcrypto.NonceSize+secretcrypto.PublicKeySize:]
	key, err = secretcrypto.DeriveEncryptionKey(clientPriv.Bytes(), enclavePriv.PublicKey().Bytes(), nonce)
	require.NoError(t, err)

	encoded := base64.StdEncoding.EncodeToString(ciphertext)
	log = "rpc error: code = Unknown desc = encrypted:" + encoded + ": failed to execute message; message index: 0"
	return log, key
}

func TestDecryptErrorLog_DecryptsMarkerPayload(t *testing.T) {
	log, key := sealedErrorLog(t, "insufficient funds")

	got := decryptErrorLog(log, key)

	assert.Contains(t, got, "insufficient funds")
	assert.NotContains(t, got, "encrypted:")
}

func TestDecryptErrorLog_NoKeyReturnsRawLog(t *testing.T) {
	log, _ := sealedErrorLog(t, "insufficient funds")
	assert.Equal(t, log, decryptErrorLog(log, nil))
}

func TestDecryptErrorLog_NoMarkerReturnsRawLog(t *testing.T) {
	log := "plain failure, nothing encrypted here"
	assert.Equal(t, log, decryptErrorLog(log, []byte("irrelevant-key-that-is-32-bytes!")))
}

func TestDecryptErrorLog_WrongKeyReturnsRawLog(t *testing.T) {
	log, _ := sealedErrorLog(t, "insufficient funds")
	wrongKey := make([]byte, 32)
	assert.Equal(t, log, decryptErrorLog(log, wrongKey))
}

func TestDecryptErrorLog_MalformedBase64ReturnsRawLog(t *testing.T) {
	log := "failure: encrypted:not-valid-base64!!!:tail"
	assert.Equal(t, log, decryptErrorLog(log, make([]byte, 32)))
}

func TestFeeTable_MatchesMessageKind(t *testing.T) {
	assert.Equal(t, "uscrt", feeUpload.Amount[0].Denom)
	assert.Equal(t, uint64(1000000), feeUpload.GasLimit)
	assert.Equal(t, uint64(500000), feeInit.GasLimit)
	assert.Equal(t, uint64(200000), feeExec.GasLimit)
	assert.Equal(t, "250000", feeUpload.Amount[0].Amount)
	assert.Equal(t, "125000", feeInit.Amount[0].Amount)
	assert.Equal(t, "50000", feeExec.Amount[0].Amount)
}

func TestTimeoutHeightInterval(t *testing.T) {
	assert.Equal(t, uint64(10), uint64(timeoutHeightInterval))
}
