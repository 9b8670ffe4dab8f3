package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinRoundTrip(t *testing.T) {
	c := Coin{Denom: "uscrt", Amount: "12345"}
	decoded, err := decodeCoin(c.encode())
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
}

func TestAnyRoundTrip(t *testing.T) {
	a := anyMsg{typeURL: "/cosmos.crypto.secp256k1.PubKey", value: []byte{1, 2, 3}}
	decoded, err := decodeAny(a.encode())
	require.NoError(t, err)
	assert.Equal(t, a, decoded)
}

func TestEncodeTxBody_IncludesTimeoutHeight(t *testing.T) {
	body := encodeTxBody([][]byte{{0xDE, 0xAD}}, "memo", 42)

	fields, err := decodeFields(body)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), firstVarintField(fields, 3))
	assert.Equal(t, "memo", string(firstBytesField(fields, 2)))
	assert.Equal(t, [][]byte{{0xDE, 0xAD}}, allBytesFields(fields, 1))
}

func TestEncodeTxBody_OmitsZeroTimeoutHeight(t *testing.T) {
	body := encodeTxBody(nil, "", 0)
	fields, err := decodeFields(body)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), firstVarintField(fields, 3))
}

func TestDecodeTxMsgData_FindsMatchingMsgType(t *testing.T) {
	var raw []byte
	raw = appendMessageField(raw, 1, msgData{msgType: typeURLMsgStoreCode, data: []byte("4")}.encode())
	raw = appendMessageField(raw, 1, msgData{msgType: typeURLMsgInstantiateContract, data: []byte("secret1abc")}.encode())

	payload, err := decodeTxMsgData(raw, typeURLMsgInstantiateContract)
	require.NoError(t, err)
	assert.Equal(t, "secret1abc", string(payload))

	payload, err = decodeTxMsgData(raw, typeURLMsgStoreCode)
	require.NoError(t, err)
	assert.Equal(t, "4", string(payload))
}

func TestDecodeTxMsgData_NoMatchReturnsNil(t *testing.T) {
	var raw []byte
	raw = appendMessageField(raw, 1, msgData{msgType: typeURLMsgStoreCode, data: []byte("4")}.encode())

	payload, err := decodeTxMsgData(raw, typeURLMsgExecuteContract)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestDecodeQueryBalanceResponse_EmptyWhenNoBalance(t *testing.T) {
	coin, err := decodeQueryBalanceResponse(nil)
	require.NoError(t, err)
	assert.Equal(t, Coin{}, coin)
}

func TestDecodeBaseAccount(t *testing.T) {
	var baseAccount []byte
	baseAccount = appendStringField(baseAccount, 1, "secret1abc")
	baseAccount = appendVarintField(baseAccount, 3, 7)
	baseAccount = appendVarintField(baseAccount, 4, 99)

	any := anyMsg{typeURL: "/cosmos.auth.v1beta1.BaseAccount", value: baseAccount}

	var resp []byte
	resp = appendMessageField(resp, 1, any.encode())

	info, err := decodeBaseAccount(resp)
	require.NoError(t, err)
	assert.Equal(t, AccountInfo{AccountNumber: 7, SequenceNumber: 99}, info)
}

func TestDecodeBaseAccount_MissingFieldErrors(t *testing.T) {
	_, err := decodeBaseAccount(nil)
	require.Error(t, err)
}

func TestEncodeMsgInstantiateContract_FieldsRoundTrip(t *testing.T) {
	msg := encodeMsgInstantiateContract("secret1sender", "DEADBEEF", 4, "my-label", []byte("ciphertext"), []Coin{{Denom: "uscrt", Amount: "1"}})

	fields, err := decodeFields(msg)
	require.NoError(t, err)
	assert.Equal(t, "secret1sender", string(firstBytesField(fields, 1)))
	assert.Equal(t, "DEADBEEF", string(firstBytesField(fields, 2)))
	assert.Equal(t, uint64(4), firstVarintField(fields, 3))
	assert.Equal(t, "my-label", string(firstBytesField(fields, 4)))
	assert.Equal(t, []byte("ciphertext"), firstBytesField(fields, 5))
}
