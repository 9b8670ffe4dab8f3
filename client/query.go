// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/scrtlabs/localsecret-go/account"
	secretcrypto "github.com/scrtlabs/localsecret-go/crypto"
)

const coinDenom = "uscrt"

// QueryBalance returns the uscrt balance of the given account, "0" if the
// account holds none.
func (c *Client) QueryBalance(ctx context.Context, acc *account.Account) (string, error) {
	req := encodeQueryBalanceRequest(acc.Bech32Address(), coinDenom)
	raw, err := c.abciQuery(ctx, "/cosmos.bank.v1beta1.Query/Balance", req)
	if err != nil {
		return "", err
	}
	coin, err := decodeQueryBalanceResponse(raw)
	if err != nil {
		return "", errProtobufDecode(err)
	}
	if coin.Amount == "" {
		return "0", nil
	}
	return coin.Amount, nil
}

// QueryCodeHashByCodeID resolves the code hash of a previously uploaded
// contract code.
func (c *Client) QueryCodeHashByCodeID(ctx context.Context, codeID CodeID) (CodeHash, error) {
	var req []byte
	req = appendVarintField(req, 1, uint64(codeID))

	raw, err := c.abciQuery(ctx, "/secret.compute.v1beta1.Query/Code", req)
	if err != nil {
		return nil, err
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return nil, errProtobufDecode(err)
	}
	codeInfo := firstBytesField(fields, 1)
	if codeInfo == nil {
		return nil, errContractInfoNotFound(uint64(codeID))
	}
	ciFields, err := decodeFields(codeInfo)
	if err != nil {
		return nil, errProtobufDecode(err)
	}
	return CodeHash(firstBytesField(ciFields, 3)), nil
}

// QueryAccountInfo fetches the account number and current sequence number
// of the given account, used to build a SignDoc.
func (c *Client) QueryAccountInfo(ctx context.Context, acc *account.Account) (AccountInfo, error) {
	req := encodeQueryAccountRequest(acc.Bech32Address())
	raw, err := c.abciQuery(ctx, "/cosmos.auth.v1beta1.Query/Account", req)
	if err != nil {
		return AccountInfo{}, err
	}
	if raw == nil {
		return AccountInfo{}, errAccountNotFound(acc.Bech32Address())
	}
	info, err := decodeBaseAccount(raw)
	if err != nil {
		return AccountInfo{}, errProtobufDecode(err)
	}
	return info, nil
}

// QueryContractLabelExists checks whether a contract has already been
// instantiated under the given label.
func (c *Client) QueryContractLabelExists(ctx context.Context, label string) (bool, error) {
	path := fmt.Sprintf("custom/compute/label/%s", label)
	_, err := c.abciQuery(ctx, path, nil)
	if err != nil {
		if e, ok := err.(*Error); ok && e.Kind == KindAbciQuery {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// enclaveIOPublicKey returns the enclave's consensus I/O public key,
// caching it for the lifetime of the client since it never rotates while
// a node is running.
func (c *Client) enclaveIOPublicKey(ctx context.Context) ([]byte, error) {
	c.enclaveKeyMu.Lock()
	defer c.enclaveKeyMu.Unlock()

	if c.enclaveKey != nil {
		c.collector.RecordEnclaveKeyLookup(true)
		return c.enclaveKey, nil
	}
	c.collector.RecordEnclaveKeyLookup(false)

	raw, err := c.abciQuery(ctx, "/secret.registration.v1beta1.Query/TxKey", nil)
	if err != nil {
		return nil, err
	}
	fields, err := decodeFields(raw)
	if err != nil {
		return nil, errProtobufDecode(err)
	}
	certDER := firstBytesField(fields, 1)

	pubKey, err := c.ioKeyFromCert(certDER)
	if err != nil {
		return nil, err
	}

	c.enclaveKey = pubKey
	return pubKey, nil
}

// encryptMsg encrypts a JSON contract message prefixed with the target
// contract's code hash, the wire format every compute-module message
// (init/exec/query) shares. It returns the nonce used (the caller needs it
// to derive the same key again when decoding a query response) and the
// wire envelope to embed in the outgoing protobuf message.
func (c *Client) encryptMsg(ctx context.Context, msg interface{}, codeHash CodeHash, from *account.Account) (nonce, envelope []byte, err error) {
	plaintextMsg, err := json.Marshal(msg)
	if err != nil {
		return nil, nil, errJSON(err)
	}
	plaintext := append([]byte(codeHash.String()), plaintextMsg...)

	nonce, err = secretcrypto.GenerateNonce()
	if err != nil {
		return nil, nil, errCrypto(err, "failed to generate nonce")
	}

	ioKey, err := c.enclaveIOPublicKey(ctx)
	if err != nil {
		return nil, nil, err
	}

	envelope, err = secretcrypto.Encrypt(from.X25519StaticSecret(), from.PublicKeyBytes(), ioKey, plaintext, nonce)
	if err != nil {
		return nil, nil, errCrypto(err, "failed to encrypt contract message")
	}
	return nonce, envelope, nil
}

// QueryContract executes an encrypted smart-query against a contract and
// decodes the JSON response into out.
func (c *Client) QueryContract(ctx context.Context, msg interface{}, contract Contract, from *account.Account, out interface{}) error {
	nonce, envelope, err := c.encryptMsg(ctx, msg, contract.CodeHash, from)
	if err != nil {
		return err
	}

	addrBytes, err := decodeBech32Address(contract.Address)
	if err != nil {
		return errRuntime(err, "invalid contract address")
	}

	var req []byte
	req = appendBytesField(req, 1, addrBytes)
	req = appendBytesField(req, 2, envelope)

	raw, err := c.abciQuery(ctx, "/secret.compute.v1beta1.Query/SmartContractState", req)
	if err != nil {
		return err
	}
	fields, err := decodeFields(raw)
	if err != nil {
		return errProtobufDecode(err)
	}
	ciphertext := firstBytesField(fields, 1)

	ioKey, err := c.enclaveIOPublicKey(ctx)
	if err != nil {
		return err
	}
	key, err := secretcrypto.DeriveEncryptionKey(from.X25519StaticSecret(), ioKey, nonce)
	if err != nil {
		return errCrypto(err, "failed to derive response decryption key")
	}
	return decryptJSONResponse(key, ciphertext, out)
}

// decryptJSONResponse opens an enclave-encrypted response payload with key
// (ciphertext only, no nonce/pubkey prefix) and deserializes the resulting
// UTF-8, base64-encoded plaintext into out. Used for both smart-query
// results and MsgExecuteContract's deliver_tx response payload, which share
// the same wire shape.
func decryptJSONResponse(key, ciphertext []byte, out interface{}) error {
	plaintext, err := secretcrypto.DecryptWithKey(key, ciphertext)
	if err != nil {
		return errCrypto(err, "failed to decrypt contract response")
	}

	if !utf8.Valid(plaintext) {
		return errUTF8(nil)
	}
	decoded, err := base64.StdEncoding.DecodeString(string(plaintext))
	if err != nil {
		return errBase64(err)
	}
	if err := json.Unmarshal(decoded, out); err != nil {
		return errJSON(err)
	}
	return nil
}

func decodeBech32Address(addr string) ([]byte, error) {
	_, data, err := bech32Decode(addr)
	if err != nil {
		return nil, err
	}
	return data, nil
}
