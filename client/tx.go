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
	"os"
	"strings"
	"unicode/utf8"

	"github.com/scrtlabs/localsecret-go/account"
	secretcrypto "github.com/scrtlabs/localsecret-go/crypto"
	"github.com/scrtlabs/localsecret-go/internal/logger"
	"github.com/scrtlabs/localsecret-go/internal/metrics"
)

// timeoutHeightInterval is added to the chain's current height to compute
// a transaction's timeout_height.
const timeoutHeightInterval = 10

// Fee amounts and gas limits, fixed per message kind.
var (
	feeUpload = Fee{Amount: []Coin{{Denom: coinDenom, Amount: "250000"}}, GasLimit: 1000000}
	feeInit   = Fee{Amount: []Coin{{Denom: coinDenom, Amount: "125000"}}, GasLimit: 500000}
	feeExec   = Fee{Amount: []Coin{{Denom: coinDenom, Amount: "50000"}}, GasLimit: 200000}
)

// UploadContract reads a WASM binary from disk and broadcasts a
// MsgStoreCode transaction, returning the assigned code id.
func (c *Client) UploadContract(ctx context.Context, path string, acc *account.Account) (TxResponse[CodeID], error) {
	wasmByteCode, err := os.ReadFile(path)
	if err != nil {
		return TxResponse[CodeID]{}, errContractFile(err, path)
	}

	msgBytes := encodeMsgStoreCode(acc.Bech32Address(), wasmByteCode)

	raw, err := c.broadcast(ctx, "upload", typeURLMsgStoreCode, msgBytes, acc, feeUpload, nil)
	if err != nil {
		return TxResponse[CodeID]{}, err
	}
	return tryMapTxResponse(raw, parseCodeID)
}

// InitContract instantiates a previously uploaded code id under label,
// encrypting msg for the enclave before broadcasting.
func (c *Client) InitContract(ctx context.Context, msg interface{}, label string, codeID CodeID, acc *account.Account) (TxResponse[Contract], error) {
	if label == "" {
		label = c.NextUnnamedLabel()
	}

	exists, err := c.QueryContractLabelExists(ctx, label)
	if err != nil {
		return TxResponse[Contract]{}, err
	}
	if exists {
		return TxResponse[Contract]{}, errContractLabelExists(label)
	}

	codeHash, err := c.QueryCodeHashByCodeID(ctx, codeID)
	if err != nil {
		return TxResponse[Contract]{}, err
	}

	nonce, envelope, err := c.encryptMsg(ctx, msg, codeHash, acc)
	if err != nil {
		return TxResponse[Contract]{}, err
	}
	errKey, err := c.responseKey(ctx, acc, nonce)
	if err != nil {
		return TxResponse[Contract]{}, err
	}

	msgBytes := encodeMsgInstantiateContract(acc.Bech32Address(), codeHash.String(), uint64(codeID), label, envelope, nil)

	raw, err := c.broadcast(ctx, "init", typeURLMsgInstantiateContract, msgBytes, acc, feeInit, errKey)
	if err != nil {
		return TxResponse[Contract]{}, err
	}
	return tryMapTxResponse(raw, func(data []byte) (Contract, error) {
		init, err := parseContractInit(data)
		if err != nil {
			return Contract{}, err
		}
		return init.intoContract(codeHash), nil
	})
}

// ExecuteContract invokes msg on an already-instantiated contract,
// decrypting the response TxMsgData carries for this message and
// deserializing it into out. The response ciphertext is sealed with the
// same key the request envelope was, so no further key exchange is needed.
func (c *Client) ExecuteContract(ctx context.Context, msg interface{}, contract Contract, acc *account.Account, out interface{}) (TxResponse[struct{}], error) {
	nonce, envelope, err := c.encryptMsg(ctx, msg, contract.CodeHash, acc)
	if err != nil {
		return TxResponse[struct{}]{}, err
	}
	errKey, err := c.responseKey(ctx, acc, nonce)
	if err != nil {
		return TxResponse[struct{}]{}, err
	}

	msgBytes := encodeMsgExecuteContract(acc.Bech32Address(), contract.Address, envelope, contract.CodeHash.String(), nil)

	raw, err := c.broadcast(ctx, "exec", typeURLMsgExecuteContract, msgBytes, acc, feeExec, errKey)
	if err != nil {
		return TxResponse[struct{}]{}, err
	}
	return tryMapTxResponse(raw, func(ciphertext []byte) (struct{}, error) {
		if err := decryptJSONResponse(errKey, ciphertext, out); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
}

// responseKey derives the same AES-SIV key a request's envelope was sealed
// with, so a failed broadcast's encrypted error log (sealed with that same
// key) can be opened.
func (c *Client) responseKey(ctx context.Context, acc *account.Account, nonce []byte) ([]byte, error) {
	ioKey, err := c.enclaveIOPublicKey(ctx)
	if err != nil {
		return nil, err
	}
	return secretcrypto.DeriveEncryptionKey(acc.X25519StaticSecret(), ioKey, nonce)
}

// broadcast builds, signs, and submits a transaction carrying exactly one
// message, classifying the result as CheckFailed / DeliverFailed /
// Delivered. errKey, when non-nil, is the key used to attempt decryption
// of an encrypted error log on deliver_tx failure.
func (c *Client) broadcast(ctx context.Context, kind, typeURL string, msgBytes []byte, acc *account.Account, fee Fee, errKey []byte) (TxResponse[[]byte], error) {
	height, err := c.LastBlockHeight(ctx)
	if err != nil {
		return TxResponse[[]byte]{}, err
	}
	accountInfo, err := c.QueryAccountInfo(ctx, acc)
	if err != nil {
		return TxResponse[[]byte]{}, err
	}

	anyBytes := anyMessage(typeURL, msgBytes)
	bodyBytes := encodeTxBody([][]byte{anyBytes}, "", height+timeoutHeightInterval)
	authInfoBytes := encodeAuthInfo(acc.PublicKeyBytes(), accountInfo.SequenceNumber, fee)

	signDoc := encodeSignDoc(bodyBytes, authInfoBytes, c.chainID, accountInfo.AccountNumber)
	signature, err := acc.Sign(signDoc)
	if err != nil {
		return TxResponse[[]byte]{}, errCrypto(err, "failed to sign transaction")
	}

	txBytes := encodeTxRaw(bodyBytes, authInfoBytes, [][]byte{signature})

	res, err := c.rpc.broadcastTxCommit(ctx, txBytes)
	if err != nil {
		metrics.BroadcastOutcomes.WithLabelValues(kind, "check_failed").Inc()
		c.collector.RecordBroadcast(false)
		return TxResponse[[]byte]{}, err
	}

	if res.CheckTx.Code != 0 {
		metrics.BroadcastOutcomes.WithLabelValues(kind, "check_failed").Inc()
		c.collector.RecordBroadcast(false)
		return TxResponse[[]byte]{}, errBroadcastTxCheck(decryptErrorLog(res.CheckTx.Log, errKey))
	}

	if res.DeliverTx.Code != 0 {
		metrics.BroadcastOutcomes.WithLabelValues(kind, "deliver_failed").Inc()
		c.collector.RecordBroadcast(false)
		return TxResponse[[]byte]{}, errBroadcastTxDeliver(decryptErrorLog(res.DeliverTx.Log, errKey))
	}

	metrics.BroadcastOutcomes.WithLabelValues(kind, "delivered").Inc()
	c.collector.RecordBroadcast(true)

	if c.log != nil {
		c.log.Info("broadcast delivered", logger.String("kind", kind), logger.String("gas_used", res.DeliverTx.GasUsed))
	}

	var response []byte
	if res.DeliverTx.Data != "" {
		dataBytes, err := base64.StdEncoding.DecodeString(res.DeliverTx.Data)
		if err != nil {
			return TxResponse[[]byte]{}, errBase64(err)
		}
		response, err = decodeTxMsgData(dataBytes, typeURL)
		if err != nil {
			return TxResponse[[]byte]{}, errProtobufDecode(err)
		}
	}

	events := make([]Event, 0, len(res.DeliverTx.Events))
	for _, e := range res.DeliverTx.Events {
		attrs := make(map[string]string, len(e.Attributes))
		for _, a := range e.Attributes {
			attrs[a.Key] = a.Value
		}
		events = append(events, Event{Type: e.Type, Attrs: attrs})
	}

	gasUsed := parseUintOrZero(res.DeliverTx.GasUsed)

	var respPtr *[]byte
	if response != nil {
		respPtr = &response
	}

	return TxResponse[[]byte]{Response: respPtr, GasUsed: gasUsed, Events: events}, nil
}

const encryptedLogMarker = "encrypted:"

// decryptErrorLog looks for an `encrypted:<base64(ct)>:` marker in a
// broadcast failure log and, given the key the originating request was
// encrypted with, replaces the marker's payload with the decrypted
// plaintext error string. If no marker is present, no key is available, or
// decryption fails, the raw log is returned unchanged — the only local
// error recovery this client performs.
func decryptErrorLog(log string, key []byte) string {
	if key == nil {
		return log
	}

	idx := strings.Index(log, encryptedLogMarker)
	if idx < 0 {
		return log
	}
	rest := log[idx+len(encryptedLogMarker):]
	end := strings.Index(rest, ":")
	if end < 0 {
		return log
	}
	encoded := rest[:end]

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return log
	}

	plaintext, err := secretcrypto.DecryptWithKey(key, ciphertext)
	if err != nil || !utf8.Valid(plaintext) {
		return log
	}

	return log[:idx] + string(plaintext) + rest[end+1:]
}
