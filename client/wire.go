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

// Package client hand-encodes the small slice of Cosmos SDK protobuf
// messages this module needs directly against the wire, rather than
// pulling in generated SDK types: a StoreCode/InstantiateContract/
// ExecuteContract transaction, its SignDoc, and the handful of query
// responses the client decodes. protowire gives us the tag/varint/
// length-delimited primitives; everything above that is written by hand
// against the known Cosmos SDK and Secret Network proto layouts.
package client

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// --- low-level append helpers -------------------------------------------

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendStringField(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendMessageField(b []byte, num protowire.Number, msg []byte) []byte {
	return appendBytesField(b, num, msg)
}

// --- low-level consume helpers -------------------------------------------

type protoField struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

// decodeFields walks a length-delimited protobuf message one field at a
// time, capturing each field's raw value. It does not know any message's
// schema; callers pick out the field numbers they expect.
func decodeFields(b []byte) ([]protoField, error) {
	var fields []protoField
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			fields = append(fields, protoField{num: num, typ: typ, varint: v})
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			fields = append(fields, protoField{num: num, typ: typ, bytes: append([]byte(nil), v...)})
		case protowire.Fixed64Type:
			_, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		case protowire.Fixed32Type:
			_, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		default:
			return nil, fmt.Errorf("client: unsupported protobuf wire type %v", typ)
		}
	}
	return fields, nil
}

func firstBytesField(fields []protoField, num protowire.Number) []byte {
	for _, f := range fields {
		if f.num == num && f.typ == protowire.BytesType {
			return f.bytes
		}
	}
	return nil
}

func firstVarintField(fields []protoField, num protowire.Number) uint64 {
	for _, f := range fields {
		if f.num == num && f.typ == protowire.VarintType {
			return f.varint
		}
	}
	return 0
}

func allBytesFields(fields []protoField, num protowire.Number) [][]byte {
	var out [][]byte
	for _, f := range fields {
		if f.num == num && f.typ == protowire.BytesType {
			out = append(out, f.bytes)
		}
	}
	return out
}

// --- common types ---------------------------------------------------------

// Coin is a denom/amount pair, as every Cosmos SDK module represents funds.
type Coin struct {
	Denom  string
	Amount string
}

func (c Coin) encode() []byte {
	var b []byte
	b = appendStringField(b, 1, c.Denom)
	b = appendStringField(b, 2, c.Amount)
	return b
}

func decodeCoin(b []byte) (Coin, error) {
	fields, err := decodeFields(b)
	if err != nil {
		return Coin{}, err
	}
	return Coin{
		Denom:  string(firstBytesField(fields, 1)),
		Amount: string(firstBytesField(fields, 2)),
	}, nil
}

type anyMsg struct {
	typeURL string
	value   []byte
}

func (a anyMsg) encode() []byte {
	var b []byte
	b = appendStringField(b, 1, a.typeURL)
	b = appendBytesField(b, 2, a.value)
	return b
}

func decodeAny(b []byte) (anyMsg, error) {
	fields, err := decodeFields(b)
	if err != nil {
		return anyMsg{}, err
	}
	return anyMsg{
		typeURL: string(firstBytesField(fields, 1)),
		value:   firstBytesField(fields, 2),
	}, nil
}

// --- signing: PubKey, ModeInfo, SignerInfo, AuthInfo, Fee ------------------

const secp256k1PubKeyTypeURL = "/cosmos.crypto.secp256k1.PubKey"

func encodeSecp256k1PubKeyAny(compressedPub []byte) []byte {
	var pk []byte
	pk = appendBytesField(pk, 1, compressedPub)
	return anyMsg{typeURL: secp256k1PubKeyTypeURL, value: pk}.encode()
}

// signModeDirect is SIGN_MODE_DIRECT, the only signing mode this client uses.
const signModeDirect = 1

func encodeModeInfoSingle() []byte {
	var single []byte
	single = appendVarintField(single, 1, signModeDirect)
	var mode []byte
	mode = appendMessageField(mode, 1, single)
	return mode
}

// Fee is the gas/fee portion of a transaction's AuthInfo.
type Fee struct {
	Amount   []Coin
	GasLimit uint64
}

func (f Fee) encode() []byte {
	var b []byte
	for _, c := range f.Amount {
		b = appendMessageField(b, 1, c.encode())
	}
	b = appendVarintField(b, 2, f.GasLimit)
	return b
}

func encodeSignerInfo(compressedPub []byte, sequence uint64) []byte {
	var b []byte
	b = appendMessageField(b, 1, encodeSecp256k1PubKeyAny(compressedPub))
	b = appendMessageField(b, 2, encodeModeInfoSingle())
	b = appendVarintField(b, 3, sequence)
	return b
}

func encodeAuthInfo(compressedPub []byte, sequence uint64, fee Fee) []byte {
	var b []byte
	b = appendMessageField(b, 1, encodeSignerInfo(compressedPub, sequence))
	b = appendMessageField(b, 2, fee.encode())
	return b
}

// --- TxBody, SignDoc, TxRaw -------------------------------------------------

func encodeTxBody(messages [][]byte, memo string, timeoutHeight uint64) []byte {
	var b []byte
	for _, m := range messages {
		b = appendBytesField(b, 1, m)
	}
	b = appendStringField(b, 2, memo)
	b = appendVarintField(b, 3, timeoutHeight)
	return b
}

func encodeSignDoc(bodyBytes, authInfoBytes []byte, chainID string, accountNumber uint64) []byte {
	var b []byte
	b = appendBytesField(b, 1, bodyBytes)
	b = appendBytesField(b, 2, authInfoBytes)
	b = appendStringField(b, 3, chainID)
	b = appendVarintField(b, 4, accountNumber)
	return b
}

func encodeTxRaw(bodyBytes, authInfoBytes []byte, signatures [][]byte) []byte {
	var b []byte
	b = appendBytesField(b, 1, bodyBytes)
	b = appendBytesField(b, 2, authInfoBytes)
	for _, sig := range signatures {
		b = appendBytesField(b, 3, sig)
	}
	return b
}

// --- compute module messages ------------------------------------------------

const (
	typeURLMsgStoreCode           = "/secret.compute.v1beta1.MsgStoreCode"
	typeURLMsgInstantiateContract = "/secret.compute.v1beta1.MsgInstantiateContract"
	typeURLMsgExecuteContract     = "/secret.compute.v1beta1.MsgExecuteContract"
)

func encodeMsgStoreCode(sender string, wasmByteCode []byte) []byte {
	var b []byte
	b = appendStringField(b, 1, sender)
	b = appendBytesField(b, 2, wasmByteCode)
	return b
}

func encodeMsgInstantiateContract(sender, callbackCodeHash string, codeID uint64, label string, initMsg []byte, initFunds []Coin) []byte {
	var b []byte
	b = appendStringField(b, 1, sender)
	b = appendStringField(b, 2, callbackCodeHash)
	b = appendVarintField(b, 3, codeID)
	b = appendStringField(b, 4, label)
	b = appendBytesField(b, 5, initMsg)
	for _, c := range initFunds {
		b = appendMessageField(b, 6, c.encode())
	}
	return b
}

func encodeMsgExecuteContract(sender, contract string, msg []byte, callbackCodeHash string, sentFunds []Coin) []byte {
	var b []byte
	b = appendStringField(b, 1, sender)
	b = appendStringField(b, 2, contract)
	b = appendBytesField(b, 3, msg)
	b = appendStringField(b, 4, callbackCodeHash)
	for _, c := range sentFunds {
		b = appendMessageField(b, 5, c.encode())
	}
	return b
}

func anyMessage(typeURL string, value []byte) []byte {
	return anyMsg{typeURL: typeURL, value: value}.encode()
}

// --- legacy TxMsgData --------------------------------------------------------

// msgData is one entry of the legacy TxMsgData.Data list: the raw response
// bytes a compute-module message leaves in a transaction's Data field, not
// itself protobuf-wrapped (a decimal code id, a raw address, raw
// ciphertext).
type msgData struct {
	msgType string
	data    []byte
}

func (m msgData) encode() []byte {
	var b []byte
	b = appendStringField(b, 1, m.msgType)
	b = appendBytesField(b, 2, m.data)
	return b
}

func decodeMsgData(b []byte) (msgData, error) {
	fields, err := decodeFields(b)
	if err != nil {
		return msgData{}, err
	}
	return msgData{
		msgType: string(firstBytesField(fields, 1)),
		data:    firstBytesField(fields, 2),
	}, nil
}

// decodeTxMsgData decodes the legacy sdk.TxMsgData a broadcast's
// deliver_tx.Data carries (field 1, `repeated MsgData data`), returning the
// raw response payload of the entry whose msg_type matches want, or nil if
// no entry matches.
func decodeTxMsgData(b []byte, want string) ([]byte, error) {
	fields, err := decodeFields(b)
	if err != nil {
		return nil, err
	}
	for _, raw := range allBytesFields(fields, 1) {
		md, err := decodeMsgData(raw)
		if err != nil {
			return nil, err
		}
		if md.msgType == want {
			return md.data, nil
		}
	}
	return nil, nil
}

// --- query messages -----------------------------------------------------------

func encodeQueryBalanceRequest(address, denom string) []byte {
	var b []byte
	b = appendStringField(b, 1, address)
	b = appendStringField(b, 2, denom)
	return b
}

func decodeQueryBalanceResponse(b []byte) (Coin, error) {
	fields, err := decodeFields(b)
	if err != nil {
		return Coin{}, err
	}
	balance := firstBytesField(fields, 1)
	if balance == nil {
		return Coin{}, nil
	}
	return decodeCoin(balance)
}

func encodeQueryAccountRequest(address string) []byte {
	var b []byte
	b = appendStringField(b, 1, address)
	return b
}

// decodeBaseAccount decodes the BaseAccount embedded as an Any inside a
// QueryAccountResponse.
func decodeBaseAccount(b []byte) (AccountInfo, error) {
	env, err := decodeFields(b)
	if err != nil {
		return AccountInfo{}, err
	}
	anyBytes := firstBytesField(env, 1)
	if anyBytes == nil {
		return AccountInfo{}, fmt.Errorf("client: query account response missing account field")
	}
	any, err := decodeAny(anyBytes)
	if err != nil {
		return AccountInfo{}, err
	}
	fields, err := decodeFields(any.value)
	if err != nil {
		return AccountInfo{}, err
	}
	return AccountInfo{
		AccountNumber:  firstVarintField(fields, 3),
		SequenceNumber: firstVarintField(fields, 4),
	}, nil
}
