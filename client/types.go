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
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/cosmos/btcutil/bech32"
)

// ChainPrefix is the bech32 human-readable part this chain's addresses
// use, mirrored here so message responses can be decoded without
// importing the account package.
const ChainPrefix = "secret"

// CodeID identifies an uploaded WASM blob.
type CodeID uint64

// parseCodeID parses the ASCII-decimal bytes a MsgStoreCode response's
// TxMsgData carries directly as its data field.
func parseCodeID(raw []byte) (CodeID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, errParseMsgResponse(err, "failed to parse code id")
	}
	return CodeID(n), nil
}

// CodeHash is a contract's WASM code hash, rendered as uppercase hex.
type CodeHash []byte

func (h CodeHash) String() string {
	return strings.ToUpper(hex.EncodeToString(h))
}

// contractInit is the raw address bytes a MsgInstantiateContract
// response's TxMsgData carries directly as its data field.
type contractInit struct {
	address string
}

func parseContractInit(raw []byte) (contractInit, error) {
	addr, err := encodeBech32Address(raw)
	if err != nil {
		return contractInit{}, errParseMsgResponse(err, "failed to parse contract address bytes")
	}
	return contractInit{address: addr}, nil
}

func encodeBech32Address(raw []byte) (string, error) {
	converted, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(ChainPrefix, converted)
}

func (c contractInit) intoContract(codeHash CodeHash) Contract {
	return Contract{Address: c.address, CodeHash: codeHash}
}

// Contract identifies a deployed contract instance.
type Contract struct {
	Address  string
	CodeHash CodeHash
}

// Event is one attribute-bearing event emitted by a broadcast transaction.
type Event struct {
	Type  string
	Attrs map[string]string
}

// TxResponse wraps a decoded message response together with the
// transaction's gas usage and emitted events.
type TxResponse[T any] struct {
	Response *T
	GasUsed  uint64
	Events   []Event
}

// EventAttr finds the named attribute of the first event of the given
// type, or returns ("", false) if no such event/attribute exists.
func (r TxResponse[T]) EventAttr(eventType, attr string) (string, bool) {
	for _, e := range r.Events {
		if e.Type == eventType {
			v, ok := e.Attrs[attr]
			return v, ok
		}
	}
	return "", false
}

// IntoInner returns the decoded response, panicking if none is present.
// Mirrors the original's explicit "panics if None" contract: callers that
// reach here already know the broadcast succeeded.
func (r TxResponse[T]) IntoInner() T {
	if r.Response == nil {
		panic("client: TxResponse has no inner value")
	}
	return *r.Response
}

func mapTxResponse[T, U any](r TxResponse[T], f func(T) U) TxResponse[U] {
	out := TxResponse[U]{GasUsed: r.GasUsed, Events: r.Events}
	if r.Response != nil {
		mapped := f(*r.Response)
		out.Response = &mapped
	}
	return out
}

func tryMapTxResponse[T, U any](r TxResponse[T], f func(T) (U, error)) (TxResponse[U], error) {
	out := TxResponse[U]{GasUsed: r.GasUsed, Events: r.Events}
	if r.Response != nil {
		mapped, err := f(*r.Response)
		if err != nil {
			return TxResponse[U]{}, err
		}
		out.Response = &mapped
	}
	return out, nil
}

// AccountInfo is the subset of a BaseAccount this client needs to build
// a SignDoc.
type AccountInfo struct {
	AccountNumber  uint64
	SequenceNumber uint64
}
