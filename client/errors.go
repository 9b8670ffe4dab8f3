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

import "fmt"

// Kind classifies what went wrong during a client operation. It plays the
// role the original's per-variant error enum does, rendered as a single
// tagged struct so callers can match by kind, either by inspecting
// Error.Kind via errors.As or with errors.Is against an *Error carrying
// the Kind value below.
type Kind int

const (
	KindRuntime Kind = iota
	KindRPC
	KindContractFile
	KindContractLabelExists
	KindContractInfoNotFound
	KindAccountNotFound
	KindFirstBlockTimeout
	KindAbciQuery
	KindBroadcastTxCheck
	KindBroadcastTxDeliver
	KindProtobufDecode
	KindJSON
	KindBase64
	KindUTF8
	KindCrypto
	KindParseTEECert
	KindParseMsgResponse
)

func (k Kind) String() string {
	switch k {
	case KindRuntime:
		return "runtime"
	case KindRPC:
		return "rpc"
	case KindContractFile:
		return "contract_file"
	case KindContractLabelExists:
		return "contract_label_exists"
	case KindContractInfoNotFound:
		return "contract_info_not_found"
	case KindAccountNotFound:
		return "account_not_found"
	case KindFirstBlockTimeout:
		return "first_block_timeout"
	case KindAbciQuery:
		return "abci_query"
	case KindBroadcastTxCheck:
		return "broadcast_tx_check"
	case KindBroadcastTxDeliver:
		return "broadcast_tx_deliver"
	case KindProtobufDecode:
		return "protobuf_decode"
	case KindJSON:
		return "json"
	case KindBase64:
		return "base64"
	case KindUTF8:
		return "utf8"
	case KindCrypto:
		return "crypto"
	case KindParseTEECert:
		return "parse_tee_cert"
	case KindParseMsgResponse:
		return "parse_msg_response"
	default:
		return "unknown"
	}
}

// Error is the single error type every exported operation in this module
// returns. Msg carries the human-readable detail; Cause, when present, is
// the underlying error this one wraps.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, &client.Error{Kind: k}) match by kind alone,
// ignoring Msg and Cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

func errRuntime(cause error, format string, args ...interface{}) *Error {
	return newErr(KindRuntime, cause, format, args...)
}
func errRPC(cause error, format string, args ...interface{}) *Error {
	return newErr(KindRPC, cause, format, args...)
}
func errContractFile(cause error, path string) *Error {
	return newErr(KindContractFile, cause, "failed to read contract file: %s", path)
}
func errContractLabelExists(label string) *Error {
	return newErr(KindContractLabelExists, nil, "contract with label %q already deployed", label)
}
func errContractInfoNotFound(codeID uint64) *Error {
	return newErr(KindContractInfoNotFound, nil, "contract info not found for code id %d", codeID)
}
func errAccountNotFound(addr string) *Error {
	return newErr(KindAccountNotFound, nil, "account %s not found", addr)
}
func errFirstBlockTimeout(seconds int) *Error {
	return newErr(KindFirstBlockTimeout, nil, "timed out waiting for first block after %d seconds", seconds)
}
func errAbciQuery(msg string) *Error {
	return newErr(KindAbciQuery, nil, "abci query failed: %s", msg)
}
func errBroadcastTxCheck(msg string) *Error {
	return newErr(KindBroadcastTxCheck, nil, "broadcast error - check tx failed: %s", msg)
}
func errBroadcastTxDeliver(msg string) *Error {
	return newErr(KindBroadcastTxDeliver, nil, "broadcast error - deliver tx failed: %s", msg)
}
func errProtobufDecode(cause error) *Error {
	return newErr(KindProtobufDecode, cause, "decoding protobuf response failed")
}
func errJSON(cause error) *Error {
	return newErr(KindJSON, cause, "failed to deserialize JSON response")
}
func errBase64(cause error) *Error {
	return newErr(KindBase64, cause, "failed to decode base64 response")
}
func errUTF8(cause error) *Error {
	return newErr(KindUTF8, cause, "response was not valid UTF-8")
}
func errCrypto(cause error, format string, args ...interface{}) *Error {
	return newErr(KindCrypto, cause, format, args...)
}
func errParseTEECert(cause error, format string, args ...interface{}) *Error {
	return newErr(KindParseTEECert, cause, format, args...)
}
func errParseMsgResponse(cause error, format string, args ...interface{}) *Error {
	return newErr(KindParseMsgResponse, cause, format, args...)
}
