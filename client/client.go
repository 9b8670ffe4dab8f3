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

// Package client is the localsecret RPC client: it talks to a running
// secretdev/localsecret node over Tendermint JSON-RPC, signs and broadcasts
// compute-module transactions, and handles the confidential-execution
// envelope transparently so callers work with plain JSON messages.
package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cosmos/btcutil/bech32"

	"github.com/scrtlabs/localsecret-go/attestation"
	"github.com/scrtlabs/localsecret-go/internal/logger"
	"github.com/scrtlabs/localsecret-go/internal/metrics"
)

// ChainID is secretdev's fixed localnet chain id.
const ChainID = "secretdev-1"

// Client is a connection to a single localsecret/secretdev RPC endpoint.
// A Client is safe for concurrent use.
type Client struct {
	rpc     *rpcClient
	chainID string
	log     logger.Logger

	enclaveKeyMu sync.Mutex
	enclaveKey   []byte

	collector *metrics.Collector

	labelCounter atomic.Uint64
}

// New creates a Client talking to the Tendermint RPC endpoint at rpcURL
// (e.g. "http://localhost:26657"). It does not block on node readiness;
// call WaitForFirstBlock for that.
func New(rpcURL string, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewDefaultLogger()
	}
	return &Client{
		rpc:       newRPCClient(rpcURL, log),
		chainID:   ChainID,
		log:       log,
		collector: metrics.GetGlobalCollector(),
	}
}

// WithChainID overrides the chain id used when signing transactions,
// useful against a non-default localsecret deployment.
func (c *Client) WithChainID(chainID string) *Client {
	c.chainID = chainID
	return c
}

// WaitForFirstBlock blocks until the node is healthy and has produced its
// first block, or returns an error once the retry budget is exhausted.
func (c *Client) WaitForFirstBlock(ctx context.Context) error {
	return waitForFirstBlock(ctx, c.rpc)
}

// LastBlockHeight returns the height of the most recently committed block.
func (c *Client) LastBlockHeight(ctx context.Context) (uint64, error) {
	res, err := c.rpc.latestBlock(ctx)
	if err != nil {
		return 0, err
	}
	return parseUintOrZero(res.Block.Header.Height), nil
}

// SeedEnclaveIOPublicKey seeds the cached consensus I/O public key from a
// hex string, skipping the enclave-key discovery query entirely. Used by
// Session when an operator supplies the key out of band.
func (c *Client) SeedEnclaveIOPublicKey(keyHex string) error {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return errParseTEECert(err, "invalid enclave key hex")
	}
	if len(key) != 32 {
		return errParseTEECert(nil, "enclave key must decode to 32 bytes, got %d", len(key))
	}
	c.enclaveKeyMu.Lock()
	defer c.enclaveKeyMu.Unlock()
	c.enclaveKey = key
	return nil
}

// NextUnnamedLabel returns the next label in this Client's monotonic
// unnamed_0, unnamed_1, ... sequence, used as a last-resort default for
// InitContract when the caller supplies no label.
func (c *Client) NextUnnamedLabel() string {
	return fmt.Sprintf("unnamed_%d", c.labelCounter.Add(1)-1)
}

// EnclaveKeyMisses returns the number of times this process has had to
// fetch the consensus I/O public key via a TxKey ABCI query rather than
// serving it from cache. It is a process-wide counter, not scoped to this
// Client, since the underlying collector is shared.
func (c *Client) EnclaveKeyMisses() int64 {
	return c.collector.GetSnapshot().EnclaveKeyMiss
}

func (c *Client) abciQuery(ctx context.Context, path string, data []byte) ([]byte, error) {
	return c.rpc.abciQuery(ctx, path, data)
}

func (c *Client) ioKeyFromCert(certDER []byte) ([]byte, error) {
	pubKey, err := attestation.ConsensusIOPublicKey(certDER)
	if err != nil {
		return nil, errParseTEECert(err, "failed to extract consensus I/O public key")
	}
	return pubKey, nil
}

func bech32Decode(addr string) (string, []byte, error) {
	hrp, data, err := bech32.Decode(addr, 1023)
	if err != nil {
		return "", nil, err
	}
	converted, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, err
	}
	return hrp, converted, nil
}

func parseUintOrZero(s string) uint64 {
	var n uint64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + uint64(r-'0')
	}
	return n
}
