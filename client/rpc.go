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
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/scrtlabs/localsecret-go/internal/logger"
	"github.com/scrtlabs/localsecret-go/internal/metrics"
)

const (
	firstBlockHealthyTimeout = 60 * time.Second
	firstBlockAttemptDelay   = 500 * time.Millisecond
	firstBlockAttempts       = 20
)

// rpcClient is a minimal Tendermint/CometBFT JSON-RPC client over HTTP,
// speaking only the handful of methods this package needs.
type rpcClient struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

func newRPCClient(baseURL string, log logger.Logger) *rpcClient {
	return &rpcClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

type jsonRPCRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *jsonRPCError   `json:"error"`
}

func (c *rpcClient) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	start := time.Now()

	reqID := uuid.NewString()
	body, err := json.Marshal(jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		c.recordRPC(method, reqID, start, false)
		return errJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		c.recordRPC(method, reqID, start, false)
		return errRPC(err, "building request for %s", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.recordRPC(method, reqID, start, false)
		return errRPC(err, "request %s failed", method)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordRPC(method, reqID, start, false)
		return errRPC(err, "reading response for %s", method)
	}

	var rpcResp jsonRPCResponse
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		c.recordRPC(method, reqID, start, false)
		return errJSON(err)
	}
	if rpcResp.Error != nil {
		c.recordRPC(method, reqID, start, false)
		return errRPC(nil, "%s: %s (%s)", method, rpcResp.Error.Message, rpcResp.Error.Data)
	}

	c.recordRPC(method, reqID, start, true)

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return errJSON(err)
	}
	return nil
}

func (c *rpcClient) recordRPC(method, reqID string, start time.Time, ok bool) {
	dur := time.Since(start)
	result := "ok"
	if !ok {
		result = "error"
	}
	metrics.RPCRequests.WithLabelValues(method, result).Inc()
	metrics.RPCRequestDuration.WithLabelValues(method).Observe(dur.Seconds())
	metrics.GetGlobalCollector().RecordRPCCall(ok, dur)

	if c.log != nil {
		c.log.Debug("rpc call",
			logger.String("method", method),
			logger.String("request_id", reqID),
			logger.Duration("duration", dur),
			logger.Bool("ok", ok))
	}
}

// abciQueryResult mirrors the fields of Tendermint's abci_query response
// this client inspects; the rest of the envelope is ignored.
type abciQueryResult struct {
	Response struct {
		Code  uint32 `json:"code"`
		Log   string `json:"log"`
		Value string `json:"value"` // base64
	} `json:"response"`
}

// abciQuery executes a raw ABCI query against the given path, returning
// the decoded (base64-unwrapped) response bytes.
func (c *rpcClient) abciQuery(ctx context.Context, path string, data []byte) ([]byte, error) {
	var result abciQueryResult
	err := c.call(ctx, "abci_query", map[string]interface{}{
		"path": path,
		"data": fmt.Sprintf("%X", data),
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Response.Code != 0 {
		return nil, errAbciQuery(result.Response.Log)
	}
	if result.Response.Value == "" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(result.Response.Value)
}

type broadcastTxCommitResult struct {
	CheckTx struct {
		Code uint32 `json:"code"`
		Log  string `json:"log"`
	} `json:"check_tx"`
	DeliverTx struct {
		Code    uint32 `json:"code"`
		Log     string `json:"log"`
		GasUsed string `json:"gas_used"`
		Data    string `json:"data"` // base64
		Events  []struct {
			Type       string `json:"type"`
			Attributes []struct {
				Key   string `json:"key"`
				Value string `json:"value"`
			} `json:"attributes"`
		} `json:"events"`
	} `json:"deliver_tx"`
}

func (c *rpcClient) broadcastTxCommit(ctx context.Context, txBytes []byte) (*broadcastTxCommitResult, error) {
	var result broadcastTxCommitResult
	err := c.call(ctx, "broadcast_tx_commit", map[string]interface{}{
		"tx": base64.StdEncoding.EncodeToString(txBytes),
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type latestBlockResult struct {
	Block struct {
		Header struct {
			Height string `json:"height"`
		} `json:"header"`
	} `json:"block"`
}

func (c *rpcClient) latestBlock(ctx context.Context) (*latestBlockResult, error) {
	var result latestBlockResult
	if err := c.call(ctx, "block", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type statusResult struct {
	SyncInfo struct {
		CatchingUp bool `json:"catching_up"`
	} `json:"sync_info"`
}

// waitUntilHealthy polls the node's status endpoint until it responds and
// reports it is done catching up, or the context/timeout elapses.
func (c *rpcClient) waitUntilHealthy(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		var status statusResult
		err := c.call(ctx, "status", nil, &status)
		if err == nil && !status.SyncInfo.CatchingUp {
			return nil
		}
		if time.Now().After(deadline) {
			return errFirstBlockTimeout(int(timeout.Seconds()))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}

// waitForFirstBlock blocks until the node is healthy and has produced at
// least one block, matching the localsecret startup contract: the RPC
// port opens before the chain has finished its first round of consensus.
func waitForFirstBlock(ctx context.Context, rpc *rpcClient) error {
	if err := rpc.waitUntilHealthy(ctx, firstBlockHealthyTimeout); err != nil {
		return errFirstBlockTimeout(int(firstBlockHealthyTimeout.Seconds()))
	}

	for i := 0; i < firstBlockAttempts; i++ {
		if _, err := rpc.latestBlock(ctx); err == nil {
			return nil
		}
		time.Sleep(firstBlockAttemptDelay)
	}

	total := firstBlockHealthyTimeout + firstBlockAttempts*firstBlockAttemptDelay
	return errFirstBlockTimeout(int(total.Seconds()))
}
