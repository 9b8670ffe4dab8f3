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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRegistration(t *testing.T) {
	if RPCRequests == nil {
		t.Error("RPCRequests metric is nil")
	}
	if RPCRequestDuration == nil {
		t.Error("RPCRequestDuration metric is nil")
	}
	if BroadcastOutcomes == nil {
		t.Error("BroadcastOutcomes metric is nil")
	}

	if SessionsCreated == nil {
		t.Error("SessionsCreated metric is nil")
	}
	if SessionsActive == nil {
		t.Error("SessionsActive metric is nil")
	}
	if SessionsClosed == nil {
		t.Error("SessionsClosed metric is nil")
	}
	if SessionDuration == nil {
		t.Error("SessionDuration metric is nil")
	}

	if CryptoOperations == nil {
		t.Error("CryptoOperations metric is nil")
	}
	if EnclaveKeyCache == nil {
		t.Error("EnclaveKeyCache metric is nil")
	}
}

func TestMetricsIncrement(t *testing.T) {
	RPCRequests.WithLabelValues("abci_query", "ok").Inc()
	RPCRequestDuration.WithLabelValues("abci_query").Observe(0.05)
	BroadcastOutcomes.WithLabelValues("exec", "delivered").Inc()

	SessionsCreated.WithLabelValues("success").Inc()
	SessionsActive.Inc()
	SessionsClosed.Inc()
	SessionDuration.WithLabelValues("spawn").Observe(1.5)

	CryptoOperations.WithLabelValues("encrypt", "aes-siv").Inc()
	CryptoOperations.WithLabelValues("decrypt", "aes-siv").Inc()
	EnclaveKeyCache.WithLabelValues("miss").Inc()

	if count := testutil.CollectAndCount(RPCRequests); count == 0 {
		t.Error("RPCRequests has no metrics collected")
	}
	if count := testutil.CollectAndCount(SessionsCreated); count == 0 {
		t.Error("SessionsCreated has no metrics collected")
	}
	if count := testutil.CollectAndCount(CryptoOperations); count == 0 {
		t.Error("CryptoOperations has no metrics collected")
	}
}

func TestCollectorSnapshot(t *testing.T) {
	c := NewCollector()
	c.RecordRPCCall(true, 0)
	c.RecordRPCCall(false, 0)
	c.RecordBroadcast(true)
	c.RecordEnclaveKeyLookup(true)
	c.RecordEnclaveKeyLookup(false)

	snap := c.GetSnapshot()
	if snap.RPCCalls != 2 {
		t.Errorf("expected 2 RPC calls, got %d", snap.RPCCalls)
	}
	if snap.RPCErrors != 1 {
		t.Errorf("expected 1 RPC error, got %d", snap.RPCErrors)
	}
	if rate := snap.EnclaveKeyCacheHitRate(); rate != 50 {
		t.Errorf("expected 50%% cache hit rate, got %v", rate)
	}
}
