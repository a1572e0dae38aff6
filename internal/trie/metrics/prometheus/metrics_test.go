// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()

	metrics, err := New(registry)
	require.NoError(t, err)

	metrics.NodesInserted(3)
	metrics.NodesDeleted(1)
	metrics.CacheHit()
	metrics.CacheMiss()
	metrics.CacheMiss()
	metrics.Committed(7)
	metrics.Pruned(5, 4)
	metrics.PruneBlocked()

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.nodesInserted))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.nodesDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.cacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.cacheMisses))
	assert.Equal(t, 7.0, testutil.ToFloat64(metrics.headGeneration))
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.baseGeneration))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.nodesPruned))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.pruneBlocked))

	// registering again reuses the registered collectors
	other, err := New(registry)
	require.NoError(t, err)
	other.CacheHit()
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.cacheHits))
}
