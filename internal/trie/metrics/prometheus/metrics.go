// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package prometheus implements the trie storage metrics
// using prometheus collectors.
package prometheus

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mpt_storage"

// Metrics holds the prometheus collectors of the trie storage.
type Metrics struct {
	nodesInserted  prometheus.Counter
	nodesDeleted   prometheus.Counter
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	headGeneration prometheus.Gauge
	baseGeneration prometheus.Gauge
	nodesPruned    prometheus.Counter
	pruneBlocked   prometheus.Counter
}

// New creates the metrics collectors and registers them on the
// registerer given. Collectors already registered are reused.
func New(registerer prometheus.Registerer) (metrics *Metrics, err error) {
	metrics = &Metrics{
		nodesInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_inserted_total",
			Help:      "total number of nodes written to the node store",
		}),
		nodesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_deleted_total",
			Help:      "total number of nodes deleted from the node store",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_cache_hits_total",
			Help:      "total number of node reads served by the node cache",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_cache_misses_total",
			Help:      "total number of node reads going to the database",
		}),
		headGeneration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "head_generation",
			Help:      "generation of the last committed trie root",
		}),
		baseGeneration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "base_generation",
			Help:      "oldest retained generation",
		}),
		nodesPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_pruned_total",
			Help:      "total number of node reference decrements applied by pruning",
		}),
		pruneBlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prune_blocked_total",
			Help:      "total number of prunes refused because of a pinned generation",
		}),
	}

	counters := map[string]*prometheus.Counter{
		"nodes inserted": &metrics.nodesInserted,
		"nodes deleted":  &metrics.nodesDeleted,
		"cache hits":     &metrics.cacheHits,
		"cache misses":   &metrics.cacheMisses,
		"nodes pruned":   &metrics.nodesPruned,
		"prune blocked":  &metrics.pruneBlocked,
	}
	for name, counter := range counters {
		collector, err := register(registerer, *counter)
		if err != nil {
			return nil, fmt.Errorf("cannot register %s counter: %w", name, err)
		}
		*counter = collector.(prometheus.Counter)
	}

	gauges := map[string]*prometheus.Gauge{
		"head generation": &metrics.headGeneration,
		"base generation": &metrics.baseGeneration,
	}
	for name, gauge := range gauges {
		collector, err := register(registerer, *gauge)
		if err != nil {
			return nil, fmt.Errorf("cannot register %s gauge: %w", name, err)
		}
		*gauge = collector.(prometheus.Gauge)
	}

	return metrics, nil
}

// register registers the collector, returning the collector already
// registered if an identical one was registered previously.
func register(registerer prometheus.Registerer, collector prometheus.Collector) (
	registered prometheus.Collector, err error) {
	err = registerer.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		return alreadyRegisteredErr.ExistingCollector, nil
	}
	return nil, err
}

// NodesInserted adds n to the count of nodes written to the store.
func (m *Metrics) NodesInserted(n uint) {
	m.nodesInserted.Add(float64(n))
}

// NodesDeleted adds n to the count of nodes deleted from the store.
func (m *Metrics) NodesDeleted(n uint) {
	m.nodesDeleted.Add(float64(n))
}

// CacheHit increments the node cache hits counter.
func (m *Metrics) CacheHit() {
	m.cacheHits.Inc()
}

// CacheMiss increments the node cache misses counter.
func (m *Metrics) CacheMiss() {
	m.cacheMisses.Inc()
}

// Committed sets the head generation gauge.
func (m *Metrics) Committed(headGeneration uint64) {
	m.headGeneration.Set(float64(headGeneration))
}

// Pruned sets the base generation gauge and adds the number of
// reference decrements applied to the pruned nodes counter.
func (m *Metrics) Pruned(baseGeneration uint64, decrements uint) {
	m.baseGeneration.Set(float64(baseGeneration))
	m.nodesPruned.Add(float64(decrements))
}

// PruneBlocked increments the prune blocked counter.
func (m *Metrics) PruneBlocked() {
	m.pruneBlocked.Inc()
}
