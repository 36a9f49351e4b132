// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package metrics exposes simulation statistics to Prometheus.
//
package metrics

import (
	"sync"

	"github.com/db47h/seqsim/mem"
	"github.com/prometheus/client_golang/prometheus"
)

// ComponentLabel labels per component metrics.
//
const ComponentLabel = "component"

var (
	stepsDesc = prometheus.NewDesc("seqsim_steps_total",
		"Number of simulation steps run.", nil, nil)
	componentsDesc = prometheus.NewDesc("seqsim_components",
		"Number of components in the circuit.", nil, nil)
	pagesDesc = prometheus.NewDesc("seqsim_store_pages",
		"Number of allocated memory pages.", []string{ComponentLabel}, nil)
	wordsDesc = prometheus.NewDesc("seqsim_store_words",
		"Size of memory stores, in words.", []string{ComponentLabel}, nil)
)

type store struct {
	pages int
	words uint64
}

// Collector is a prometheus.Collector serving the last snapshot taken with
// Update. Snapshots are taken by the goroutine running the simulation so
// that the simulation state is never read concurrently.
//
type Collector struct {
	mu         sync.Mutex
	steps      uint
	components int
	stores     map[string]store
}

// NewCollector returns a new, empty Collector.
//
func NewCollector() *Collector {
	return &Collector{stores: make(map[string]store)}
}

// Update takes a snapshot of the simulation statistics.
//
func (c *Collector) Update(steps uint, components int, stores map[string]*mem.Store) {
	m := make(map[string]store, len(stores))
	for n, s := range stores {
		m[n] = store{pages: s.Pages(), words: s.Size()}
	}
	c.mu.Lock()
	c.steps, c.components, c.stores = steps, components, m
	c.mu.Unlock()
}

// Describe implements prometheus.Collector.
//
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- stepsDesc
	ch <- componentsDesc
	ch <- pagesDesc
	ch <- wordsDesc
}

// Collect implements prometheus.Collector.
//
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch <- prometheus.MustNewConstMetric(stepsDesc, prometheus.CounterValue, float64(c.steps))
	ch <- prometheus.MustNewConstMetric(componentsDesc, prometheus.GaugeValue, float64(c.components))
	for n, s := range c.stores {
		ch <- prometheus.MustNewConstMetric(pagesDesc, prometheus.GaugeValue, float64(s.pages), n)
		ch <- prometheus.MustNewConstMetric(wordsDesc, prometheus.GaugeValue, float64(s.words), n)
	}
}
