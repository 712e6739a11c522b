// metrics.go - Metrics collection for the e-cash daemon
package main

import (
	"sort"
	"strings"
	"sync"
	"time"

	"ecash/internal/ecash"
)

// MetricType represents the type of metric
type MetricType string

const (
	Counter   MetricType = "counter"
	Gauge     MetricType = "gauge"
	Histogram MetricType = "histogram"
)

// maxHistogramSamples bounds the samples kept per histogram.
const maxHistogramSamples = 1000

// Metric represents a single metric
type Metric struct {
	Name      string            `json:"name"`
	Type      MetricType        `json:"type"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// MetricsCollector manages metrics collection
type MetricsCollector struct {
	mu         sync.RWMutex
	metrics    map[string]*Metric
	counters   map[string]int64
	gauges     map[string]float64
	histograms map[string][]float64
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics:    make(map[string]*Metric),
		counters:   make(map[string]int64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

// IncrementCounter increments a counter metric
func (mc *MetricsCollector) IncrementCounter(name string, labels map[string]string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	key := makeKey(name, labels)
	mc.counters[key]++
	mc.updateMetric(key, name, Counter, float64(mc.counters[key]), labels)
}

// SetGauge sets a gauge metric value
func (mc *MetricsCollector) SetGauge(name string, value float64, labels map[string]string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	key := makeKey(name, labels)
	mc.gauges[key] = value
	mc.updateMetric(key, name, Gauge, value, labels)
}

// RecordHistogram records a value in a histogram
func (mc *MetricsCollector) RecordHistogram(name string, value float64, labels map[string]string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	key := makeKey(name, labels)
	values := append(mc.histograms[key], value)
	if len(values) > maxHistogramSamples {
		values = values[len(values)-maxHistogramSamples:]
	}
	mc.histograms[key] = values
	mc.updateMetric(key, name, Histogram, value, labels)
}

// GetMetric retrieves a metric by name and labels
func (mc *MetricsCollector) GetMetric(name string, labels map[string]string) *Metric {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.metrics[makeKey(name, labels)]
}

// Counter returns the current value of a counter, 0 if unset.
func (mc *MetricsCollector) Counter(name string, labels map[string]string) int64 {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.counters[makeKey(name, labels)]
}

// GetMetricsSummary returns a summary of all metrics
func (mc *MetricsCollector) GetMetricsSummary() map[string]interface{} {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	counters := make(map[string]int64, len(mc.counters))
	for key, v := range mc.counters {
		counters[key] = v
	}
	gauges := make(map[string]float64, len(mc.gauges))
	for key, v := range mc.gauges {
		gauges[key] = v
	}

	histograms := make(map[string]map[string]float64)
	for key, values := range mc.histograms {
		if len(values) == 0 {
			continue
		}
		h := map[string]float64{
			"count": float64(len(values)),
			"min":   values[0],
			"max":   values[0],
		}
		var sum float64
		for _, v := range values {
			if v < h["min"] {
				h["min"] = v
			}
			if v > h["max"] {
				h["max"] = v
			}
			sum += v
		}
		h["sum"] = sum
		h["avg"] = sum / h["count"]
		histograms[key] = h
	}

	return map[string]interface{}{
		"counters":   counters,
		"gauges":     gauges,
		"histograms": histograms,
	}
}

// makeKey creates a deterministic key for a metric name and labels
func makeKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		b.WriteString("_" + k + "_" + labels[k])
	}
	return b.String()
}

func (mc *MetricsCollector) updateMetric(key, name string, metricType MetricType, value float64, labels map[string]string) {
	mc.metrics[key] = &Metric{
		Name:      name,
		Type:      metricType,
		Value:     value,
		Labels:    labels,
		Timestamp: time.Now(),
	}
}

// Predefined metric names
const (
	MetricCoinsIssued         = "coins_issued"
	MetricCoinsAccepted       = "coins_accepted"
	MetricCoinsRejected       = "coins_rejected"
	MetricVerdicts            = "verdicts"
	MetricAcceptLatency       = "accept_latency"
	MetricProofGenerationTime = "proof_generation_time"
	MetricSetupTime           = "setup_time"
)

// Convenience methods for common metrics
func (mc *MetricsCollector) RecordIssued(amount int64) {
	mc.IncrementCounter(MetricCoinsIssued, nil)
	mc.SetGauge("last_issued_amount", float64(amount), nil)
}

func (mc *MetricsCollector) RecordAccepted(merchant string, duration time.Duration) {
	mc.IncrementCounter(MetricCoinsAccepted, map[string]string{"merchant": merchant})
	mc.RecordHistogram(MetricAcceptLatency, duration.Seconds(), nil)
}

// RecordRejected counts a failed acceptance under the error class that caused it.
func (mc *MetricsCollector) RecordRejected(merchant string, err error) {
	mc.IncrementCounter(MetricCoinsRejected, map[string]string{"merchant": merchant, "reason": rejectReason(err)})
}

func (mc *MetricsCollector) RecordVerdict(kind ecash.VerdictKind) {
	mc.IncrementCounter(MetricVerdicts, map[string]string{"kind": kind.String()})
}

func (mc *MetricsCollector) RecordProofGeneration(duration time.Duration) {
	mc.RecordHistogram(MetricProofGenerationTime, duration.Seconds(), nil)
}

func (mc *MetricsCollector) RecordSetup(component string, duration time.Duration) {
	mc.RecordHistogram(MetricSetupTime, duration.Seconds(), map[string]string{"component": component})
}
