// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"
)

// metrics is the process wide meter factory. It stays a no-op until InitializePrometheusMetrics.
var metrics Metrics = noopMetrics{}

// Metrics creates meters by name.
type Metrics interface {
	Counter(name string) CountMeter
	CounterVec(name string, labels []string) CountVecMeter
	Gauge(name string) GaugeMeter
	GaugeVec(name string, labels []string) GaugeVecMeter
	Histogram(name string, buckets []int64) HistogramMeter
	Handler() http.Handler
}

// BucketCallActions buckets the number of outbound actions scheduled by one call.
var BucketCallActions = []int64{0, 1, 2, 4, 8, 16, 32}

// BucketHTTPReqs buckets request durations in milliseconds.
var BucketHTTPReqs = []int64{0, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}

// CountMeter is a monotonically increasing counter.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter is a counter partitioned by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter is a value that goes up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

// GaugeVecMeter is a gauge partitioned by labels.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

// HistogramMeter aggregates observations into buckets.
type HistogramMeter interface {
	Observe(int64)
}

func Counter(name string) CountMeter { return metrics.Counter(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.CounterVec(name, labels)
}

func Gauge(name string) GaugeMeter { return metrics.Gauge(name) }

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return metrics.GaugeVec(name, labels)
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return metrics.Histogram(name, buckets)
}

// HTTPHandler serves the current meters, or nil when metrics are disabled.
func HTTPHandler() http.Handler {
	return metrics.Handler()
}

// LazyLoad defers creating a meter until first use, so package level meters
// bind to whichever implementation is active at that moment.
func LazyLoad[T any](f func() T) func() T {
	var (
		result T
		once   sync.Once
	)
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return LazyLoad(func() GaugeVecMeter { return GaugeVec(name, labels) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}

type noopMetrics struct{}

func (noopMetrics) Counter(string) CountMeter                   { return noopMeter{} }
func (noopMetrics) CounterVec(string, []string) CountVecMeter   { return noopMeter{} }
func (noopMetrics) Gauge(string) GaugeMeter                     { return noopMeter{} }
func (noopMetrics) GaugeVec(string, []string) GaugeVecMeter     { return noopMeter{} }
func (noopMetrics) Histogram(string, []int64) HistogramMeter    { return noopMeter{} }
func (noopMetrics) Handler() http.Handler                       { return nil }

type noopMeter struct{}

func (noopMeter) Add(int64)                             {}
func (noopMeter) Set(int64)                             {}
func (noopMeter) Observe(int64)                         {}
func (noopMeter) AddWithLabel(int64, map[string]string) {}
func (noopMeter) SetWithLabel(int64, map[string]string) {}
