// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics = noopMetrics{}

	Counter("count").Add(1)
	CounterVec("countVec", []string{"status"}).AddWithLabel(1, map[string]string{"status": "ok"})
	Gauge("gauge").Set(3)
	GaugeVec("gaugeVec", []string{"k"}).SetWithLabel(1, map[string]string{"nonsense": "fine"})
	Histogram("hist", BucketCallActions).Observe(2)

	require.IsType(t, noopMeter{}, Counter("count"))
	require.Nil(t, HTTPHandler())
}

func TestPromMetrics(t *testing.T) {
	lazy := LazyLoadCounterVec("calls_total", []string{"status"})
	InitializePrometheusMetrics()
	t.Cleanup(func() { metrics = noopMetrics{} })

	lazy().AddWithLabel(2, map[string]string{"status": "ok"})
	CounterVec("calls_total", []string{"status"}).AddWithLabel(1, map[string]string{"status": "reverted"})
	Gauge("accounts").Set(7)
	Histogram("actions", BucketCallActions).Observe(3)
	require.Same(t, Gauge("accounts"), Gauge("accounts"))

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	calls := byName["shardstake_calls_total"]
	require.NotNil(t, calls)
	var total float64
	for _, m := range calls.Metric {
		total += m.GetCounter().GetValue()
	}
	require.Equal(t, float64(3), total)
	require.Equal(t, float64(7), byName["shardstake_accounts"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(3), byName["shardstake_actions"].Metric[0].GetHistogram().GetSampleSum())
	require.NotNil(t, HTTPHandler())
}
