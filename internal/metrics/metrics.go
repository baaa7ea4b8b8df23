// Package metrics 服务自身的 Prometheus 指标，使用独立 registry，经 /metrics 暴露
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 上游请求类型
const (
	KindPrematch = "prematch"
	KindLive     = "live"
)

// Metrics 所有方法对 nil 接收者安全，测试里可以直接传 nil
type Metrics struct {
	registry *prometheus.Registry

	UpstreamRequests      *prometheus.CounterVec
	PersistenceFailures   *prometheus.CounterVec
	ConsolidationDuration *prometheus.HistogramVec
	Markets               *prometheus.GaugeVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oddssync_upstream_requests_total",
				Help: "上游赔率接口请求次数",
			},
			[]string{"kind", "status"},
		),
		PersistenceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oddssync_persistence_failures_total",
				Help: "落库失败次数",
			},
			[]string{"table"},
		),
		ConsolidationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "oddssync_consolidation_duration_seconds",
				Help:    "单次合并（拉取+合并+落库）耗时",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"sport", "mode"},
		),
		Markets: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "oddssync_markets",
				Help: "最近一次合并输出的盘口数量",
			},
			[]string{"sport", "mode"},
		),
	}

	registry.MustRegister(
		m.UpstreamRequests,
		m.PersistenceFailures,
		m.ConsolidationDuration,
		m.Markets,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Registry 供 promhttp.HandlerFor 使用
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveUpstream status 为 HTTP 状态码，0 表示请求没发出去或没拿到响应
func (m *Metrics) ObserveUpstream(kind string, status int) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(kind, label).Inc()
}

func (m *Metrics) PersistenceFailed(table string) {
	if m == nil {
		return
	}
	m.PersistenceFailures.WithLabelValues(table).Inc()
}

// ObserveConsolidation 记录耗时和输出盘口数
func (m *Metrics) ObserveConsolidation(sport, mode string, start time.Time, markets int) {
	if m == nil {
		return
	}
	m.ConsolidationDuration.WithLabelValues(sport, mode).Observe(time.Since(start).Seconds())
	m.Markets.WithLabelValues(sport, mode).Set(float64(markets))
}
