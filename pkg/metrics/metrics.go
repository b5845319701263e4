// Package metrics 排班服务的 Prometheus 指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shiftgrid"

// Metrics 指标集合，使用独立 Registry 以便测试中重复创建
type Metrics struct {
	reg *prometheus.Registry

	GenerationRuns        *prometheus.CounterVec
	GenerationDuration    prometheus.Histogram
	GenerationAssignments prometheus.Counter
	GenerationWarnings    prometheus.Counter
	LockContention        prometheus.Counter
	HTTPRequests          *prometheus.CounterVec
	HTTPLatency           *prometheus.HistogramVec
}

// New 创建并注册全部指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		GenerationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_runs_total",
			Help:      "排班生成次数（按结果状态）",
		}, []string{"status"}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "单次排班生成耗时",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		GenerationAssignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_assignments_total",
			Help:      "排班生成写入的单元格数",
		}),
		GenerationWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_warnings_total",
			Help:      "排班生成产生的警告数",
		}),
		LockContention: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_lock_contention_total",
			Help:      "因同月生成正在进行而被拒绝的请求数",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP 请求数",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.GenerationRuns,
		m.GenerationDuration,
		m.GenerationAssignments,
		m.GenerationWarnings,
		m.LockContention,
		m.HTTPRequests,
		m.HTTPLatency,
	)
	return m
}

// ObserveGeneration 记录一次生成的结果
func (m *Metrics) ObserveGeneration(status string, elapsed time.Duration, assignments, warnings int) {
	if m == nil {
		return
	}
	m.GenerationRuns.WithLabelValues(status).Inc()
	m.GenerationDuration.Observe(elapsed.Seconds())
	m.GenerationAssignments.Add(float64(assignments))
	m.GenerationWarnings.Add(float64(warnings))
}

// ObserveLockContention 记录一次锁冲突
func (m *Metrics) ObserveLockContention() {
	if m == nil {
		return
	}
	m.LockContention.Inc()
}

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// GinMiddleware 按路由模板统计请求数与耗时
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
