// Package metrics 提供基于Prometheus的指标收集
//
// 指标类型速查：
// - Counter（计数器）：只增不减，如搜索请求总数
// - Gauge（仪表盘）：可增可减的瞬时值，如处理中的请求数
// - Histogram（直方图）：观测值分布，自动计算P50/P90/P99，如查询耗时
//
// 使用方式：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//	metrics.SearchRequestsTotal.WithLabelValues("relational", "title").Inc()
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 搜索业务指标

	// SearchRequestsTotal 搜索请求总数（Counter）
	// 标签：backend（relational/index）、filter（title/author/category/tag/ids/keyword）
	SearchRequestsTotal *prometheus.CounterVec

	// SearchDuration 搜索执行耗时（Histogram）
	// 标签：backend（relational/index）
	SearchDuration *prometheus.HistogramVec

	// SearchEmptyTotal 空结果页总数（Counter）
	// 标签：backend
	SearchEmptyTotal *prometheus.CounterVec

	// SearchBackendErrorsTotal 搜索后端错误总数（Counter）
	// 标签：backend、kind（unavailable/bad_response/database）
	SearchBackendErrorsTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
// 设计要点：
// 1. 使用promauto.New*自动注册到默认Registry
// 2. Counter使用*Vec支持标签（多维度统计）
// 3. Histogram的Buckets按查询耗时场景定制
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP请求总数",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP请求耗时(秒)",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}, []string{"method", "path"})

	HTTPRequestsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_progress",
		Help: "正在处理的HTTP请求数",
	})

	SearchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_requests_total",
		Help: "搜索请求总数",
	}, []string{"backend", "filter"})

	SearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_duration_seconds",
		Help:    "搜索执行耗时(秒)",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"backend"})

	SearchEmptyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_empty_results_total",
		Help: "空结果页总数",
	}, []string{"backend"})

	SearchBackendErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_backend_errors_total",
		Help: "搜索后端错误总数",
	}, []string{"backend", "kind"})
}
