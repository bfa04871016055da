package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and chat Prometheus metrics.
var (
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragline",
			Name:      "chat_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"provider", "model", "status"},
	)

	ChatRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragline",
			Name:      "chat_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "model"},
	)

	ChatTokensEstimated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragline",
			Name:      "chat_tokens_estimated_total",
			Help:      "Estimated tokens in chat completions",
		},
		[]string{"provider", "model"},
	)

	PipelineQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragline",
			Name:      "pipeline_queries_total",
			Help:      "Total retrieval pipeline runs",
		},
		[]string{"intent", "status"},
	)

	PipelineQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragline",
			Name:      "pipeline_query_duration_seconds",
			Help:      "Retrieval pipeline duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"intent"},
	)

	EmbeddingsGeneratedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ragline",
			Name:      "embeddings_generated_total",
			Help:      "Total embeddings generated by the local engine",
		},
	)

	EmbeddingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ragline",
			Name:      "embedding_duration_seconds",
			Help:      "Local embedding generation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers retrieval and chat metrics. Must be
// called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ChatRequestsTotal)
	prometheus.MustRegister(ChatRequestDuration)
	prometheus.MustRegister(ChatTokensEstimated)
	prometheus.MustRegister(PipelineQueriesTotal)
	prometheus.MustRegister(PipelineQueryDuration)
	prometheus.MustRegister(EmbeddingsGeneratedTotal)
	prometheus.MustRegister(EmbeddingDuration)
	pipelineMetricsRegistered = true
}
