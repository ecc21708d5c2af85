package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	QuestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chiefops_questions_total",
		Help: "Questions processed by the agent, by intent and status",
	}, []string{"intent", "status"})

	EngineLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chiefops_engine_latency_seconds",
		Help:    "Latency of one analytics engine run",
		Buckets: prometheus.DefBuckets,
	}, []string{"engine"})

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chiefops_answer_cache_total",
		Help: "Answer cache lookups by result",
	}, []string{"result"})

	// Infrastructure metrics
	DatasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chiefops_dataset_loads_total",
		Help: "Dataset table loads by table and status",
	}, []string{"table", "status"})
)
