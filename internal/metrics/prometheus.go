package metrics

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChatDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_chat_duration_seconds",
			Help:    "Chat reply duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"source"},
	)

	ChatReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_chat_replies_total",
			Help: "Chat replies by the path that produced them",
		},
		[]string{"source", "intent"},
	)

	MatchScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_faq_match_score",
			Help:    "Best FAQ match score per message",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_llm_requests_total",
			Help: "Generated-answer requests by outcome",
		},
		[]string{"status"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"model", "type"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	RejectedMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_rejected_messages_total",
			Help: "Chat messages rejected by validation",
		},
		[]string{"reason"},
	)

	KnowledgeRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_knowledge_records",
			Help: "FAQ records loaded at startup",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ChatDuration,
			ChatReplies,
			MatchScore,
			LLMRequests,
			LLMTokensUsed,
			CacheHits,
			CacheMisses,
			RateLimited,
			RejectedMessages,
			KnowledgeRecords,
		)
	})
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
