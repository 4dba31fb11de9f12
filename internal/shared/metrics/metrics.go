package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers Prometheus metrics for LLM-backed operations.
type Collector struct {
	registry *prometheus.Registry

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec

	quizzesGenerated  prometheus.Counter
	assessmentsSaved  prometheus.Counter
	tipsGenerated     prometheus.Counter
	tipsSkipped       prometheus.Counter
	insightsGenerated prometheus.Counter
}

// NewCollector builds a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "career_llm_requests_total",
			Help: "LLM requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "career_llm_request_duration_seconds",
			Help:    "LLM request latency in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"operation"}),
		quizzesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "career_quizzes_generated_total",
			Help: "Quizzes generated successfully.",
		}),
		assessmentsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "career_assessments_saved_total",
			Help: "Assessments persisted.",
		}),
		tipsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "career_improvement_tips_generated_total",
			Help: "Improvement tips generated.",
		}),
		tipsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "career_improvement_tips_skipped_total",
			Help: "Improvement tips skipped after a generation failure.",
		}),
		insightsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "career_industry_insights_generated_total",
			Help: "Industry insights generated and stored.",
		}),
	}

	c.registry.MustRegister(
		c.llmRequests,
		c.llmLatency,
		c.quizzesGenerated,
		c.assessmentsSaved,
		c.tipsGenerated,
		c.tipsSkipped,
		c.insightsGenerated,
	)
	return c
}

// RecordLLMRequest records one LLM call with its outcome and duration.
func (c *Collector) RecordLLMRequest(operation, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.llmRequests.WithLabelValues(operation, outcome).Inc()
	c.llmLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncQuizGenerated increments the generated-quiz counter.
func (c *Collector) IncQuizGenerated() {
	if c != nil {
		c.quizzesGenerated.Inc()
	}
}

// IncAssessmentSaved increments the persisted-assessment counter.
func (c *Collector) IncAssessmentSaved() {
	if c != nil {
		c.assessmentsSaved.Inc()
	}
}

// IncTipGenerated increments the improvement-tip counter.
func (c *Collector) IncTipGenerated() {
	if c != nil {
		c.tipsGenerated.Inc()
	}
}

// IncTipSkipped counts a tip generation that failed and was skipped.
func (c *Collector) IncTipSkipped() {
	if c != nil {
		c.tipsSkipped.Inc()
	}
}

// IncInsightGenerated increments the stored-insight counter.
func (c *Collector) IncInsightGenerated() {
	if c != nil {
		c.insightsGenerated.Inc()
	}
}

// Handler exposes the registry in Prometheus text format.
func (c *Collector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
