package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	singlePredictionsTotal atomic.Uint64
	batchRunsTotal         atomic.Uint64
	batchRowsTotal         atomic.Uint64
	batchRejectedTotal     atomic.Uint64
	inferenceFailedTotal   atomic.Uint64
	marketFallbackTotal    atomic.Uint64
	rateLimitedTotal       atomic.Uint64

	inferenceDuration = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// IncSinglePrediction counts a completed single-profile prediction.
func IncSinglePrediction() {
	singlePredictionsTotal.Add(1)
}

// IncBatchRun counts a completed batch run and its rows.
func IncBatchRun(rows int) {
	batchRunsTotal.Add(1)
	if rows > 0 {
		batchRowsTotal.Add(uint64(rows))
	}
}

// IncBatchRejected counts uploads rejected before inference.
func IncBatchRejected() {
	batchRejectedTotal.Add(1)
}

// IncInferenceFailed counts model calls that returned an error.
func IncInferenceFailed() {
	inferenceFailedTotal.Add(1)
}

// IncMarketFallback counts market lookups that fell back to the constant.
func IncMarketFallback() {
	marketFallbackTotal.Add(1)
}

// IncRateLimited counts requests rejected by the rate limiter.
func IncRateLimited() {
	rateLimitedTotal.Add(1)
}

// ObserveInferenceDurationMs records a model call duration in milliseconds.
func ObserveInferenceDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	inferenceDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "salary_single_predictions_total", "Total single-profile predictions", singlePredictionsTotal.Load())
	writeCounter(&buf, "salary_batch_runs_total", "Total completed batch runs", batchRunsTotal.Load())
	writeCounter(&buf, "salary_batch_rows_total", "Total rows predicted in batch runs", batchRowsTotal.Load())
	writeCounter(&buf, "salary_batch_rejected_total", "Total batch uploads rejected before inference", batchRejectedTotal.Load())
	writeCounter(&buf, "salary_inference_failed_total", "Total failed model calls", inferenceFailedTotal.Load())
	writeCounter(&buf, "salary_market_fallback_total", "Total market lookups served by the fallback value", marketFallbackTotal.Load())
	writeCounter(&buf, "salary_rate_limited_total", "Total requests rejected by the rate limiter", rateLimitedTotal.Load())
	writeHistogram(&buf, "salary_inference_duration_ms", "Model call duration in milliseconds", inferenceDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe places value in the first bucket whose bound covers it.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
