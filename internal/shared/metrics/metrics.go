package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	chatRequestsTotal     atomic.Uint64
	chatEmptyInputsTotal  atomic.Uint64
	completionsTotal      atomic.Uint64
	completionFailedTotal atomic.Uint64

	preparedMu      sync.Mutex
	preparedByTopic = map[string]uint64{}

	completionDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 20000, 30000})
)

// IncChatRequest counts a /chat request.
func IncChatRequest() {
	chatRequestsTotal.Add(1)
}

// IncEmptyInput counts a message that was empty after trimming.
func IncEmptyInput() {
	chatEmptyInputsTotal.Add(1)
}

// IncPreparedAnswer counts a reply served from the prepared answers.
func IncPreparedAnswer(topic string) {
	preparedMu.Lock()
	preparedByTopic[topic]++
	preparedMu.Unlock()
}

// ObserveCompletion records one remote completion call.
func ObserveCompletion(duration time.Duration, failed bool) {
	completionsTotal.Add(1)
	if failed {
		completionFailedTotal.Add(1)
	}
	ms := float64(duration) / float64(time.Millisecond)
	if ms < 0 {
		ms = 0
	}
	completionDuration.Observe(ms)
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
	writeCounter(&buf, "chat_requests_total", "Total chat requests", chatRequestsTotal.Load())
	writeCounter(&buf, "chat_empty_inputs_total", "Chat requests with no usable message", chatEmptyInputsTotal.Load())
	writeLabeledCounter(&buf, "chat_prepared_answers_total", "Chat replies served from prepared answers", "topic", preparedSnapshot())
	writeCounter(&buf, "llm_completions_total", "Remote completion calls", completionsTotal.Load())
	writeCounter(&buf, "llm_completion_failures_total", "Remote completion calls that failed", completionFailedTotal.Load())
	writeHistogram(&buf, "llm_completion_duration_ms", "Remote completion duration in milliseconds", completionDuration.Snapshot())
	return buf.String()
}

func preparedSnapshot() map[string]uint64 {
	preparedMu.Lock()
	defer preparedMu.Unlock()
	out := make(map[string]uint64, len(preparedByTopic))
	for k, v := range preparedByTopic {
		out[k] = v
	}
	return out
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

// Observe counts value in the first bucket whose bound it does not exceed.
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

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
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
