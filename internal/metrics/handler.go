package metrics

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"time"

	dto "github.com/prometheus/client_model/go"
)

// Summary is the JSON response for the admin metrics endpoint.
type Summary struct {
	HTTP      httpSummary   `json:"http"`
	Names     namesSummary  `json:"names"`
	RateLimit rateLimitInfo `json:"rateLimit"`
	History   historyInfo   `json:"history"`
	DB        dbInfo        `json:"db"`
	Server    serverInfo    `json:"server"`
}

type httpSummary struct {
	TotalRequests float64 `json:"totalRequests"`
	ErrorRate     float64 `json:"errorRate"`
	P50Latency    float64 `json:"p50Latency"`
	P95Latency    float64 `json:"p95Latency"`
	P99Latency    float64 `json:"p99Latency"`
}

type namesSummary struct {
	Generated          float64            `json:"generated"`
	Skipped            float64            `json:"skipped"`
	Truncated          float64            `json:"truncated"`
	ValidationFailures float64            `json:"validationFailures"`
	BySource           map[string]float64 `json:"bySource"`
	ByResource         map[string]float64 `json:"byResource"`
}

type rateLimitInfo struct {
	Rejections float64 `json:"rejections"`
}

type historyInfo struct {
	Entries      float64 `json:"entries"`
	TotalFlushes float64 `json:"totalFlushes"`
	FlushErrors  float64 `json:"flushErrors"`
}

type serverInfo struct {
	StartTime     float64 `json:"startTime"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}

type dbInfo struct {
	TotalConns    float64 `json:"totalConns"`
	IdleConns     float64 `json:"idleConns"`
	AcquiredConns float64 `json:"acquiredConns"`
}

// Handler returns an http.HandlerFunc that serves live metrics in JSON format.
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := m.Summarize()
		if err != nil {
			http.Error(w, "failed to gather metrics", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache, no-store")
		_ = json.NewEncoder(w).Encode(summary)
	}
}

// Summarize gathers the registry into a Summary.
func (m *Metrics) Summarize() (*Summary, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	fam := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		fam[f.GetName()] = f
	}

	start := gaugeValue(fam["namegen_server_start_time_seconds"])
	return &Summary{
		HTTP: httpSummary{
			TotalRequests: sumCounter(fam["namegen_http_requests_total"]),
			ErrorRate:     computeErrorRate(fam["namegen_http_requests_total"]),
			P50Latency:    histogramPercentile(fam["namegen_http_request_duration_seconds"], 0.50),
			P95Latency:    histogramPercentile(fam["namegen_http_request_duration_seconds"], 0.95),
			P99Latency:    histogramPercentile(fam["namegen_http_request_duration_seconds"], 0.99),
		},
		Names: namesSummary{
			Generated:          sumCounter(fam["namegen_names_generated_total"]),
			Skipped:            sumCounter(fam["namegen_names_skipped_total"]),
			Truncated:          sumCounter(fam["namegen_names_truncated_total"]),
			ValidationFailures: sumCounter(fam["namegen_name_validation_failures_total"]),
			BySource:           counterByLabel(fam["namegen_names_generated_total"], "pattern_source"),
			ByResource:         counterByLabel(fam["namegen_names_generated_total"], "resource_type"),
		},
		RateLimit: rateLimitInfo{
			Rejections: sumCounter(fam["namegen_ratelimit_rejections_total"]),
		},
		History: historyInfo{
			Entries:      sumCounter(fam["namegen_history_entries_total"]),
			TotalFlushes: sumCounter(fam["namegen_history_flushes_total"]),
			FlushErrors:  counterWithLabel(fam["namegen_history_flushes_total"], "status", "error"),
		},
		DB: dbInfo{
			TotalConns:    gaugeValue(fam["namegen_db_pool_total_conns"]),
			IdleConns:     gaugeValue(fam["namegen_db_pool_idle_conns"]),
			AcquiredConns: gaugeValue(fam["namegen_db_pool_acquired_conns"]),
		},
		Server: serverInfo{
			StartTime:     start,
			UptimeSeconds: float64(time.Now().Unix()) - start,
		},
	}, nil
}

// --- Prometheus metric helpers ---

func sumCounter(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	var total float64
	for _, m := range f.GetMetric() {
		if m.GetCounter() != nil {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func gaugeValue(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	ms := f.GetMetric()
	if len(ms) == 0 || ms[0].GetGauge() == nil {
		return 0
	}
	return ms[0].GetGauge().GetValue()
}

func labelValue(m *dto.Metric, name string) (string, bool) {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue(), true
		}
	}
	return "", false
}

func counterWithLabel(f *dto.MetricFamily, labelName, value string) float64 {
	if f == nil {
		return 0
	}
	var total float64
	for _, m := range f.GetMetric() {
		if v, ok := labelValue(m, labelName); ok && v == value && m.GetCounter() != nil {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

// counterByLabel sums a counter family grouped by one label.
func counterByLabel(f *dto.MetricFamily, labelName string) map[string]float64 {
	out := make(map[string]float64)
	if f == nil {
		return out
	}
	for _, m := range f.GetMetric() {
		v, ok := labelValue(m, labelName)
		if !ok || m.GetCounter() == nil {
			continue
		}
		out[v] += m.GetCounter().GetValue()
	}
	return out
}

// computeErrorRate is the share of requests answered with 4xx or 5xx.
func computeErrorRate(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	var total, errors float64
	for _, m := range f.GetMetric() {
		if m.GetCounter() == nil {
			continue
		}
		v := m.GetCounter().GetValue()
		total += v
		if code, ok := labelValue(m, "status_code"); ok && len(code) > 0 && code[0] >= '4' {
			errors += v
		}
	}
	if total == 0 {
		return 0
	}
	return errors / total
}

// histogramPercentile computes a percentile from aggregated histogram buckets
// using linear interpolation.
func histogramPercentile(f *dto.MetricFamily, q float64) float64 {
	if f == nil {
		return 0
	}

	type bucket struct {
		upperBound      float64
		cumulativeCount uint64
	}
	var totalCount uint64
	bucketMap := make(map[float64]uint64)

	for _, m := range f.GetMetric() {
		h := m.GetHistogram()
		if h == nil {
			continue
		}
		totalCount += h.GetSampleCount()
		for _, b := range h.GetBucket() {
			bucketMap[b.GetUpperBound()] += b.GetCumulativeCount()
		}
	}

	if totalCount == 0 {
		return 0
	}

	buckets := make([]bucket, 0, len(bucketMap))
	for ub, count := range bucketMap {
		buckets = append(buckets, bucket{upperBound: ub, cumulativeCount: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].upperBound < buckets[j].upperBound
	})

	rank := q * float64(totalCount)

	var prevBound float64
	var prevCount uint64
	for _, b := range buckets {
		if math.IsInf(b.upperBound, 1) {
			break
		}
		if float64(b.cumulativeCount) >= rank {
			bucketCount := b.cumulativeCount - prevCount
			if bucketCount == 0 {
				return b.upperBound
			}
			fraction := (rank - float64(prevCount)) / float64(bucketCount)
			return prevBound + fraction*(b.upperBound-prevBound)
		}
		prevBound = b.upperBound
		prevCount = b.cumulativeCount
	}

	// Everything landed in +Inf: report the last finite bound.
	for i := len(buckets) - 1; i >= 0; i-- {
		if !math.IsInf(buckets[i].upperBound, 1) {
			return buckets[i].upperBound
		}
	}
	return 0
}
