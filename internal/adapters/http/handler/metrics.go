package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// RecordCounter はテーブルの件数を返します。worker.Repository が満たします。
type RecordCounter interface {
	Count(ctx context.Context) (int, error)
}

// Metrics は HTTP リクエストとテーブル件数の Prometheus メトリクスです。
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics はメトリクスを reg に登録します。records が nil の場合は件数ゲージを登録しません。
func NewMetrics(reg prometheus.Registerer, records RecordCounter) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "worker_registry",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "worker_registry",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	collectors := []prometheus.Collector{m.requests, m.duration}
	if records != nil {
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "worker_registry",
			Name:      "records",
			Help:      "Number of worker records currently stored.",
		}, func() float64 {
			n, err := records.Count(context.Background())
			if err != nil {
				return -1
			}
			return float64(n)
		}))
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "metrics: register collector")
		}
	}
	return m, nil
}

// Middleware はマッチしたルートのテンプレートをラベルにして計測します。
// ルートに一致しなかったリクエストは "unmatched" として数えます。
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.code())).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
