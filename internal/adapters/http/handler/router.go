package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/worker-registry/internal/core/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type healthResponse struct {
	Status  string `json:"status"`
	Workers int    `json:"workers"`
}

// NewRouter はルーティングと共通ミドルウェアを組み立てます。
// reg が nil の場合は専用の Registry を作成します。
func NewRouter(svc worker.UseCase, records RecordCounter, logger *slog.Logger, reg *prometheus.Registry) (http.Handler, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics, err := NewMetrics(reg, records)
	if err != nil {
		return nil, err
	}

	h := NewWorkerHandler(svc, logger)

	r := mux.NewRouter()
	// mux は 404/405 のハンドラにミドルウェアを適用しないため個別に包みます。
	r.NotFoundHandler = metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	}))
	r.MethodNotAllowedHandler = metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	}))
	r.Use(metrics.Middleware)

	r.HandleFunc("/worker/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/worker/{id}", h.Replace).Methods(http.MethodPut)
	r.HandleFunc("/worker/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/worker/", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/worker", h.Create).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		n := 0
		if records != nil {
			count, err := records.Count(req.Context())
			if err != nil {
				writeError(w, req, logger, err)
				return
			}
			n = count
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Workers: n})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	var root http.Handler = r
	root = panicRecoveryMiddleware(root, logger)
	root = accessLogMiddleware(root, logger)
	root = requestIDMiddleware(root)
	return root, nil
}
