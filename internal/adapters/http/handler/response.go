package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ogurasousui/worker-registry/internal/core/worker"
)

type detailResponse struct {
	Detail string `json:"detail"`
}

type validationResponse struct {
	Detail []fieldIssue `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

func writeValidation(w http.ResponseWriter, issues []fieldIssue) {
	writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: issues})
}

// writeError はユースケースのエラーを HTTP ステータスへ変換して書き込みます。
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var notFound *worker.NotFoundError
	switch {
	case errors.As(err, &notFound):
		writeDetail(w, http.StatusNotFound, notFound.Error())
	case errors.Is(err, worker.ErrWorkerNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, worker.ErrInvalidWorker):
		writeValidation(w, []fieldIssue{{Loc: []any{"body"}, Msg: err.Error(), Type: "value_error"}})
	default:
		if logger != nil {
			logger.ErrorContext(r.Context(), "request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", RequestIDFromContext(r.Context()),
				"error", err,
			)
		}
		writeDetail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
