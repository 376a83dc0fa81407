package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/worker-registry/internal/core/worker"
)

const maxBodyBytes = 1 << 20

// WorkerHandler は /worker 配下のリクエストをユースケースへ橋渡しします。
type WorkerHandler struct {
	svc    worker.UseCase
	logger *slog.Logger
}

// NewWorkerHandler は WorkerHandler を生成します。
func NewWorkerHandler(svc worker.UseCase, logger *slog.Logger) *WorkerHandler {
	return &WorkerHandler{svc: svc, logger: logger}
}

// Get は GET /worker/{id} を処理します。
func (h *WorkerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	found, err := h.svc.GetWorker(r.Context(), worker.GetWorkerInput{ID: id})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toWorkerResponse(found))
}

// Create は POST /worker/ を処理し、201 と Location ヘッダを返します。
func (h *WorkerHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeWorker(w, r)
	if !ok {
		return
	}

	created, err := h.svc.CreateWorker(r.Context(), worker.CreateWorkerInput{Worker: in})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/worker/%d", created.ID))
	writeJSON(w, http.StatusCreated, toWorkerResponse(created))
}

// Replace は PUT /worker/{id} を処理します。全項目を置き換えます。
func (h *WorkerHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	in, ok := h.decodeWorker(w, r)
	if !ok {
		return
	}

	replaced, err := h.svc.ReplaceWorker(r.Context(), worker.ReplaceWorkerInput{ID: id, Worker: in})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toWorkerResponse(replaced))
}

// Delete は DELETE /worker/{id} を処理します。
func (h *WorkerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteWorker(r.Context(), worker.DeleteWorkerInput{ID: id}); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Worker deleted successfully"})
}

func (h *WorkerHandler) decodeWorker(w http.ResponseWriter, r *http.Request) (*worker.Worker, bool) {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeDetail(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}

	in, issues := parseWorker(body)
	if len(issues) > 0 {
		writeValidation(w, issues)
		return nil, false
	}
	return in, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeValidation(w, []fieldIssue{{
			Loc:  []any{"path", "worker_id"},
			Msg:  "value is not a valid integer",
			Type: "type_error.integer",
		}})
		return 0, false
	}
	return id, true
}
