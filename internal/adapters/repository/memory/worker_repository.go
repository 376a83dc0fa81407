package memory

import (
	"context"
	"sync"

	"github.com/ogurasousui/worker-registry/internal/core/worker"
)

// WorkerRepository はプロセス内のマップでワーカーを保持する実装です。
// 永続化は行わず、並行利用に対して安全です。
type WorkerRepository struct {
	mu      sync.RWMutex
	workers map[int64]*worker.Worker
	nextID  int64
}

// NewWorkerRepository は空の WorkerRepository を生成します。最初に採番される ID は 1 です。
func NewWorkerRepository() *WorkerRepository {
	return &WorkerRepository{
		workers: make(map[int64]*worker.Worker),
		nextID:  1,
	}
}

// Create は採番と挿入を同じロック内で行います。
func (r *WorkerRepository) Create(_ context.Context, w *worker.Worker) (*worker.Worker, error) {
	stored := w.Clone()

	r.mu.Lock()
	stored.ID = r.nextID
	r.nextID++
	r.workers[stored.ID] = stored
	r.mu.Unlock()

	return stored.Clone(), nil
}

// Update は既存の値を丸ごと置き換えます。
func (r *WorkerRepository) Update(_ context.Context, w *worker.Worker) (*worker.Worker, error) {
	stored := w.Clone()

	r.mu.Lock()
	_, ok := r.workers[stored.ID]
	if ok {
		r.workers[stored.ID] = stored
	}
	r.mu.Unlock()

	if !ok {
		return nil, worker.ErrWorkerNotFound
	}
	return stored.Clone(), nil
}

func (r *WorkerRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	_, ok := r.workers[id]
	if ok {
		delete(r.workers, id)
	}
	r.mu.Unlock()

	if !ok {
		return worker.ErrWorkerNotFound
	}
	return nil
}

func (r *WorkerRepository) FindByID(_ context.Context, id int64) (*worker.Worker, error) {
	r.mu.RLock()
	w, ok := r.workers[id]
	r.mu.RUnlock()

	if !ok {
		return nil, worker.ErrWorkerNotFound
	}
	return w.Clone(), nil
}

func (r *WorkerRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workers), nil
}
