package worker

import "context"

// Repository はワーカーテーブルの抽象です。
// 実装は各操作を単一のロック（またはトランザクション）内で完結させます。
type Repository interface {
	// Create は新しい ID を採番して保存し、採番済みのコピーを返します。
	Create(ctx context.Context, worker *Worker) (*Worker, error)
	// Update は worker.ID の値を丸ごと置き換えます。存在しない場合は ErrWorkerNotFound です。
	Update(ctx context.Context, worker *Worker) (*Worker, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Worker, error)
	Count(ctx context.Context) (int, error)
}
