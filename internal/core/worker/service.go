package worker

import (
	"context"
	"fmt"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// UseCase はワーカーユースケースの公開インターフェースです。
type UseCase interface {
	GetWorker(ctx context.Context, in GetWorkerInput) (*Worker, error)
	CreateWorker(ctx context.Context, in CreateWorkerInput) (*Worker, error)
	ReplaceWorker(ctx context.Context, in ReplaceWorkerInput) (*Worker, error)
	DeleteWorker(ctx context.Context, in DeleteWorkerInput) error
}

// Service はワーカーに関するユースケースをまとめます。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// NewService は Service を生成します。tx が nil の場合は何もしない実装を使います。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// GetWorkerInput はワーカー取得時の入力です。
type GetWorkerInput struct {
	ID int64
}

// CreateWorkerInput はワーカー作成時の入力です。Worker.ID は無視されます。
type CreateWorkerInput struct {
	Worker *Worker
}

// ReplaceWorkerInput はワーカー置換時の入力です。Worker.ID は無視され ID が使われます。
type ReplaceWorkerInput struct {
	ID     int64
	Worker *Worker
}

// DeleteWorkerInput はワーカー削除時の入力です。
type DeleteWorkerInput struct {
	ID int64
}

// GetWorker はワーカーを取得します。
func (s *Service) GetWorker(ctx context.Context, in GetWorkerInput) (*Worker, error) {
	var result *Worker
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return notFound(err, in.ID, OpGet)
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateWorker は新しい ID を採番してワーカーを登録します。
func (s *Service) CreateWorker(ctx context.Context, in CreateWorkerInput) (*Worker, error) {
	if in.Worker == nil {
		return nil, fmt.Errorf("worker: %w", ErrInvalidWorker)
	}

	w := in.Worker.Clone()
	w.ID = 0

	var created *Worker
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, w)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// ReplaceWorker は既存ワーカーの全項目を置き換えます。部分更新は行いません。
func (s *Service) ReplaceWorker(ctx context.Context, in ReplaceWorkerInput) (*Worker, error) {
	if in.Worker == nil {
		return nil, fmt.Errorf("worker: %w", ErrInvalidWorker)
	}

	w := in.Worker.Clone()
	w.ID = in.ID

	var replaced *Worker
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Update(txCtx, w)
		if err != nil {
			return notFound(err, in.ID, OpReplace)
		}
		replaced = result
		return nil
	}); err != nil {
		return nil, err
	}

	return replaced, nil
}

// DeleteWorker はワーカーを削除します。削除したレコードは返しません。
func (s *Service) DeleteWorker(ctx context.Context, in DeleteWorkerInput) error {
	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, in.ID); err != nil {
			return notFound(err, in.ID, OpDelete)
		}
		return nil
	})
}
