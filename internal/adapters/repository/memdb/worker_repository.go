package memdb

import (
	"context"

	"github.com/hashicorp/go-memdb"
	"github.com/ogurasousui/worker-registry/internal/core/worker"
	mdb "github.com/ogurasousui/worker-registry/internal/platform/db/memdb"
	"github.com/pkg/errors"
)

const (
	workersTable   = "workers"
	sequencesTable = "sequences"
	idIndex        = "id"
	workerSequence = "workers"
)

type sequence struct {
	Name  string
	Value int64
}

// Schema はワーカーテーブルと採番テーブルのスキーマを返します。
func Schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			workersTable: {
				Name: workersTable,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {Name: idIndex, Unique: true, Indexer: &memdb.IntFieldIndex{Field: "ID"}},
				},
			},
			sequencesTable: {
				Name: sequencesTable,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {Name: idIndex, Unique: true, Indexer: &memdb.StringFieldIndex{Field: "Name"}},
				},
			},
		},
	}
}

// WorkerRepository は go-memdb を利用したワーカーテーブルの実装です。
// 採番カウンタも同じ DB に置くため、採番と挿入は一つの書き込みトランザクションで確定します。
type WorkerRepository struct {
	db *memdb.MemDB
}

// NewWorkerRepository は WorkerRepository を生成します。
func NewWorkerRepository(db *memdb.MemDB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// Create は採番カウンタを進めてワーカーを挿入します。
func (r *WorkerRepository) Create(ctx context.Context, w *worker.Worker) (*worker.Worker, error) {
	stored := w.Clone()

	err := r.withTxn(ctx, true, func(txn *memdb.Txn) error {
		id, err := nextID(txn)
		if err != nil {
			return err
		}
		stored.ID = id
		if err := txn.Insert(workersTable, stored); err != nil {
			return errors.Wrap(err, "memdb: insert worker")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored.Clone(), nil
}

// Update は既存のワーカーを丸ごと置き換えます。
func (r *WorkerRepository) Update(ctx context.Context, w *worker.Worker) (*worker.Worker, error) {
	stored := w.Clone()

	err := r.withTxn(ctx, true, func(txn *memdb.Txn) error {
		existing, err := txn.First(workersTable, idIndex, stored.ID)
		if err != nil {
			return errors.Wrapf(err, "memdb: lookup worker %d", stored.ID)
		}
		if existing == nil {
			return worker.ErrWorkerNotFound
		}
		if err := txn.Insert(workersTable, stored); err != nil {
			return errors.Wrap(err, "memdb: replace worker")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored.Clone(), nil
}

func (r *WorkerRepository) Delete(ctx context.Context, id int64) error {
	return r.withTxn(ctx, true, func(txn *memdb.Txn) error {
		existing, err := txn.First(workersTable, idIndex, id)
		if err != nil {
			return errors.Wrapf(err, "memdb: lookup worker %d", id)
		}
		if existing == nil {
			return worker.ErrWorkerNotFound
		}
		if err := txn.Delete(workersTable, existing); err != nil {
			return errors.Wrapf(err, "memdb: delete worker %d", id)
		}
		return nil
	})
}

func (r *WorkerRepository) FindByID(ctx context.Context, id int64) (*worker.Worker, error) {
	var found *worker.Worker
	err := r.withTxn(ctx, false, func(txn *memdb.Txn) error {
		obj, err := txn.First(workersTable, idIndex, id)
		if err != nil {
			return errors.Wrapf(err, "memdb: lookup worker %d", id)
		}
		if obj == nil {
			return worker.ErrWorkerNotFound
		}
		found = obj.(*worker.Worker).Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *WorkerRepository) Count(ctx context.Context) (int, error) {
	n := 0
	err := r.withTxn(ctx, false, func(txn *memdb.Txn) error {
		it, err := txn.Get(workersTable, idIndex)
		if err != nil {
			return errors.Wrap(err, "memdb: scan workers")
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// withTxn はコンテキスト内のトランザクションがあればそれを使い、なければ単独のトランザクションを開きます。
func (r *WorkerRepository) withTxn(ctx context.Context, write bool, fn func(*memdb.Txn) error) error {
	if txn, txWrite, ok := mdb.TxnFromContext(ctx); ok {
		if write && !txWrite {
			return mdb.ErrReadOnlyTxn
		}
		return fn(txn)
	}

	txn := r.db.Txn(write)
	if err := fn(txn); err != nil {
		txn.Abort()
		return err
	}
	if write {
		txn.Commit()
	} else {
		txn.Abort()
	}
	return nil
}

func nextID(txn *memdb.Txn) (int64, error) {
	obj, err := txn.First(sequencesTable, idIndex, workerSequence)
	if err != nil {
		return 0, errors.Wrap(err, "memdb: read sequence")
	}

	next := int64(1)
	if obj != nil {
		next = obj.(*sequence).Value
	}

	if err := txn.Insert(sequencesTable, &sequence{Name: workerSequence, Value: next + 1}); err != nil {
		return 0, errors.Wrap(err, "memdb: advance sequence")
	}
	return next, nil
}
