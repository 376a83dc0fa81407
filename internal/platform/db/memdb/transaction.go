package memdb

import (
	"context"

	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"
)

// ErrReadOnlyTxn は読み取り専用トランザクションの内側で書き込みを要求した場合のエラーです。
var ErrReadOnlyTxn = errors.New("memdb: read-write transaction requested inside read-only transaction")

type transactionContextKey struct{}

var txContextKey = transactionContextKey{}

type txnState struct {
	txn   *memdb.Txn
	write bool
}

// TransactionManager は go-memdb のトランザクションをコンテキストに載せて fn を実行します。
// 書き込みトランザクションは DB 全体で同時に 1 つだけ実行されます。
type TransactionManager struct {
	db *memdb.MemDB
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(db *memdb.MemDB) *TransactionManager {
	if db == nil {
		return nil
	}
	return &TransactionManager{db: db}
}

// WithinReadOnly はスナップショットに対する読み取り専用トランザクションで fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, false, fn)
}

// WithinReadWrite は書き込みトランザクションで fn を実行し、成功時にコミットします。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, true, fn)
}

func (m *TransactionManager) within(ctx context.Context, write bool, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("memdb: transaction function is required")
	}

	if state, ok := stateFromContext(ctx); ok {
		if write && !state.write {
			return ErrReadOnlyTxn
		}
		return fn(ctx)
	}

	txn := m.db.Txn(write)
	committed := false
	defer func() {
		if !committed {
			txn.Abort()
		}
	}()

	if err := fn(contextWithTxn(ctx, txn, write)); err != nil {
		return err
	}

	if write {
		txn.Commit()
	}
	committed = true
	return nil
}

func contextWithTxn(ctx context.Context, txn *memdb.Txn, write bool) context.Context {
	return context.WithValue(ctx, txContextKey, txnState{txn: txn, write: write})
}

func stateFromContext(ctx context.Context) (txnState, bool) {
	if ctx == nil {
		return txnState{}, false
	}
	state, ok := ctx.Value(txContextKey).(txnState)
	return state, ok
}

// TxnFromContext はコンテキスト内のトランザクションと、それが書き込み可能かを返します。
func TxnFromContext(ctx context.Context) (txn *memdb.Txn, write bool, ok bool) {
	state, ok := stateFromContext(ctx)
	if !ok {
		return nil, false, false
	}
	return state.txn, state.write, true
}
