package memdb

import (
	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"
)

// NewDB はスキーマを検証してインメモリ DB を生成します。
func NewDB(schema *memdb.DBSchema) (*memdb.MemDB, error) {
	if schema == nil {
		return nil, errors.New("memdb: schema is required")
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, errors.Wrap(err, "memdb: create database")
	}
	return db, nil
}
