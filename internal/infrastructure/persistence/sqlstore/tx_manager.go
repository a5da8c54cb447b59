package sqlstore

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager runs a function inside one database transaction.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction commits when fn returns nil and rolls back when it returns an
// error, panics, or ctx is cancelled. The transactional handle travels in the
// context handed to fn, so every repository call made with that context joins
// the same unit of work.
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    r, err := rentals.LockByID(ctx, id)
//	    if err != nil {
//	        return err
//	    }
//	    return rentals.MarkReturned(ctx, r.ID, now)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return translate(err, "transaction failed")
}

// conn returns the transactional handle carried by ctx, or the pool.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
