package persistence

import (
	"context"

	"gorm.io/gorm"
)

// txContextKey carries the open transaction handle through the context
type txContextKey struct{}

// GormTransactionManager implements shared.TransactionManager on a GORM
// connection. The transaction handle travels in the context; repositories
// route their statements through conn and join it transparently.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new GormTransactionManager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// InTransaction runs fn inside one database transaction. An error from fn
// rolls back every statement issued with the derived context.
func (m *GormTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// conn returns the transaction handle carried by ctx, or the repository's own
// connection when no transaction is open.
func conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
