package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs fn inside a database transaction. Repository methods that
// take a tx argument fall back to the plain connection when tx is nil.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

func transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
