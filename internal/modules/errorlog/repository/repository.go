package repository

import (
	"context"

	"anoa.com/recruitportal/internal/entity"
	"gorm.io/gorm"
)

type ErrorLogRepository interface {
	Create(ctx context.Context, record *entity.ErrorLog) error
}

type errorLogRepository struct {
	db *gorm.DB
}

func NewErrorLogRepository(db *gorm.DB) ErrorLogRepository {
	return &errorLogRepository{db: db}
}

// Create appends record in a transaction of its own, independent of any
// transaction the failing operation had open.
func (r *errorLogRepository) Create(ctx context.Context, record *entity.ErrorLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
}
