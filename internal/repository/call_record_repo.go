package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/classboard/rollcall-api/internal/models"
)

// CallRecordRepository reads the append-only ledger.
type CallRecordRepository interface {
	ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]models.CallRecord, int64, error)
}

type callRecordRepository struct {
	db *gorm.DB
}

// NewCallRecordRepository constructs a call record repository.
func NewCallRecordRepository(db *gorm.DB) CallRecordRepository {
	return &callRecordRepository{db: db}
}

func (r *callRecordRepository) ListByStudent(ctx context.Context, studentID string, page, pageSize int) ([]models.CallRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CallRecord{}).Where("student_id = ?", studentID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC, id DESC")
	if pageSize > 0 {
		if page <= 0 {
			page = 1
		}
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	var records []models.CallRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
