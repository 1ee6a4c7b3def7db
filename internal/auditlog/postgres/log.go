package postgres

import (
	"github.com/frahmantamala/merchant-management/internal/auditlog"
	"gorm.io/gorm"
)

// LogRepository implements the auditlog.Repository interface using GORM
type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) auditlog.Repository {
	return &LogRepository{db: db}
}

func (r *LogRepository) Create(log *auditlog.Log) error {
	return r.db.Create(log).Error
}

func (r *LogRepository) GetAll(limit int) ([]*auditlog.Log, error) {
	var logs []*auditlog.Log
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *LogRepository) GetPaginated(limit, offset int) ([]*auditlog.Log, int64, error) {
	var total int64
	if err := r.db.Model(&auditlog.Log{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*auditlog.Log
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, total, err
}
