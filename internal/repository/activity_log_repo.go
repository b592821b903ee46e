package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"school-payments-backend/internal/models"
)

type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Create(entry *models.ActivityLog) error {
	return r.db.Create(entry).Error
}

func (r *ActivityLogRepository) GetByGuardian(guardianID uuid.UUID) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := r.db.
		Where("guardian_id = ?", guardianID).
		Order("timestamp DESC").
		Find(&logs).Error
	return logs, err
}
