package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"school-payments-backend/internal/models"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByGuardian(guardianID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.
		Where("guardian_id = ?", guardianID).
		Order("year ASC, created_at ASC").
		Find(&payments).Error
	return payments, err
}

// FindByPeriod resolves a guardian's obligation for one (month, year)
// pair. The composite unique index on (guardian_id, month, year)
// guarantees at most one row.
func (r *PaymentRepository) FindByPeriod(guardianID uuid.UUID, month string, year int) (*models.Payment, error) {
	var p models.Payment
	err := r.db.
		Where("guardian_id = ? AND month = ? AND year = ?", guardianID, month, year).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Save(p *models.Payment) error {
	return r.db.Save(p).Error
}
