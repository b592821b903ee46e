package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"school-payments-backend/internal/models"
)

type GuardianRepository struct {
	db *gorm.DB
}

func NewGuardianRepository(db *gorm.DB) *GuardianRepository {
	return &GuardianRepository{db: db}
}

// Expose DB if needed
func (r *GuardianRepository) DB() *gorm.DB {
	return r.db
}

func (r *GuardianRepository) Create(g *models.Guardian) error {
	return r.db.Create(g).Error
}

func (r *GuardianRepository) GetByID(id uuid.UUID) (*models.Guardian, error) {
	var g models.Guardian
	if err := r.db.First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuardianRepository) GetByEmail(email string) (*models.Guardian, error) {
	var g models.Guardian
	if err := r.db.First(&g, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuardianRepository) GetAll() ([]models.Guardian, error) {
	var guardians []models.Guardian
	err := r.db.Order("created_at ASC").Find(&guardians).Error
	return guardians, err
}
