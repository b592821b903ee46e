package accounts

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"school-payments-backend/internal/models"
)

const demoEmail = "juan@example.com"

// SeedDemoData creates a demonstration guardian with a 2023 fee
// schedule, the first five months settled. It is a no-op when the demo
// account already exists.
func (s *Service) SeedDemoData() error {
	if _, err := s.guardianRepo.GetByEmail(demoEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	slog.Info("seeding demo data")

	guardian, err := s.Register(RegisterInput{
		Name:         "Juan Díaz",
		Email:        demoEmail,
		Phone:        "+56 9 1234 5678",
		Password:     "password123",
		StudentName:  "Ana Díaz",
		StudentGrade: "4° Básico",
	})
	if err != nil {
		return err
	}

	// Register opened obligations for the current year; the demo set is
	// for 2023 with the first five months paid.
	db := s.guardianRepo.DB()
	if err := db.Where("guardian_id = ?", guardian.ID).Delete(&models.Payment{}).Error; err != nil {
		return err
	}

	for i, month := range FeeMonths {
		paid := i < 5
		payment := models.Payment{
			ID:         uuid.New(),
			GuardianID: guardian.ID,
			Month:      month,
			Year:       2023,
			Amount:     DefaultFeeAmount,
			Paid:       paid,
			CreatedAt:  time.Now(),
		}
		if paid {
			date := time.Date(2023, time.Month(i+3), 5, 0, 0, 0, 0, time.UTC)
			method := "Transferencia Bancaria"
			payment.PaymentDate = &date
			payment.PaymentMethod = &method
		}
		if err := s.paymentRepo.Create(&payment); err != nil {
			return err
		}

		if paid {
			if err := s.activityRepo.Create(&models.ActivityLog{
				ID:         uuid.New(),
				GuardianID: guardian.ID,
				Action:     "Pago registrado",
				Details:    fmt.Sprintf("Pago registrado para %s", month),
				Timestamp:  *payment.PaymentDate,
			}); err != nil {
				return err
			}
		}
	}

	slog.Info("demo data created", "guardian_id", guardian.ID)
	return nil
}
