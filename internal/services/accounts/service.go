package accounts

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"school-payments-backend/internal/auth"
	"school-payments-backend/internal/models"
	"school-payments-backend/internal/repository"
)

var (
	ErrEmailExists        = errors.New("el correo electrónico ya está registrado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
)

// DefaultFeeAmount is the standard monthly fee in CLP.
const DefaultFeeAmount = 55000

// FeeMonths are the months of the school year that carry a fee
// obligation. January and February are vacation months.
var FeeMonths = []string{
	"Marzo", "Abril", "Mayo", "Junio", "Julio",
	"Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

type RegisterInput struct {
	Name         string
	Email        string
	Phone        string
	Password     string
	StudentName  string
	StudentGrade string
	Role         string
}

type Service struct {
	guardianRepo *repository.GuardianRepository
	paymentRepo  *repository.PaymentRepository
	activityRepo *repository.ActivityLogRepository
}

func NewService(
	guardianRepo *repository.GuardianRepository,
	paymentRepo *repository.PaymentRepository,
	activityRepo *repository.ActivityLogRepository,
) *Service {
	return &Service{
		guardianRepo: guardianRepo,
		paymentRepo:  paymentRepo,
		activityRepo: activityRepo,
	}
}

// Register creates a guardian account with a hashed credential, records
// the registration in the activity log, and opens one unpaid fee
// obligation per school-year month of the current year.
func (s *Service) Register(in RegisterInput) (*models.Guardian, error) {
	if _, err := s.guardianRepo.GetByEmail(in.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = models.RoleGuardian
	}

	guardian := &models.Guardian{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		StudentName:  in.StudentName,
		StudentGrade: in.StudentGrade,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.guardianRepo.Create(guardian); err != nil {
		return nil, err
	}

	if err := s.activityRepo.Create(&models.ActivityLog{
		ID:         uuid.New(),
		GuardianID: guardian.ID,
		Action:     "Registro",
		Details:    "Nuevo apoderado registrado",
		Timestamp:  time.Now(),
	}); err != nil {
		return nil, err
	}

	year := time.Now().Year()
	for _, month := range FeeMonths {
		if err := s.paymentRepo.Create(&models.Payment{
			ID:         uuid.New(),
			GuardianID: guardian.ID,
			Month:      month,
			Year:       year,
			Amount:     DefaultFeeAmount,
			Paid:       false,
			CreatedAt:  time.Now(),
		}); err != nil {
			return nil, err
		}
	}

	slog.Info("guardian registered", "guardian_id", guardian.ID, "email", guardian.Email)
	return guardian, nil
}

// Authenticate verifies the email and password pair. Every failure mode
// collapses to ErrInvalidCredentials so the response cannot be used to
// enumerate accounts.
func (s *Service) Authenticate(email, password string) (*models.Guardian, error) {
	guardian, err := s.guardianRepo.GetByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, guardian.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return guardian, nil
}

// GetGuardian fetches one guardian by id.
func (s *Service) GetGuardian(id uuid.UUID) (*models.Guardian, error) {
	return s.guardianRepo.GetByID(id)
}

// ListGuardians returns every guardian record.
func (s *Service) ListGuardians() ([]models.Guardian, error) {
	return s.guardianRepo.GetAll()
}
