package reconciliation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"school-payments-backend/internal/models"
	"school-payments-backend/internal/repository"
)

var ErrPaymentNotFound = errors.New("pago no encontrado")

// ReceiptMeta describes an uploaded proof-of-payment file. It is stored
// as a JSON blob on the payment record.
type ReceiptMeta struct {
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	ContentType  string `json:"content_type"`
}

// RecordPaymentInput carries one reconciliation request: the claimed
// period plus the proof-of-payment details supplied by the guardian.
type RecordPaymentInput struct {
	Month         string
	Year          int
	Amount        int
	PaymentDate   time.Time
	PaymentMethod string
	ReceiptURL    *string
	ReceiptMeta   *ReceiptMeta
}

type Service struct {
	paymentRepo  *repository.PaymentRepository
	activityRepo *repository.ActivityLogRepository
}

func NewService(
	paymentRepo *repository.PaymentRepository,
	activityRepo *repository.ActivityLogRepository,
) *Service {
	return &Service{
		paymentRepo:  paymentRepo,
		activityRepo: activityRepo,
	}
}

// RecordPayment reconciles an uploaded receipt against the guardian's
// obligation for the claimed (month, year) period. On a match the
// record transitions to paid with the supplied proof-of-payment
// metadata and exactly one activity entry is appended. Without a match
// nothing is mutated.
//
// A record that is already paid is overwritten; the audit trail keeps
// the earlier entry. The claimed amount is not cross-checked against
// the stored obligation, only logged when it differs.
func (s *Service) RecordPayment(guardianID uuid.UUID, in RecordPaymentInput) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByPeriod(guardianID, in.Month, in.Year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if in.Amount != payment.Amount {
		slog.Warn("claimed amount differs from obligation",
			"guardian_id", guardianID,
			"month", in.Month,
			"year", in.Year,
			"claimed", in.Amount,
			"obligation", payment.Amount,
		)
	}
	if payment.Paid {
		slog.Warn("overwriting an already settled payment",
			"guardian_id", guardianID,
			"payment_id", payment.ID,
			"month", in.Month,
			"year", in.Year,
		)
	}

	payment.Paid = true
	payment.PaymentDate = &in.PaymentDate
	payment.PaymentMethod = &in.PaymentMethod
	if in.ReceiptURL != nil {
		payment.ReceiptURL = in.ReceiptURL
	}
	if in.ReceiptMeta != nil {
		meta, err := json.Marshal(in.ReceiptMeta)
		if err != nil {
			return nil, fmt.Errorf("failed to encode receipt metadata: %w", err)
		}
		payment.ReceiptMeta = meta
	}

	if err := s.paymentRepo.Save(payment); err != nil {
		return nil, err
	}

	if err := s.activityRepo.Create(&models.ActivityLog{
		ID:         uuid.New(),
		GuardianID: guardianID,
		Action:     "Pago registrado",
		Details:    fmt.Sprintf("Pago registrado para %s %d", in.Month, in.Year),
		Timestamp:  time.Now(),
	}); err != nil {
		return nil, err
	}

	slog.Info("payment recorded",
		"guardian_id", guardianID,
		"payment_id", payment.ID,
		"month", in.Month,
		"year", in.Year,
	)
	return payment, nil
}

// ListPayments returns every obligation owned by the guardian.
func (s *Service) ListPayments(guardianID uuid.UUID) ([]models.Payment, error) {
	return s.paymentRepo.GetByGuardian(guardianID)
}

// ListActivity returns the guardian's audit trail, newest first.
func (s *Service) ListActivity(guardianID uuid.UUID) ([]models.ActivityLog, error) {
	return s.activityRepo.GetByGuardian(guardianID)
}
