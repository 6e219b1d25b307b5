package services

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/sportscamp/sportscamp-api/model"
	"github.com/sportscamp/sportscamp-api/services/stripe"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrClassNotFound = errors.New("class not found")
	ErrClassFull     = errors.New("class has no remaining seats")
)

// PaymentGateway mints an opaque payment intent for an amount in minor
// units. Satisfied by *stripe.Client; faked in tests.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req stripe.IntentRequest) (*stripe.Intent, error)
}

// PaymentService orchestrates the booking to enrollment transition:
// gateway intent, payment record, booking retirement, seat bookkeeping.
type PaymentService struct {
	db      *gorm.DB
	gateway PaymentGateway
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, gateway PaymentGateway) *PaymentService {
	return &PaymentService{db: db, gateway: gateway}
}

// SettleResult reports both outcomes of a settle so the caller can see
// when the booking was already gone.
type SettleResult struct {
	PaymentID       string `json:"payment_id"`
	DeletedBookings int64  `json:"deleted_bookings"`
}

// CreateIntent asks the gateway for a payment intent covering the given
// price (major units) and returns only the client-facing secret.
// Currency is fixed to usd, card only.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	amount := int64(math.Round(price * 100))
	intent, err := s.gateway.CreateIntent(ctx, stripe.IntentRequest{
		Amount:             amount,
		Currency:           "usd",
		PaymentMethodTypes: []string{"card"},
	})
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}

// Settle records the payment and retires the booking it references, in
// one transaction. The payment insert is append-only with no dedup; a
// booking that is already gone makes the delete report zero rows but
// does not fail the settle, since the payment record is authoritative.
func (s *PaymentService) Settle(ctx context.Context, payment *model.Payment) (*SettleResult, error) {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}

	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", payment.BookingID).Delete(&model.Booking{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SettleResult{
		PaymentID:       payment.ID,
		DeletedBookings: deleted,
	}, nil
}

// FinalizeSeat moves one seat from remaining capacity to the enrolled
// count, under a row lock. A missing class is a typed ErrClassNotFound;
// a class with no seats left is refused with ErrClassFull.
func (s *PaymentService) FinalizeSeat(ctx context.Context, classID uint) (*model.Class, error) {
	var cls model.Class
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cls, classID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		if err != nil {
			return err
		}
		if cls.Seats <= 0 {
			return ErrClassFull
		}
		cls.Seats--
		cls.Student++
		return tx.Model(&model.Class{}).
			Where("id = ?", cls.ID).
			Updates(map[string]interface{}{"seats": cls.Seats, "student": cls.Student}).Error
	})
	if err != nil {
		return nil, err
	}
	return &cls, nil
}

// EnrolledClasses returns the student's payment history newest first,
// together with the class records those payments reference.
func (s *PaymentService) EnrolledClasses(ctx context.Context, studentEmail string) ([]model.Payment, []model.Class, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Where("student_email = ?", studentEmail).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uint, 0, len(payments))
	for _, p := range payments {
		ids = append(ids, p.ClassID)
	}

	var classes []model.Class
	if len(ids) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&classes).Error; err != nil {
			return nil, nil, err
		}
	}
	return payments, classes, nil
}

// ListAll returns every payment record, newest first.
func (s *PaymentService) ListAll(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&payments).Error
	return payments, err
}
