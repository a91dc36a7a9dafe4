package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	orderrepo "github.com/shopina/shopina-backend/internal/data/repos/order"
	paymentrepo "github.com/shopina/shopina-backend/internal/data/repos/payment"
	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/payments"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

const eventPaymentSucceeded = "payment_intent.succeeded"

var centsPerUnit = decimal.NewFromInt(100)

type PaymentConfig struct {
	WebhookSecret      string
	Currency           string
	SignatureTolerance time.Duration
}

type IntentResult struct {
	PaymentIntent string `json:"payment_intent"`
	ClientSecret  string `json:"client_secret"`
	// AmountCents is what the gateway charges: total * 100.
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

type PaymentService interface {
	CreateIntent(ctx context.Context, userID, orderID uuid.UUID) (*IntentResult, error)
	// HandleWebhook verifies the signature, records the event, and applies
	// the state change exactly once per event id.
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type paymentService struct {
	db          *gorm.DB
	log         *logger.Logger
	cfg         PaymentConfig
	provider    payments.Provider
	paymentRepo paymentrepo.PaymentRepo
	webhookRepo paymentrepo.WebhookEventRepo
	orderRepo   orderrepo.OrderRepo
	now         func() time.Time
}

func NewPaymentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg PaymentConfig,
	provider payments.Provider,
	paymentRepo paymentrepo.PaymentRepo,
	webhookRepo paymentrepo.WebhookEventRepo,
	orderRepo orderrepo.OrderRepo,
) PaymentService {
	svcLog := baseLog.With("service", "PaymentService")
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.SignatureTolerance <= 0 {
		cfg.SignatureTolerance = payments.DefaultSignatureTolerance
	}
	return &paymentService{
		db:          db,
		log:         svcLog,
		cfg:         cfg,
		provider:    provider,
		paymentRepo: paymentRepo,
		webhookRepo: webhookRepo,
		orderRepo:   orderRepo,
		now:         time.Now,
	}
}

func (s *paymentService) CreateIntent(ctx context.Context, userID, orderID uuid.UUID) (*IntentResult, error) {
	if s.provider == nil {
		return nil, apierr.BusinessLogic("payments are not configured")
	}

	order, err := s.orderRepo.GetByIDForUser(ctx, nil, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apierr.NotFound("order not found")
	}
	if order.Status != types.OrderStatusPending {
		return nil, apierr.InvalidOrderState("order in state %s cannot be paid", order.Status)
	}

	intent, err := s.provider.CreateIntent(ctx, payments.IntentRequest{
		OrderID:  order.ID.String(),
		Amount:   order.Total,
		Currency: s.cfg.Currency,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.paymentRepo.Create(ctx, nil, &types.Payment{
		ID:            uuid.New(),
		OrderID:       order.ID,
		PaymentIntent: intent.ID,
		Amount:        order.Total,
		Currency:      s.cfg.Currency,
		Status:        types.PaymentStatusCreated,
	}); err != nil {
		return nil, err
	}

	s.log.Info("Payment intent created", "order_id", order.ID, "payment_intent", intent.ID)
	return &IntentResult{
		PaymentIntent: intent.ID,
		ClientSecret:  intent.ClientSecret,
		AmountCents:   order.Total.Mul(centsPerUnit).Round(0).IntPart(),
		Currency:      s.cfg.Currency,
	}, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if err := payments.VerifySignature(payload, sigHeader, s.cfg.WebhookSecret, s.cfg.SignatureTolerance, s.now()); err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) || errors.Is(err, payments.ErrStaleTimestamp) {
			return apierr.Validation("invalid webhook signature")
		}
		return err
	}

	event, err := payments.ParseEvent(payload)
	if err != nil {
		return apierr.Validation("malformed webhook payload")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.webhookRepo.GetByEventID(ctx, tx, event.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			// Redelivery: acknowledge without reprocessing.
			s.log.Debug("Duplicate webhook event ignored", "event_id", event.ID)
			return nil
		}

		record, err := s.webhookRepo.Create(ctx, tx, &types.WebhookEvent{
			ID:        uuid.New(),
			EventID:   event.ID,
			EventType: event.Type,
			Payload:   datatypes.JSON(payload),
		})
		if err != nil {
			return err
		}

		if event.Type != eventPaymentSucceeded {
			s.log.Debug("Webhook event type unhandled", "event_id", event.ID, "event_type", event.Type)
			return nil
		}

		if err := s.applyPaymentSucceeded(ctx, tx, event.Data.Object.ID); err != nil {
			return err
		}
		return s.webhookRepo.MarkProcessed(ctx, tx, record.ID)
	})
}

func (s *paymentService) applyPaymentSucceeded(ctx context.Context, tx *gorm.DB, paymentIntent string) error {
	payment, err := s.paymentRepo.GetByIntent(ctx, tx, paymentIntent)
	if err != nil {
		return err
	}
	if payment == nil {
		s.log.Warn("Webhook for unknown payment intent", "payment_intent", paymentIntent)
		return nil
	}

	if err := s.paymentRepo.UpdateStatus(ctx, tx, paymentIntent, types.PaymentStatusSucceeded); err != nil {
		return err
	}

	order, err := s.orderRepo.GetByID(ctx, tx, payment.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		s.log.Warn("Payment references missing order", "order_id", payment.OrderID)
		return nil
	}

	// A successful charge drives the order through to completed, walking the
	// status machine one step at a time.
	status := order.Status
	for _, next := range []string{types.OrderStatusProcessing, types.OrderStatusCompleted} {
		if !types.CanTransitionOrder(status, next) {
			continue
		}
		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, next); err != nil {
			return err
		}
		status = next
	}
	if status != order.Status {
		s.log.Info("Order advanced by payment", "order_id", order.ID, "status", status)
	}
	return nil
}
