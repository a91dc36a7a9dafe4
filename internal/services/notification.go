package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	userrepo "github.com/shopina/shopina-backend/internal/data/repos/user"
	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/logger"
	"github.com/shopina/shopina-backend/internal/platform/mailer"
)

type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, userID uuid.UUID, order *types.Order) error
	SendTwoFactorCode(ctx context.Context, user *types.User, code string, expiresAt time.Time) error
}

type notificationService struct {
	log      *logger.Logger
	mail     mailer.Client
	userRepo userrepo.UserRepo
}

// NewNotificationService accepts a nil mail client; sends then become no-ops
// so environments without mail credentials still run.
func NewNotificationService(baseLog *logger.Logger, mail mailer.Client, userRepo userrepo.UserRepo) NotificationService {
	svcLog := baseLog.With("service", "NotificationService")
	return &notificationService{log: svcLog, mail: mail, userRepo: userRepo}
}

func (s *notificationService) SendOrderConfirmation(ctx context.Context, userID uuid.UUID, order *types.Order) error {
	if s.mail == nil {
		s.log.Debug("Mail client not configured, skipping order confirmation", "order_id", order.ID)
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("order confirmation: user %s not found", userID)
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour order %s has been placed.\n\nTotal: %s\nItems: %d\n\nThank you for shopping with us.",
		displayName(user), order.ID, order.Total.StringFixed(2), len(order.Items),
	)
	return s.mail.Send(ctx, mailer.SendEmailRequest{
		To:      []mailer.EmailAddress{{Email: user.Email, Name: displayName(user)}},
		Subject: fmt.Sprintf("Order confirmation %s", order.ID),
		Text:    body,
	})
}

func (s *notificationService) SendTwoFactorCode(ctx context.Context, user *types.User, code string, expiresAt time.Time) error {
	if s.mail == nil {
		s.log.Debug("Mail client not configured, skipping verification code email", "user_id", user.ID)
		return nil
	}
	body := fmt.Sprintf(
		"Your verification code is %s.\n\nIt expires at %s. If you did not request this code, ignore this email.",
		code, expiresAt.UTC().Format(time.RFC1123),
	)
	return s.mail.Send(ctx, mailer.SendEmailRequest{
		To:      []mailer.EmailAddress{{Email: user.Email, Name: displayName(user)}},
		Subject: "Your verification code",
		Text:    body,
	})
}

func displayName(u *types.User) string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Username
}
