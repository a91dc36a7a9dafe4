package services

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userrepo "github.com/shopina/shopina-backend/internal/data/repos/user"
	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

const (
	twoFactorCodeDigits  = 6
	twoFactorMaxAttempts = 5
)

type TwoFactorConfig struct {
	// Secret keys the HMAC under which codes are stored. Plain codes never
	// touch the database.
	Secret string
	TTL    time.Duration
	Env    string
}

type TwoFactorStartResult struct {
	ExpiresAt time.Time `json:"expires_at"`

	// DebugCode carries the plain code outside production so local clients
	// can complete the flow without a mail inbox.
	DebugCode string `json:"debug_code,omitempty"`
}

type TwoFactorService interface {
	Start(ctx context.Context, userID uuid.UUID) (*TwoFactorStartResult, error)
	Verify(ctx context.Context, userID uuid.UUID, code string) error
}

type twoFactorService struct {
	db       *gorm.DB
	log      *logger.Logger
	cfg      TwoFactorConfig
	userRepo userrepo.UserRepo
	codeRepo userrepo.TwoFactorRepo
	notifier NotificationService
	now      func() time.Time
}

func NewTwoFactorService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg TwoFactorConfig,
	userRepo userrepo.UserRepo,
	codeRepo userrepo.TwoFactorRepo,
	notifier NotificationService,
) TwoFactorService {
	svcLog := baseLog.With("service", "TwoFactorService")
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	return &twoFactorService{
		db:       db,
		log:      svcLog,
		cfg:      cfg,
		userRepo: userRepo,
		codeRepo: codeRepo,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *twoFactorService) Start(ctx context.Context, userID uuid.UUID) (*TwoFactorStartResult, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierr.NotFound("user not found")
	}

	code, err := generateNumericCode(twoFactorCodeDigits)
	if err != nil {
		return nil, err
	}
	now := s.now()
	expiresAt := now.Add(s.cfg.TTL)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Reissuing invalidates every outstanding code, so exactly one code
		// is verifiable at a time.
		if err := s.codeRepo.ExpireActiveForUser(ctx, tx, userID, now); err != nil {
			return err
		}
		_, err := s.codeRepo.Create(ctx, tx, &types.TwoFactorCode{
			ID:        uuid.New(),
			UserID:    userID,
			CodeHash:  s.hashCode(code),
			ExpiresAt: expiresAt,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendTwoFactorCode(ctx, user, code, expiresAt); err != nil {
		if s.isProduction() {
			return nil, apierr.BusinessLogic("could not deliver verification code")
		}
		s.log.Warn("Verification code email failed", "user_id", userID, "error", err)
	}

	result := &TwoFactorStartResult{ExpiresAt: expiresAt}
	if !s.isProduction() {
		result.DebugCode = code
	}
	return result, nil
}

func (s *twoFactorService) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return apierr.Validation("code is required")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		active, err := s.codeRepo.GetLatestActive(ctx, tx, userID, s.now())
		if err != nil {
			return err
		}
		if active == nil {
			return apierr.BusinessLogic("no active verification code")
		}
		if active.Attempts >= twoFactorMaxAttempts {
			return apierr.BusinessLogic("too many verification attempts")
		}

		if !hmac.Equal([]byte(s.hashCode(code)), []byte(active.CodeHash)) {
			if err := s.codeRepo.IncrementAttempts(ctx, tx, active.ID); err != nil {
				return err
			}
			return apierr.Validation("invalid verification code")
		}

		return s.codeRepo.MarkVerified(ctx, tx, active.ID)
	})
}

func (s *twoFactorService) hashCode(code string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.Secret))
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *twoFactorService) isProduction() bool {
	switch strings.ToLower(strings.TrimSpace(s.cfg.Env)) {
	case "prod", "production":
		return true
	default:
		return false
	}
}

func generateNumericCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
