package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type TwoFactorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, code *types.TwoFactorCode) (*types.TwoFactorCode, error)
	// GetLatestActive returns the newest unexpired, unverified code for the
	// user, or nil when none exists.
	GetLatestActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) (*types.TwoFactorCode, error)
	IncrementAttempts(ctx context.Context, tx *gorm.DB, codeID uuid.UUID) error
	MarkVerified(ctx context.Context, tx *gorm.DB, codeID uuid.UUID) error
	// ExpireActiveForUser force-expires every outstanding code so a reissued
	// OTP is the only valid one.
	ExpireActiveForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) error
}

type twoFactorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTwoFactorRepo(db *gorm.DB, baseLog *logger.Logger) TwoFactorRepo {
	repoLog := baseLog.With("repo", "TwoFactorRepo")
	return &twoFactorRepo{db: db, log: repoLog}
}

func (fr *twoFactorRepo) Create(ctx context.Context, tx *gorm.DB, code *types.TwoFactorCode) (*types.TwoFactorCode, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if err := transaction.WithContext(ctx).Create(code).Error; err != nil {
		return nil, err
	}
	return code, nil
}

func (fr *twoFactorRepo) GetLatestActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) (*types.TwoFactorCode, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var result types.TwoFactorCode
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND verified = ? AND expires_at > ?", userID, false, now).
		Order("created_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (fr *twoFactorRepo) IncrementAttempts(ctx context.Context, tx *gorm.DB, codeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.TwoFactorCode{}).
		Where("id = ?", codeID).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
}

func (fr *twoFactorRepo) MarkVerified(ctx context.Context, tx *gorm.DB, codeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.TwoFactorCode{}).
		Where("id = ?", codeID).
		Update("verified", true).Error
}

func (fr *twoFactorRepo) ExpireActiveForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.TwoFactorCode{}).
		Where("user_id = ? AND verified = ? AND expires_at > ?", userID, false, now).
		Update("expires_at", now).Error
}
