package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userrepo "github.com/shopina/shopina-backend/internal/data/repos/user"
	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/ctxutil"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	ShopName  string `json:"shop_name"`
}

type AuthResult struct {
	User         *types.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	// Login accepts either the email or the username as identifier.
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, accessToken string) error

	// SetContextFromToken validates a bearer token and returns a context
	// carrying the caller's identity. Used by the auth middleware.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	cfg       AuthConfig
	userRepo  userrepo.UserRepo
	tokenRepo userrepo.UserTokenRepo
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, cfg AuthConfig, userRepo userrepo.UserRepo, tokenRepo userrepo.UserTokenRepo) AuthService {
	svcLog := baseLog.With("service", "AuthService")
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &authService{db: db, log: svcLog, cfg: cfg, userRepo: userRepo, tokenRepo: tokenRepo, now: time.Now}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" || req.Password == "" {
		return nil, apierr.Validation("email, username and password are required")
	}

	var result *AuthResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		emailTaken, err := s.userRepo.EmailExists(ctx, tx, email)
		if err != nil {
			return err
		}
		if emailTaken {
			return apierr.Duplicate("email already registered")
		}
		usernameTaken, err := s.userRepo.UsernameExists(ctx, tx, username)
		if err != nil {
			return err
		}
		if usernameTaken {
			return apierr.Duplicate("username already taken")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &types.User{
			ID:        uuid.New(),
			Email:     email,
			Username:  username,
			Password:  string(hash),
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Phone:     strings.TrimSpace(req.Phone),
			Plan:      types.PlanFree,
			ShopName:  strings.TrimSpace(req.ShopName),
		}
		if _, err := s.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			return err
		}

		result, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("User registered", "user_id", result.User.ID)
	return result, nil
}

func (s *authService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apierr.Validation("identifier and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, nil, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.userRepo.GetByUsername(ctx, nil, identifier)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, apierr.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.Unauthorized("invalid credentials")
	}

	var result *AuthResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.issueTokens(ctx, tx, user)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apierr.Validation("refresh token is required")
	}

	var result *AuthResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.tokenRepo.GetByRefreshToken(ctx, tx, refreshToken)
		if err != nil {
			return err
		}
		if row == nil || row.ExpiresAt.Before(s.now()) {
			return apierr.Unauthorized("invalid refresh token")
		}
		user, err := s.userRepo.GetByID(ctx, tx, row.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return apierr.Unauthorized("invalid refresh token")
		}

		// Rotation: the old pair dies with the refresh.
		if err := s.tokenRepo.DeleteByID(ctx, tx, row.ID); err != nil {
			return err
		}
		result, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	row, err := s.tokenRepo.GetByAccessToken(ctx, nil, accessToken)
	if err != nil {
		return err
	}
	if row == nil {
		return nil
	}
	return s.tokenRepo.DeleteByID(ctx, nil, row.ID)
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, apierr.Unauthorized("missing bearer token")
	}

	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierr.Unauthorized("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return ctx, apierr.Unauthorized("invalid token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid token")
	}

	// Logout revokes the stored row, so a parsed-but-revoked token is
	// rejected here.
	row, err := s.tokenRepo.GetByAccessToken(ctx, nil, tokenString)
	if err != nil {
		return ctx, err
	}
	if row == nil || row.UserID != userID {
		return ctx, apierr.Unauthorized("invalid token")
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:      userID,
		TokenString: tokenString,
	}), nil
}

func (s *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (*AuthResult, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.AccessTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}
	refreshToken := uuid.NewString()

	if _, err := s.tokenRepo.Create(ctx, tx, &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.cfg.RefreshTTL),
	}); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}
