package app

import (
	"os"
	"strings"
	"time"

	"github.com/shopina/shopina-backend/internal/platform/envutil"
)

type Config struct {
	Env  string
	Addr string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	TwoFactorSecret string
	TwoFactorTTL    time.Duration

	StripeAPIKey  string
	WebhookSecret string
	Currency      string
}

func LoadConfig() Config {
	return Config{
		Env:  envutil.String("APP_ENV", "development"),
		Addr: envutil.String("HTTP_ADDR", ":8080"),

		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", 3600),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 7*86400),

		TwoFactorSecret: envutil.String("TWO_FACTOR_SECRET", "defaultsecret"),
		TwoFactorTTL:    envutil.Seconds("TWO_FACTOR_TTL", 600),

		StripeAPIKey:  strings.TrimSpace(os.Getenv("STRIPE_API_KEY")),
		WebhookSecret: strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET")),
		Currency:      envutil.String("PAYMENT_CURRENCY", "usd"),
	}
}
