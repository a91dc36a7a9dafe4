package app

import (
	"github.com/shopina/shopina-backend/internal/payments"
	"github.com/shopina/shopina-backend/internal/platform/logger"
	"github.com/shopina/shopina-backend/internal/platform/mailer"
	"github.com/shopina/shopina-backend/internal/platform/redis"
)

type Clients struct {
	Mailer mailer.Client
	Cache  *redis.Cache
	Stripe payments.Provider
}

// wireClients builds optional external clients. Missing credentials disable
// the client rather than failing startup.
func wireClients(log *logger.Logger, cfg Config) Clients {
	log.Info("Wiring clients...")
	var clients Clients

	if mail, err := mailer.NewFromEnv(log); err != nil {
		log.Warn("Mailer disabled", "reason", err.Error())
	} else {
		clients.Mailer = mail
	}

	cache, err := redis.NewCacheFromEnv(log)
	if err != nil {
		log.Warn("Redis cache disabled", "reason", err.Error())
	} else if cache == nil {
		log.Info("Redis cache not configured")
	}
	clients.Cache = cache

	if cfg.StripeAPIKey == "" {
		log.Warn("Stripe disabled: STRIPE_API_KEY unset")
	} else {
		provider, err := payments.NewStripeProvider(log, payments.StripeProviderConfig{APIKey: cfg.StripeAPIKey})
		if err != nil {
			log.Warn("Stripe disabled", "reason", err.Error())
		} else {
			clients.Stripe = provider
		}
	}

	return clients
}
