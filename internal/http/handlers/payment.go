package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopina/shopina-backend/internal/http/response"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/ctxutil"
	"github.com/shopina/shopina-backend/internal/services"
)

const maxWebhookBodyBytes = 1 << 20

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (ph *PaymentHandler) CreateIntent(c *gin.Context) {
	var req struct {
		OrderID uuid.UUID `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.Validation("invalid request body"))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	result, err := ph.paymentService.CreateIntent(c.Request.Context(), userID, req.OrderID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, result)
}

// Webhook reads the raw body so the signature is verified over the exact
// bytes the provider sent.
func (ph *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		response.RespondErr(c, apierr.Validation("could not read body"))
		return
	}
	sigHeader := c.GetHeader("Stripe-Signature")
	if err := ph.paymentService.HandleWebhook(c.Request.Context(), payload, sigHeader); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"received": true})
}
