package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopina/shopina-backend/internal/http/response"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/ctxutil"
	"github.com/shopina/shopina-backend/internal/services"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (ch *CartHandler) GetCart(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	cart, err := ch.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, cart)
}

func (ch *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  int       `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.Validation("invalid request body"))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	cart, err := ch.cartService.AddToCart(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, cart)
}

func (ch *CartHandler) UpdateItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondErr(c, apierr.Validation("invalid item id"))
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.Validation("invalid request body"))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	cart, err := ch.cartService.UpdateItem(c.Request.Context(), userID, itemID, req.Quantity)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, cart)
}

func (ch *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondErr(c, apierr.Validation("invalid item id"))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	cart, err := ch.cartService.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, cart)
}

func (ch *CartHandler) ClearCart(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	if err := ch.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
