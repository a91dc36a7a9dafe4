package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopina/shopina-backend/internal/http/response"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/ctxutil"
	"github.com/shopina/shopina-backend/internal/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (rh *ReviewHandler) ListForProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondErr(c, apierr.Validation("invalid product id"))
		return
	}
	reviews, err := rh.reviewService.ListForProduct(c.Request.Context(), productID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, reviews)
}

func (rh *ReviewHandler) Upsert(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondErr(c, apierr.Validation("invalid product id"))
		return
	}
	var req struct {
		Rating  float64 `json:"rating"`
		Comment string  `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.Validation("invalid request body"))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	review, err := rh.reviewService.Upsert(c.Request.Context(), userID, productID, req.Rating, req.Comment)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, review)
}
