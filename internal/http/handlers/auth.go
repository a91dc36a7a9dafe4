package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopina/shopina-backend/internal/http/response"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/ctxutil"
	"github.com/shopina/shopina-backend/internal/services"
)

type AuthHandler struct {
	authService      services.AuthService
	twoFactorService services.TwoFactorService
}

func NewAuthHandler(authService services.AuthService, twoFactorService services.TwoFactorService) *AuthHandler {
	return &AuthHandler{authService: authService, twoFactorService: twoFactorService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.Validation("invalid request body"))
		return
	}
	result, err := ah.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, result)
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier"`
		Email      string `json:"email"`
		Username   string `json:"username"`
		Password   string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.Validation("invalid request body"))
		return
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		identifier = req.Username
	}
	result, err := ah.authService.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.Validation("invalid request body"))
		return
	}
	result, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if err := ah.authService.Logout(c.Request.Context(), rd.TokenString); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AuthHandler) StartTwoFactor(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	result, err := ah.twoFactorService.Start(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (ah *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.Validation("invalid request body"))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	if err := ah.twoFactorService.Verify(c.Request.Context(), userID, req.Code); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
