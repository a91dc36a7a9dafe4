package handlers

import (
	"github.com/gin-gonic/gin"

	userrepo "github.com/shopina/shopina-backend/internal/data/repos/user"
	"github.com/shopina/shopina-backend/internal/http/response"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/ctxutil"
)

type UserHandler struct {
	userRepo userrepo.UserRepo
}

func NewUserHandler(userRepo userrepo.UserRepo) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	user, err := uh.userRepo.GetByID(c.Request.Context(), nil, userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if user == nil {
		response.RespondErr(c, apierr.NotFound("user not found"))
		return
	}
	response.RespondOK(c, user)
}
