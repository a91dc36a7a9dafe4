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

// maxImportFileBytes bounds uploaded CSV size (10 MiB).
const maxImportFileBytes = 10 << 20

type OrderHandler struct {
	orderService  services.OrderService
	importService services.ImportService
}

func NewOrderHandler(orderService services.OrderService, importService services.ImportService) *OrderHandler {
	return &OrderHandler{orderService: orderService, importService: importService}
}

func (oh *OrderHandler) List(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	orders, err := oh.orderService.List(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, orders)
}

func (oh *OrderHandler) Checkout(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	order, err := oh.orderService.CreateFromCart(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, order)
}

func (oh *OrderHandler) Get(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondErr(c, apierr.Validation("invalid order id"))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	order, err := oh.orderService.Get(c.Request.Context(), userID, orderID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, order)
}

func (oh *OrderHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondErr(c, apierr.Validation("invalid order id"))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	order, err := oh.orderService.Cancel(c.Request.Context(), userID, orderID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, order)
}

func (oh *OrderHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondErr(c, apierr.Validation("multipart field 'file' is required"))
		return
	}
	if fileHeader.Size > maxImportFileBytes {
		response.RespondErr(c, apierr.Validation("file too large"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxImportFileBytes+1))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if len(data) > maxImportFileBytes {
		response.RespondErr(c, apierr.Validation("file too large"))
		return
	}

	userID := ctxutil.UserID(c.Request.Context())
	result, err := oh.importService.ImportCSV(c.Request.Context(), userID, fileHeader.Filename, data)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, result)
}

func (oh *OrderHandler) ListImportRuns(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	runs, err := oh.importService.ListRuns(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, runs)
}
