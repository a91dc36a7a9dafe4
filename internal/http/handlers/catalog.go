package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogrepo "github.com/shopina/shopina-backend/internal/data/repos/catalog"
	"github.com/shopina/shopina-backend/internal/http/response"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (ch *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := ch.catalogService.Categories(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, categories)
}

func (ch *CatalogHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.Validation("invalid request body"))
		return
	}
	category, err := ch.catalogService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, category)
}

func (ch *CatalogHandler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	products, err := ch.catalogService.Products(c.Request.Context(), catalogrepo.ProductSearch{
		Query:        c.Query("search"),
		CategoryName: c.Query("category"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, products)
}

func (ch *CatalogHandler) TopProducts(c *gin.Context) {
	products, err := ch.catalogService.TopProducts(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, products)
}

// GetProduct resolves the path parameter as a uuid first and falls back to
// slug lookup.
func (ch *CatalogHandler) GetProduct(c *gin.Context) {
	param := c.Param("id")
	if productID, err := uuid.Parse(param); err == nil {
		product, err := ch.catalogService.ProductByID(c.Request.Context(), productID)
		if err != nil {
			response.RespondErr(c, err)
			return
		}
		response.RespondOK(c, product)
		return
	}
	product, err := ch.catalogService.ProductBySlug(c.Request.Context(), param)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, product)
}

func (ch *CatalogHandler) CreateProduct(c *gin.Context) {
	var req services.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.Validation("invalid request body"))
		return
	}
	product, err := ch.catalogService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, product)
}

func (ch *CatalogHandler) UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondErr(c, apierr.Validation("invalid product id"))
		return
	}
	var req services.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, apierr.Validation("invalid request body"))
		return
	}
	product, err := ch.catalogService.UpdateProduct(c.Request.Context(), productID, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, product)
}
