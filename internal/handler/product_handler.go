package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/todobabyrio/todobaby_api/internal/catalog"
	"github.com/todobabyrio/todobaby_api/internal/models"
	"github.com/todobabyrio/todobaby_api/internal/utils"
)

// CatalogReader is the storefront view of the catalog.
type CatalogReader interface {
	List(q catalog.Query) []models.Product
	Get(id int) (*models.Product, error)
	Related(id, limit int) ([]models.Product, error)
}

// ProductHandler serves the public catalog.
type ProductHandler struct {
	products CatalogReader
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(products CatalogReader) *ProductHandler {
	return &ProductHandler{products: products}
}

// GetCategories handles GET /v1/categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	utils.Success(c, 200, "Categories retrieved", catalog.Categories)
}

// GetProducts handles GET /v1/products?category=&search=
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products := h.products.List(catalog.Query{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   c.Query("search"),
	})
	utils.Success(c, 200, "Products retrieved", products)
}

// GetProduct handles GET /v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	product, err := h.products.Get(id)
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

// GetRelated handles GET /v1/products/:id/related
func (h *ProductHandler) GetRelated(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	related, err := h.products.Related(id, catalog.DefaultRelatedLimit)
	if err != nil {
		respondError(c, err, "Failed to retrieve related products")
		return
	}
	utils.Success(c, 200, "Related products retrieved", related)
}
