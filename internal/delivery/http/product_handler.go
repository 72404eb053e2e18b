package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/safescan/backend/internal/domain"
)

// ListProducts handles GET /api/products?name=
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	report, err := h.products.Get(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetProductByBarcode handles GET /api/products/barcode/:barcode
func (h *Handler) GetProductByBarcode(c *gin.Context) {
	report, err := h.products.LookupBarcode(c.Request.Context(), c.Param("barcode"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CheckIngredients handles POST /api/products/check-ingredients
func (h *Handler) CheckIngredients(c *gin.Context) {
	var req domain.CheckIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	matches, err := h.products.CheckIngredients(c.Request.Context(), currentUserID(c), req.Ingredients)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.CheckIngredientsResponse{UnwantedIngredients: matches})
}

// RecommendedProducts handles GET /api/products/recommended?limit=
func (h *Handler) RecommendedProducts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "invalid limit")
			return
		}
		limit = n
	}

	products, err := h.products.Recommended(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommended_products": products})
}

// CreateProduct handles POST /api/products (admin)
func (h *Handler) CreateProduct(c *gin.Context) {
	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	product, err := h.products.Create(c.Request.Context(), currentUserID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/:id (admin)
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var upd domain.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, &upd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/:id (admin)
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
