package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safescan/backend/internal/domain"
)

// GetLists handles GET /api/lists
func (h *Handler) GetLists(c *gin.Context) {
	lists, err := h.lists.GetWatchLists(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

// CreateList handles POST /api/lists
func (h *Handler) CreateList(c *gin.Context) {
	var req domain.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "list_name is required")
		return
	}

	list, err := h.lists.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// GetList handles GET /api/lists/:list_id
func (h *Handler) GetList(c *gin.Context) {
	listID, ok := idParam(c, "list_id")
	if !ok {
		return
	}

	list, err := h.lists.Get(c.Request.Context(), currentUserID(c), listID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateList handles PUT /api/lists/:list_id
func (h *Handler) UpdateList(c *gin.Context) {
	listID, ok := idParam(c, "list_id")
	if !ok {
		return
	}

	var req domain.UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	list, err := h.lists.Update(c.Request.Context(), currentUserID(c), listID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteList handles DELETE /api/lists/:list_id
func (h *Handler) DeleteList(c *gin.Context) {
	listID, ok := idParam(c, "list_id")
	if !ok {
		return
	}

	if err := h.lists.Delete(c.Request.Context(), currentUserID(c), listID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "list deleted"})
}

// AddListIngredients handles POST /api/lists/:list_id/ingredients
func (h *Handler) AddListIngredients(c *gin.Context) {
	listID, ok := idParam(c, "list_id")
	if !ok {
		return
	}

	var req domain.AddTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "ingredients are required")
		return
	}

	list, err := h.lists.AddTerms(c.Request.Context(), currentUserID(c), listID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// DeleteListIngredient handles DELETE /api/lists/:list_id/ingredients/:ingredient_id
func (h *Handler) DeleteListIngredient(c *gin.Context) {
	listID, ok := idParam(c, "list_id")
	if !ok {
		return
	}
	termID, ok := idParam(c, "ingredient_id")
	if !ok {
		return
	}

	if err := h.lists.DeleteTerm(c.Request.Context(), currentUserID(c), listID, termID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ingredient deleted"})
}
