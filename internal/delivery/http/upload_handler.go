package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safescan/backend/internal/domain"
)

// UploadProductImage handles POST /api/upload/product-image (multipart field "image")
func (h *Handler) UploadProductImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, domain.ErrFileTooLarge)
			return
		}
		badRequest(c, "image file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		badRequest(c, "unable to read image")
		return
	}
	defer file.Close()

	filename, path, err := h.images.Save(c.Request.Context(), header.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "image uploaded",
		"filename": filename,
		"path":     path,
	})
}
