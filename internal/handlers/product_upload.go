package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadImage accepts a multipart "file" (or "image") field and answers
// with the stored image URL.
func (h *Handlers) UploadImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/upload"

		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			h.respondWithError(c, http.StatusBadRequest, route, "invalid multipart body", zap.Error(err))
			return
		}

		file, err := c.FormFile("file")
		if errors.Is(err, http.ErrMissingFile) {
			file, err = c.FormFile("image")
		}
		if err != nil {
			h.respondWithError(c, http.StatusBadRequest, route, "image file is required")
			return
		}

		url, err := h.uploads.saveImage(file)
		if err != nil {
			h.respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		h.log.Info("image uploaded", zap.String("url", url), zap.Int64("size", file.Size))
		c.JSON(http.StatusOK, gin.H{"secure_url": url})
	}
}
