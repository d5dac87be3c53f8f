package upload

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"newznepal/internal/pkg/response"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 64 * 1024

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload godoc
// @Summary Upload a news image
// @Description JPEG, PNG, WebP or GIF up to 5MB. Requires an admin session.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image"
// @Success 201 {object} map[string]interface{}
// @Failure 400,401,500 {object} map[string]interface{}
// @Router /upload [post]
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFileSize+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, ErrFileTooLarge)
			return
		}
		writeError(c, ErrNoFile)
		return
	}

	stored, err := h.service.Upload(c.Request.Context(), fh)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, stored)
}

// Delete godoc
// @Summary Delete a news image
// @Tags Uploads
// @Produce json
// @Param fileName query string true "Stored file name"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,404,500 {object} map[string]interface{}
// @Router /upload [delete]
func (h *Handler) Delete(c *gin.Context) {
	name := c.Query("fileName")
	if name == "" {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "No filename provided")
		return
	}
	if err := h.service.Delete(c.Request.Context(), name); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fileName": name, "message": "Image deleted"})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoFile), errors.Is(err, ErrEmptyFile):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "No file provided")
	case errors.Is(err, ErrFileTooLarge):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "File size too large. Maximum size is 5MB.")
	case errors.Is(err, ErrInvalidMimeType):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid file type. Only JPEG, PNG, WebP, and GIF images are allowed.")
	case errors.Is(err, ErrInvalidFileName):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid file name")
	case errors.Is(err, ErrUploadNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Image not found")
	default:
		response.Internal(c, err, "Upload failed")
	}
}
