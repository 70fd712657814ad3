package menu

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CanAccess lets admins see every upload and restaurants only their own.
func CanAccess(c *gin.Context, u *MenuUpload) bool {
	return c.GetString("userRole") == "ADMIN" || u.RestaurantID == c.GetString("userID")
}

// StatusFor maps menu errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoExtraction):
		return http.StatusNotFound
	case errors.Is(err, ErrMenuLocked),
		errors.Is(err, ErrNotRetryable),
		errors.Is(err, ErrNotClaimable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// --------------------------------------------------
// Restaurant uploads menu
// --------------------------------------------------
func (h *Handler) Upload(c *gin.Context) {
	restaurantID := c.GetString("userID")

	file, header, err := c.Request.FormFile("menu_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "menu_file is required"})
		return
	}
	defer file.Close()

	if err := ValidateFileExtension(header.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "menu_file exceeds 10MB"})
		return
	}

	upload, err := h.service.UploadMenu(
		c.Request.Context(),
		restaurantID,
		file,
		header.Filename,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		c.JSON(StatusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"menu_upload_id": upload.ID,
		"object_key":     upload.ObjectKey,
		"status":         upload.Status,
		"message":        "Menu uploaded. OCR and AI extraction will start automatically.",
	})
}

// ownedUpload loads the :id upload and writes the error response itself
// when it is missing or belongs to someone else.
func (h *Handler) ownedUpload(c *gin.Context) (*MenuUpload, bool) {
	upload, err := h.service.GetUpload(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(StatusFor(err), gin.H{"error": err.Error()})
		return nil, false
	}
	if !CanAccess(c, upload) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return upload, true
}

// --------------------------------------------------
// Frontend polls menu status
// --------------------------------------------------
func (h *Handler) GetStatus(c *gin.Context) {
	upload, ok := h.ownedUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, upload.StatusView())
}

// --------------------------------------------------
// Extracted menu document
// --------------------------------------------------
func (h *Handler) GetExtraction(c *gin.Context) {
	ctx := c.Request.Context()

	upload, ok := h.ownedUpload(c)
	if !ok {
		return
	}

	doc, err := h.service.GetExtraction(ctx, upload.ID)
	if err != nil {
		c.JSON(StatusFor(err), gin.H{"error": err.Error(), "status": upload.Status})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// --------------------------------------------------
// Retry a failed extraction
// --------------------------------------------------
func (h *Handler) Retry(c *gin.Context) {
	upload, ok := h.ownedUpload(c)
	if !ok {
		return
	}
	if err := h.service.RetryFailed(c.Request.Context(), upload.ID); err != nil {
		c.JSON(StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status":  StatusUploaded,
		"message": "Menu queued for extraction again.",
	})
}
