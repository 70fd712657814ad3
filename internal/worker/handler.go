package worker

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Remedy92/Culi-sub000/internal/menu"
)

type Handler struct {
	service *Service
	store   Store
}

func NewHandler(service *Service, store Store) *Handler {
	return &Handler{service: service, store: store}
}

// --------------------------------------------------
// Run extraction now (instead of waiting for the poller)
// --------------------------------------------------
func (h *Handler) Extract(c *gin.Context) {
	ctx := c.Request.Context()

	upload, err := h.store.GetUpload(ctx, c.Param("id"))
	if err != nil {
		c.JSON(menu.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	if !menu.CanAccess(c, upload) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	doc, err := h.service.Extract(ctx, upload.ID)
	switch {
	case errors.Is(err, ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  err.Error(),
			"status": menu.StatusFailed,
		})
		return
	}

	c.JSON(http.StatusOK, doc)
}
