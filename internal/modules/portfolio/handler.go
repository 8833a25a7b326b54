package portfolio

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inkstudio/internal/domain"
	"inkstudio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/portfolio", h.ListImages)
	rg.GET("/home-image", h.GetHomeImage)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/portfolio", h.AddImage)
	rg.DELETE("/portfolio/:index", h.RemoveImage)
	rg.PUT("/portfolio/reorder", h.ReorderImages)
	rg.PUT("/home-image", h.SetHomeImage)
}

func (h *Handler) ListImages(c *gin.Context) {
	images, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load portfolio")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"images": images})
}

type imageRequest struct {
	Data string `json:"data" binding:"required"`
}

func (h *Handler) AddImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	images, err := h.service.Add(c.Request.Context(), req.Data)
	if err != nil {
		h.writeError(c, err, "Failed to add image")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"images": images})
}

func (h *Handler) RemoveImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid index")
		return
	}

	images, err := h.service.Remove(c.Request.Context(), index)
	if err != nil {
		h.writeError(c, err, "Failed to remove image")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"images": images})
}

type reorderRequest struct {
	From int `json:"from" binding:"min=0"`
	To   int `json:"to" binding:"min=0"`
}

func (h *Handler) ReorderImages(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	images, err := h.service.Reorder(c.Request.Context(), req.From, req.To)
	if err != nil {
		h.writeError(c, err, "Failed to reorder portfolio")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"images": images})
}

func (h *Handler) GetHomeImage(c *gin.Context) {
	image, err := h.service.HomeImage(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load home image")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"image": image})
}

func (h *Handler) SetHomeImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	image, err := h.service.SetHomeImage(c.Request.Context(), req.Data)
	if err != nil {
		h.writeError(c, err, "Failed to set home image")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"image": image})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid or undecodable image payload")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "No image at that position")
	case errors.Is(err, domain.ErrStorageFull):
		response.Error(c, http.StatusInsufficientStorage, "STORAGE_FULL",
			"Local storage is full. Delete old items and try again.")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
