package schema

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
	rg.GET("/form-fields", h.ListFields)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/fields", h.SaveField)
	rg.DELETE("/fields/:index", h.RemoveField)
	rg.PUT("/fields/reorder", h.ReorderFields)
}

func (h *Handler) ListFields(c *gin.Context) {
	fields, err := h.service.Fields(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load form fields")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fields": fields})
}

func (h *Handler) SaveField(c *gin.Context) {
	var req SaveFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	fields, err := h.service.SaveField(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to save field")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fields": fields})
}

func (h *Handler) RemoveField(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}

	fields, err := h.service.Remove(c.Request.Context(), index)
	if err != nil {
		h.writeError(c, err, "Failed to remove field")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fields": fields})
}

type reorderRequest struct {
	From int `json:"from" binding:"min=0"`
	To   int `json:"to" binding:"min=0"`
}

func (h *Handler) ReorderFields(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	fields, err := h.service.Reorder(c.Request.Context(), req.From, req.To)
	if err != nil {
		h.writeError(c, err, "Failed to reorder fields")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fields": fields})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid field definition")
	case errors.Is(err, ErrDuplicateField):
		response.Error(c, http.StatusConflict, "DUPLICATE_FIELD",
			"A field with the same derived id already exists")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "No field at that position")
	case errors.Is(err, domain.ErrStorageFull):
		response.Error(c, http.StatusInsufficientStorage, "STORAGE_FULL",
			"Local storage is full. Delete old items and try again.")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid index")
		return 0, false
	}
	return index, true
}
