package booking

import (
	"errors"
	"net/http"

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

// RegisterRoutes mounts the public booking endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.POST("/visits", h.RecordVisit)
}

// RegisterAdminRoutes mounts the gated management endpoints.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.DELETE("/bookings/:id", h.DeleteBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name and email are required")
		case errors.Is(err, domain.ErrStorageFull):
			response.Error(c, http.StatusInsufficientStorage, "STORAGE_FULL",
				"Local storage is full. Delete old bookings or portfolio items and try again.")
		case errors.Is(err, domain.ErrDuplicateID):
			response.Error(c, http.StatusConflict, "DUPLICATE_ID", "A booking with this id already exists")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		}
		return
	}

	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Booking id is required")
		case errors.Is(err, domain.ErrStorageFull):
			response.Error(c, http.StatusInsufficientStorage, "STORAGE_FULL",
				"Local storage is full. Delete old bookings or portfolio items and try again.")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete booking")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) RecordVisit(c *gin.Context) {
	h.service.RecordVisit(c.Request.Context())
	response.Success(c, http.StatusAccepted, gin.H{"recorded": true})
}
