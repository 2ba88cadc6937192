package handlers

import (
	"errors"
	"net/http"

	"meetio/database/repository"
	"meetio/middleware"
	"meetio/models"
	"meetio/services/reservation"
	"meetio/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the reservation endpoints.
type BookingHandler struct {
	Svc reservation.Service
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc reservation.Service) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

type createBookingInput struct {
	ExpertID  string `json:"expertId"`
	Date      string `json:"date"`
	TimeSlot  string `json:"timeSlot"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	UserPhone string `json:"userPhone"`
	Notes     string `json:"notes"`
}

// CreateBooking handles POST /api/bookings. Identity fields from the
// authenticated principal take precedence over the body.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input createBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	req := reservation.ReserveRequest{
		ExpertID:  input.ExpertID,
		Date:      input.Date,
		TimeSlot:  input.TimeSlot,
		UserName:  input.UserName,
		UserEmail: input.UserEmail,
		UserPhone: input.UserPhone,
		Notes:     input.Notes,
	}
	if principal := middleware.PrincipalFrom(c); principal != nil {
		req.UserName = principal.Name
		req.UserEmail = principal.Email
		if req.UserPhone == "" {
			req.UserPhone = principal.Phone
		}
	}

	booking, err := h.Svc.Reserve(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking created successfully", "booking": booking})
}

// UpdateBookingStatus handles PATCH /api/bookings/:id/status.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := h.Svc.UpdateStatus(c.Request.Context(), c.Param("id"), models.BookingStatus(input.Status))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking status updated", "booking": booking})
}

// GetBookingsByEmail handles GET /api/bookings?email=. Anonymous callers may
// look up by email; authenticated callers are restricted to their own.
func (h *BookingHandler) GetBookingsByEmail(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	bookings, err := h.Svc.BookingsByEmail(c.Request.Context(), c.Query("email"), principal)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// writeError maps the service error taxonomy onto HTTP statuses.
func (h *BookingHandler) writeError(c *gin.Context, err error) {
	var vErr reservation.ValidationError
	if errors.As(err, &vErr) {
		utils.JSONFieldErrors(c, vErr.Fields)
		return
	}

	switch {
	case errors.Is(err, repository.ErrExpertNotFound):
		utils.JSONError(c, http.StatusNotFound, "Expert not found", "")
	case errors.Is(err, repository.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "Booking not found", "")
	case errors.Is(err, repository.ErrDateUnavailable):
		utils.JSONError(c, http.StatusBadRequest, "Selected date is not available", "")
	case errors.Is(err, repository.ErrSlotNotFound):
		utils.JSONError(c, http.StatusBadRequest, "Selected time slot does not exist", "")
	case errors.Is(err, repository.ErrSlotTaken):
		utils.JSONError(c, http.StatusConflict, "This time slot is already booked", "")
	case errors.Is(err, reservation.ErrInvalidStatus),
		errors.Is(err, reservation.ErrInvalidTransition):
		utils.JSONError(c, http.StatusBadRequest, "Invalid status", err.Error())
	case errors.Is(err, reservation.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "Forbidden: cannot request other user's bookings", "")
	case errors.Is(err, reservation.ErrEmailRequired):
		utils.JSONError(c, http.StatusBadRequest, "Email is required", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process booking request", err.Error())
	}
}
