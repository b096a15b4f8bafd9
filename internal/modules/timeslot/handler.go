package timeslot

import (
	"errors"
	"net/http"
	"strconv"

	"tavolina/internal/pkg/response"
	"tavolina/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/timeslots", h.Get)
	rg.POST("/timeslots", h.Create)
	rg.PUT("/timeslots", h.Update)
	rg.DELETE("/timeslots", h.Delete)

	rg.POST("/timeslots/overrides", h.SetOverride)
	rg.DELETE("/timeslots/overrides", h.RemoveOverride)
}

// Get dispatches on the legacy ?action= query the site frontend uses:
// available, validate, seed, or (no action) the full catalog.
func (h *Handler) Get(c *gin.Context) {
	switch c.Query("action") {
	case "available":
		h.getAvailable(c)
	case "validate":
		h.validate(c)
	case "seed":
		h.seed(c)
	default:
		h.list(c)
	}
}

func (h *Handler) list(c *gin.Context) {
	slots, err := h.service.ListTimeSlots(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, slots)
}

func (h *Handler) getAvailable(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date is required")
		return
	}

	slots, err := h.service.GetAvailableSlots(c.Request.Context(), date)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, slots)
}

func (h *Handler) validate(c *gin.Context) {
	date := c.Query("date")
	timeOfDay := c.Query("time")
	guestsRaw := c.Query("guests")

	guests, err := strconv.Atoi(guestsRaw)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "guests must be an integer")
		return
	}

	verdict, err := h.service.ValidateReservation(c.Request.Context(), date, timeOfDay, guests)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// Historical wire shape: the validate action returns the verdict at the
	// top level, without the success envelope the other actions use.
	c.JSON(http.StatusOK, verdict)
}

func (h *Handler) seed(c *gin.Context) {
	created, err := h.service.SeedDefaultSlots(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, created)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid time slot payload", errs)
		return
	}

	slot, err := h.service.CreateSlot(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, slot)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid time slot payload", errs)
		return
	}

	slot, err := h.service.UpdateSlot(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, slot)
}

func (h *Handler) Delete(c *gin.Context) {
	var req DeleteTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payload", errs)
		return
	}

	if err := h.service.DeleteSlot(c.Request.Context(), req.ID); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": req.ID})
}

func (h *Handler) SetOverride(c *gin.Context) {
	var req SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid override payload", errs)
		return
	}

	err := h.service.SetCapacityOverride(c.Request.Context(), req.TimeSlotID, req.DayOfWeek, req.MaxCapacity)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"timeSlotId":  req.TimeSlotID,
		"dayOfWeek":   req.DayOfWeek,
		"maxCapacity": req.MaxCapacity,
		"isActive":    true,
	})
}

func (h *Handler) RemoveOverride(c *gin.Context) {
	var req RemoveOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.RemoveCapacityOverride(c.Request.Context(), req.TimeSlotID, req.DayOfWeek)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Time slot not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Storage error")
	}
}
