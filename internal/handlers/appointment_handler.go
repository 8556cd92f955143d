package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/careflow/booking-api/internal/common"
	"github.com/careflow/booking-api/internal/models"
	"github.com/careflow/booking-api/internal/store"
)

// BookingRequest is the booking payload. Patient and provider are user id
// hex strings; Extra carries any additional caller-supplied fields, passed
// through unvalidated.
type BookingRequest struct {
	Patient   string         `json:"patient" binding:"required"`
	Provider  string         `json:"provider" binding:"required"`
	StartTime time.Time      `json:"startTime" binding:"required"`
	EndTime   time.Time      `json:"endTime" binding:"required"`
	Location  string         `json:"location" binding:"required"`
	Service   string         `json:"service"`
	Extra     map[string]any `json:"extra"`
}

// UpdateRequest is the replacement payload for an update. The caller must
// resupply patient and provider: notifications resolve users from this
// payload, not from the stored record.
type UpdateRequest struct {
	Patient   string         `json:"patient" binding:"required"`
	Provider  string         `json:"provider" binding:"required"`
	StartTime time.Time      `json:"startTime" binding:"required"`
	EndTime   time.Time      `json:"endTime" binding:"required"`
	Location  string         `json:"location" binding:"required"`
	Service   *string        `json:"service"`
	Extra     map[string]any `json:"extra"`
}

// CreateAppointment persists a booking, notifies the patient on both
// channels, then lets the waitlist processor react to the confirmed slot.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	patientID, err := parseObjectID(req.Patient, "patient")
	if err != nil {
		c.Error(err)
		return
	}
	providerID, err := parseObjectID(req.Provider, "provider")
	if err != nil {
		c.Error(err)
		return
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	apt := models.Appointment{
		Patient:   patientID,
		Provider:  providerID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Service:   req.Service,
		Extra:     req.Extra,
	}
	if err := h.Appointments.CreateAppointment(ctx, &apt); err != nil {
		c.Error(err)
		return
	}

	patient, provider, err := h.resolveParties(ctx, patientID, providerID)
	if err != nil {
		c.Error(err)
		return
	}

	message := fmt.Sprintf(
		"Dear %s, your appointment with %s at %s has been booked.",
		patient.Username, provider.Username, apt.StartTime.Format(time.RFC3339),
	)
	h.notifyPatient(ctx, patient, "Appointment Booked", message)

	// Best-effort: the booking is already persisted, so a waitlist failure
	// is logged rather than surfaced.
	if err := h.WaitlistSvc.ProcessWaitlist(ctx, providerID, apt.StartTime, apt.EndTime, apt.Location); err != nil {
		h.Logger.Warn("waitlist processing failed",
			zap.String("appointment", apt.ID.Hex()), zap.Error(err))
	}

	c.JSON(http.StatusCreated, apt)
}

// UpdateAppointment replaces the supplied fields on an existing record and
// notifies the patient named in the payload.
func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"), "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	patientID, err := parseObjectID(req.Patient, "patient")
	if err != nil {
		c.Error(err)
		return
	}
	providerID, err := parseObjectID(req.Provider, "provider")
	if err != nil {
		c.Error(err)
		return
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	updated, err := h.Appointments.UpdateAppointment(ctx, id, store.AppointmentUpdate{
		Patient:   patientID,
		Provider:  providerID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Service:   req.Service,
		Extra:     req.Extra,
	})
	if err != nil {
		c.Error(err)
		return
	}

	patient, provider, err := h.resolveParties(ctx, patientID, providerID)
	if err != nil {
		c.Error(err)
		return
	}

	message := fmt.Sprintf(
		"Dear %s, your appointment with %s has been updated to start at %s.",
		patient.Username, provider.Username, updated.StartTime.Format(time.RFC3339),
	)
	h.notifyPatient(ctx, patient, "Appointment Updated", message)

	c.JSON(http.StatusOK, updated)
}

// DeleteAppointment loads the record with its parties expanded, removes it,
// and notifies the patient of the cancellation.
func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"), "id")
	if err != nil {
		c.Error(err)
		return
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	apt, err := h.Appointments.FindAppointmentByID(ctx, id)
	if err != nil {
		c.Error(err)
		return
	}
	patient, provider, err := h.resolveParties(ctx, apt.Patient, apt.Provider)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.Appointments.DeleteAppointment(ctx, id); err != nil {
		c.Error(err)
		return
	}

	message := fmt.Sprintf(
		"Dear %s, your appointment with %s scheduled for %s has been cancelled.",
		patient.Username, provider.Username, apt.StartTime.Format(time.RFC3339),
	)
	h.notifyPatient(ctx, patient, "Appointment Cancelled", message)

	c.Status(http.StatusNoContent)
}

// SearchAppointments builds the filter incrementally from the supplied query
// parameters and returns matches with patient and provider expanded.
func (h *Handler) SearchAppointments(c *gin.Context) {
	var filter store.SearchFilter

	filter.Location = c.Query("location")
	filter.Service = c.Query("service")

	if providerStr := c.Query("provider"); providerStr != "" {
		providerID, err := parseObjectID(providerStr, "provider")
		if err != nil {
			c.Error(err)
			return
		}
		filter.Provider = &providerID
	}
	if startDateStr := c.Query("startDate"); startDateStr != "" {
		startDate, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			c.Error(common.ErrValidation.WithMsg("Invalid startDate, use YYYY-MM-DD"))
			return
		}
		filter.StartDate = &startDate
	}
	if endDateStr := c.Query("endDate"); endDateStr != "" {
		endDate, err := time.Parse("2006-01-02", endDateStr)
		if err != nil {
			c.Error(common.ErrValidation.WithMsg("Invalid endDate, use YYYY-MM-DD"))
			return
		}
		// Inclusive upper bound: cover the whole end day.
		endDate = endDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &endDate
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	appointments, err := h.Appointments.SearchAppointments(ctx, filter)
	if err != nil {
		c.Error(err)
		return
	}

	populated, err := h.populate(ctx, appointments)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, populated)
}

// resolveParties loads the patient and provider user records backing a
// booking.
func (h *Handler) resolveParties(ctx context.Context, patientID, providerID primitive.ObjectID) (*models.User, *models.User, error) {
	patient, err := h.Users.FindUserByID(ctx, patientID)
	if err != nil {
		return nil, nil, err
	}
	provider, err := h.Users.FindUserByID(ctx, providerID)
	if err != nil {
		return nil, nil, err
	}
	return patient, provider, nil
}

// notifyPatient dispatches a message through both channels. Delivery is
// best-effort against an already-persisted record: failures are logged, not
// surfaced.
func (h *Handler) notifyPatient(ctx context.Context, patient *models.User, subject, message string) {
	if err := h.Notifier.SendEmail(ctx, patient.Email, subject, message); err != nil {
		h.Logger.Warn("email dispatch failed",
			zap.String("patient", patient.ID.Hex()), zap.Error(err))
	}
	if err := h.Notifier.SendMessage(ctx, patient.Phone, message); err != nil {
		h.Logger.Warn("message dispatch failed",
			zap.String("patient", patient.ID.Hex()), zap.Error(err))
	}
}

// populate expands patient/provider references on a result set with one
// batched user lookup.
func (h *Handler) populate(ctx context.Context, appointments []models.Appointment) ([]models.PopulatedAppointment, error) {
	ids := make([]primitive.ObjectID, 0, len(appointments)*2)
	seen := make(map[primitive.ObjectID]bool)
	for _, apt := range appointments {
		for _, id := range []primitive.ObjectID{apt.Patient, apt.Provider} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := h.Users.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	populated := make([]models.PopulatedAppointment, 0, len(appointments))
	for _, apt := range appointments {
		populated = append(populated, models.Populate(apt, users[apt.Patient], users[apt.Provider]))
	}
	return populated, nil
}

func parseObjectID(s, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, common.ErrValidation.WithMsg(fmt.Sprintf("Invalid %s id", field))
	}
	return id, nil
}

// bindError maps gin binding failures to the tagged validation error,
// carrying per-field messages when the failure came from the validator.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return common.ErrValidation.WithDetails(common.FormatValidationErrors(verrs))
	}
	return common.ErrValidation.WithMsg("Invalid request body")
}
