package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careflow/booking-api/internal/middleware"
	"github.com/careflow/booking-api/internal/models"
)

type WaitlistJoinRequest struct {
	Provider  string    `json:"provider" binding:"required"`
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Location  string    `json:"location" binding:"required"`
}

// JoinWaitlist queues a booking request for the authenticated caller. The
// entry stays "waiting" until a confirmed booking for an overlapping slot
// triggers its promotion.
func (h *Handler) JoinWaitlist(c *gin.Context) {
	var req WaitlistJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	patientID, err := parseObjectID(c.GetString(middleware.UserIDContextKey), "patient")
	if err != nil {
		c.Error(err)
		return
	}
	providerID, err := parseObjectID(req.Provider, "provider")
	if err != nil {
		c.Error(err)
		return
	}

	entry := models.WaitlistEntry{
		Patient:   patientID,
		Provider:  providerID,
		Location:  req.Location,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    models.WaitlistStatusWaiting,
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()
	if err := h.Waitlist.CreateWaitlistEntry(ctx, &entry); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}
