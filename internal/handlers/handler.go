package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careflow/booking-api/internal/services"
	"github.com/careflow/booking-api/internal/store"
)

// Handler carries the collaborators every request handler needs: the stores,
// the notification gateway and the waitlist processor.
type Handler struct {
	Appointments store.AppointmentStore
	Users        store.UserStore
	Waitlist     store.WaitlistStore
	Notifier     services.Notifier
	WaitlistSvc  services.WaitlistProcessor
	Logger       *zap.Logger

	JWTSecret    string
	StoreTimeout time.Duration
}

type Deps struct {
	Appointments store.AppointmentStore
	Users        store.UserStore
	Waitlist     store.WaitlistStore
	Notifier     services.Notifier
	WaitlistSvc  services.WaitlistProcessor
	Logger       *zap.Logger
	JWTSecret    string
	StoreTimeout time.Duration
}

func NewHandler(deps Deps) *Handler {
	if deps.StoreTimeout == 0 {
		deps.StoreTimeout = 10 * time.Second
	}
	return &Handler{
		Appointments: deps.Appointments,
		Users:        deps.Users,
		Waitlist:     deps.Waitlist,
		Notifier:     deps.Notifier,
		WaitlistSvc:  deps.WaitlistSvc,
		Logger:       deps.Logger,
		JWTSecret:    deps.JWTSecret,
		StoreTimeout: deps.StoreTimeout,
	}
}

// opCtx derives the deadline every store and gateway call in a request runs
// under.
func (h *Handler) opCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.StoreTimeout)
}
