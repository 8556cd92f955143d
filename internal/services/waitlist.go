package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/careflow/booking-api/internal/models"
	"github.com/careflow/booking-api/internal/store"
)

// WaitlistProcessor promotes queued booking requests once a slot with a
// provider has been confirmed.
type WaitlistProcessor interface {
	ProcessWaitlist(ctx context.Context, provider primitive.ObjectID, start, end time.Time, location string) error
}

type WaitlistService struct {
	waitlist store.WaitlistStore
	users    store.UserStore
	notifier Notifier
	logger   *zap.Logger
}

func NewWaitlistService(waitlist store.WaitlistStore, users store.UserStore, notifier Notifier, logger *zap.Logger) *WaitlistService {
	return &WaitlistService{waitlist: waitlist, users: users, notifier: notifier, logger: logger}
}

// ProcessWaitlist promotes waiting entries for the same provider and location
// whose requested window overlaps the confirmed slot, and notifies each
// patient through both channels. Failures on individual entries are logged
// and do not stop the remaining promotions.
func (s *WaitlistService) ProcessWaitlist(ctx context.Context, provider primitive.ObjectID, start, end time.Time, location string) error {
	entries, err := s.waitlist.FindWaiting(ctx, provider, location)
	if err != nil {
		return fmt.Errorf("load waitlist: %w", err)
	}

	for _, entry := range entries {
		if !overlaps(entry.StartTime, entry.EndTime, start, end) {
			continue
		}
		if err := s.waitlist.MarkPromoted(ctx, entry.ID); err != nil {
			s.logger.Warn("failed to promote waitlist entry",
				zap.String("entry", entry.ID.Hex()), zap.Error(err))
			continue
		}
		s.notifyPromotion(ctx, entry)
	}
	return nil
}

func (s *WaitlistService) notifyPromotion(ctx context.Context, entry models.WaitlistEntry) {
	patient, err := s.users.FindUserByID(ctx, entry.Patient)
	if err != nil {
		s.logger.Warn("waitlist promotion: could not resolve patient",
			zap.String("entry", entry.ID.Hex()), zap.Error(err))
		return
	}
	provider, err := s.users.FindUserByID(ctx, entry.Provider)
	if err != nil {
		s.logger.Warn("waitlist promotion: could not resolve provider",
			zap.String("entry", entry.ID.Hex()), zap.Error(err))
		return
	}

	message := fmt.Sprintf(
		"Dear %s, a slot with %s at %s is now available around %s. Please confirm your booking.",
		patient.Username, provider.Username, entry.Location,
		entry.StartTime.Format(time.RFC3339),
	)
	if err := s.notifier.SendEmail(ctx, patient.Email, "Waitlist Update", message); err != nil {
		s.logger.Warn("waitlist promotion email failed",
			zap.String("entry", entry.ID.Hex()), zap.Error(err))
	}
	if err := s.notifier.SendMessage(ctx, patient.Phone, message); err != nil {
		s.logger.Warn("waitlist promotion message failed",
			zap.String("entry", entry.ID.Hex()), zap.Error(err))
	}
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
