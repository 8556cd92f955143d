package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/careflow/booking-api/internal/common"
	"github.com/careflow/booking-api/internal/models"
)

func (s *Store) waitlist() *mongo.Collection {
	return s.db.Collection("waitlist")
}

func (s *Store) CreateWaitlistEntry(ctx context.Context, entry *models.WaitlistEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Status == "" {
		entry.Status = models.WaitlistStatusWaiting
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if _, err := s.waitlist().InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("insert waitlist entry: %w", err)
	}
	return nil
}

func (s *Store) FindWaiting(ctx context.Context, provider primitive.ObjectID, location string) ([]models.WaitlistEntry, error) {
	cursor, err := s.waitlist().Find(ctx, bson.M{
		"provider": provider,
		"location": location,
		"status":   models.WaitlistStatusWaiting,
	})
	if err != nil {
		return nil, fmt.Errorf("find waitlist entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.WaitlistEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode waitlist entries: %w", err)
	}
	return entries, nil
}

func (s *Store) MarkPromoted(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.waitlist().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.WaitlistStatusPromoted}},
	)
	if err != nil {
		return fmt.Errorf("promote waitlist entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound.WithMsg("Waitlist entry not found")
	}
	return nil
}
