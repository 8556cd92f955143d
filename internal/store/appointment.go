package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careflow/booking-api/internal/common"
	"github.com/careflow/booking-api/internal/models"
)

func (s *Store) appointments() *mongo.Collection {
	return s.db.Collection("appointments")
}

func (s *Store) CreateAppointment(ctx context.Context, apt *models.Appointment) error {
	if apt.ID.IsZero() {
		apt.ID = primitive.NewObjectID()
	}
	if _, err := s.appointments().InsertOne(ctx, apt); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (s *Store) UpdateAppointment(ctx context.Context, id primitive.ObjectID, upd AppointmentUpdate) (*models.Appointment, error) {
	set := bson.M{
		"patient":   upd.Patient,
		"provider":  upd.Provider,
		"startTime": upd.StartTime,
		"endTime":   upd.EndTime,
		"location":  upd.Location,
	}
	if upd.Service != nil {
		set["service"] = *upd.Service
	}
	if upd.Extra != nil {
		set["extra"] = upd.Extra
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var apt models.Appointment
	err := s.appointments().
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&apt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithMsg("Appointment not found")
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return &apt, nil
}

func (s *Store) DeleteAppointment(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.appointments().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound.WithMsg("Appointment not found")
	}
	return nil
}

func (s *Store) FindAppointmentByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var apt models.Appointment
	err := s.appointments().FindOne(ctx, bson.M{"_id": id}).Decode(&apt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithMsg("Appointment not found")
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return &apt, nil
}

// Search builds the query incrementally from the supplied filter fields.
// Location, provider and the startTime bounds are pushed down to MongoDB;
// the case-insensitive service predicate is applied in memory.
func (s *Store) SearchAppointments(ctx context.Context, filter SearchFilter) ([]models.Appointment, error) {
	query := bson.M{}
	if filter.Location != "" {
		query["location"] = filter.Location
	}
	if filter.Provider != nil {
		query["provider"] = *filter.Provider
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		bounds := bson.M{}
		if filter.StartDate != nil {
			bounds["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			bounds["$lte"] = *filter.EndDate
		}
		query["startTime"] = bounds
	}

	cursor, err := s.appointments().Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}

	if filter.Service == "" {
		return appointments, nil
	}
	matched := appointments[:0]
	for _, apt := range appointments {
		if ServiceMatches(apt.Service, filter.Service) {
			matched = append(matched, apt)
		}
	}
	return matched, nil
}
