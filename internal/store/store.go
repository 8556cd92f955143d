package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careflow/booking-api/internal/models"
)

// SearchFilter is the incremental appointment filter. Zero-valued fields
// impose no restriction. StartDate and EndDate are inclusive bounds on
// StartTime and are independent of each other.
type SearchFilter struct {
	Location  string
	Provider  *primitive.ObjectID
	Service   string
	StartDate *time.Time
	EndDate   *time.Time
}

// ServiceMatches reports whether a stored service field matches the query as
// a case-insensitive substring. Kept as an explicit predicate rather than a
// store-native regex so the store implementation stays swappable.
func ServiceMatches(service, query string) bool {
	return strings.Contains(strings.ToLower(service), strings.ToLower(query))
}

// Matches applies the whole filter to a single appointment in memory.
func (f SearchFilter) Matches(apt models.Appointment) bool {
	if f.Location != "" && apt.Location != f.Location {
		return false
	}
	if f.Provider != nil && apt.Provider != *f.Provider {
		return false
	}
	if f.Service != "" && !ServiceMatches(apt.Service, f.Service) {
		return false
	}
	if f.StartDate != nil && apt.StartTime.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && apt.StartTime.After(*f.EndDate) {
		return false
	}
	return true
}

// AppointmentUpdate carries the replacement fields for an update request.
// Patient, provider, times and location are always set; Service and Extra
// only when supplied.
type AppointmentUpdate struct {
	Patient   primitive.ObjectID
	Provider  primitive.ObjectID
	StartTime time.Time
	EndTime   time.Time
	Location  string
	Service   *string
	Extra     map[string]any
}

type AppointmentStore interface {
	CreateAppointment(ctx context.Context, apt *models.Appointment) error
	UpdateAppointment(ctx context.Context, id primitive.ObjectID, upd AppointmentUpdate) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, id primitive.ObjectID) error
	FindAppointmentByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	SearchAppointments(ctx context.Context, filter SearchFilter) ([]models.Appointment, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

type WaitlistStore interface {
	CreateWaitlistEntry(ctx context.Context, entry *models.WaitlistEntry) error
	FindWaiting(ctx context.Context, provider primitive.ObjectID, location string) ([]models.WaitlistEntry, error)
	MarkPromoted(ctx context.Context, id primitive.ObjectID) error
}

// Store implements the store interfaces on top of a MongoDB database.
type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// EnsureIndexes creates the indexes the store relies on. Duplicate email
// detection on registration depends on the unique users index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
