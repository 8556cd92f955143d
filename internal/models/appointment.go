package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment is the stored booking document. Patient and Provider hold
// references into the users collection; Extra carries any additional booking
// fields the caller supplied, persisted and returned verbatim.
type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Patient   primitive.ObjectID `bson:"patient" json:"patient"`
	Provider  primitive.ObjectID `bson:"provider" json:"provider"`
	StartTime time.Time          `bson:"startTime" json:"startTime"`
	EndTime   time.Time          `bson:"endTime" json:"endTime"`
	Location  string             `bson:"location" json:"location"`
	Service   string             `bson:"service,omitempty" json:"service,omitempty"`
	Extra     map[string]any     `bson:"extra,omitempty" json:"extra,omitempty"`
}

// PopulatedAppointment is an Appointment with the patient and provider
// references expanded to full user records, as returned by search and by the
// pre-delete load.
type PopulatedAppointment struct {
	ID        primitive.ObjectID `json:"id"`
	Patient   User               `json:"patient"`
	Provider  User               `json:"provider"`
	StartTime time.Time          `json:"startTime"`
	EndTime   time.Time          `json:"endTime"`
	Location  string             `json:"location"`
	Service   string             `json:"service,omitempty"`
	Extra     map[string]any     `json:"extra,omitempty"`
}

// Populate expands an appointment with its resolved users.
func Populate(apt Appointment, patient, provider User) PopulatedAppointment {
	return PopulatedAppointment{
		ID:        apt.ID,
		Patient:   patient,
		Provider:  provider,
		StartTime: apt.StartTime,
		EndTime:   apt.EndTime,
		Location:  apt.Location,
		Service:   apt.Service,
		Extra:     apt.Extra,
	}
}
