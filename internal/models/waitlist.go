package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	WaitlistStatusWaiting  = "waiting"
	WaitlistStatusPromoted = "promoted"
)

// WaitlistEntry is a queued booking request. It is promoted when a confirmed
// booking establishes that the requested provider/location slot is active.
type WaitlistEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Patient   primitive.ObjectID `bson:"patient" json:"patient"`
	Provider  primitive.ObjectID `bson:"provider" json:"provider"`
	Location  string             `bson:"location" json:"location"`
	StartTime time.Time          `bson:"startTime" json:"startTime"`
	EndTime   time.Time          `bson:"endTime" json:"endTime"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
