package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"` // Hide from JSON responses
	Role     string             `bson:"role" json:"role"`            // "patient", "provider", "staff"
	Phone    string             `bson:"phone" json:"phone"`
}
