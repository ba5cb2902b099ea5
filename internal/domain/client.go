package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is the client-side profile linked 1:1 to a User.
// Created unvalidated on self-registration, or validated directly when an
// admin or trainer creates it.
type Client struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID  `bson:"userId" json:"userId"`
	TrainerID   *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	IsValidated bool                `bson:"isValidated" json:"isValidated"`

	HeightCM float64  `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WeightKG float64  `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	Goals    []string `bson:"goals,omitempty" json:"goals,omitempty"`
	Notes    string   `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
