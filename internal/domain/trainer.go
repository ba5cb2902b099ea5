package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trainer is the trainer-side profile linked 1:1 to a User.
// IsValidated is flipped by an admin action; only validated trainers appear in
// the public listing.
type Trainer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	IsValidated bool               `bson:"isValidated" json:"isValidated"`

	Bio             string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Specialties     []string `bson:"specialties,omitempty" json:"specialties,omitempty"`
	YearsExperience int      `bson:"yearsExperience,omitempty" json:"yearsExperience,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
