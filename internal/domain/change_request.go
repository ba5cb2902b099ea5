package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus is the lifecycle state of a TrainerChangeRequest.
// pending may transition to approved or rejected; both are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// TrainerChangeRequest is a client-initiated request to move to another
// trainer. At most one pending request may exist per client.
type TrainerChangeRequest struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ClientID           primitive.ObjectID  `bson:"clientId" json:"clientId"`
	CurrentTrainerID   *primitive.ObjectID `bson:"currentTrainerId,omitempty" json:"currentTrainerId,omitempty"`
	RequestedTrainerID primitive.ObjectID  `bson:"requestedTrainerId" json:"requestedTrainerId"`
	Status             RequestStatus       `bson:"status" json:"status"`
	ResolvedAt         *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
