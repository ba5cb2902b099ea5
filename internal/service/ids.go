package service

import "go.mongodb.org/mongo-driver/bson/primitive"

// objectIDFromHex parses a hex ObjectID, rejecting the nil id as well.
func objectIDFromHex(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if id == primitive.NilObjectID {
		return primitive.NilObjectID, E(KindValidation, "invalid id")
	}
	return id, nil
}
