package mongo

import (
	"context"
	"errors"
	"time"

	"peakform/trainer-hub/internal/domain"
	"peakform/trainer-hub/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const changeRequestCollectionName = "trainer_change_requests"

// mongoChangeRequestRepository implements repository.ChangeRequestRepository
// using MongoDB.
type mongoChangeRequestRepository struct {
	collection *mongo.Collection
}

// NewMongoChangeRequestRepository creates a new instance of
// mongoChangeRequestRepository.
func NewMongoChangeRequestRepository(db *mongo.Database) repository.ChangeRequestRepository {
	return &mongoChangeRequestRepository{
		collection: db.Collection(changeRequestCollectionName),
	}
}

// Create inserts a new trainer-change request. The partial unique index on
// pending requests turns a concurrent duplicate into ErrDuplicateKey.
func (r *mongoChangeRequestRepository) Create(ctx context.Context, request *domain.TrainerChangeRequest) (primitive.ObjectID, error) {
	if request.ClientID == primitive.NilObjectID || request.RequestedTrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("request client ID and requested trainer ID are required")
	}

	request.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a request by its ObjectID.
func (r *mongoChangeRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainerChangeRequest, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetPendingByClient retrieves the client's pending request, if any.
func (r *mongoChangeRequestRepository) GetPendingByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.TrainerChangeRequest, error) {
	return r.findOne(ctx, bson.M{"clientId": clientID, "status": domain.RequestPending})
}

func (r *mongoChangeRequestRepository) findOne(ctx context.Context, filter bson.M) (*domain.TrainerChangeRequest, error) {
	var request domain.TrainerChangeRequest
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// Update replaces the stored request document with the given one.
func (r *mongoChangeRequestRepository) Update(ctx context.Context, request *domain.TrainerChangeRequest) error {
	request.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": request.ID}, request)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns a page of requests matching the filter.
func (r *mongoChangeRequestRepository) List(ctx context.Context, filter repository.RequestFilter, page repository.Page) ([]domain.TrainerChangeRequest, int64, error) {
	query := bson.M{}
	if filter.ClientID != nil {
		query["clientId"] = *filter.ClientID
	}
	if filter.RequestedTrainerID != nil {
		query["requestedTrainerId"] = *filter.RequestedTrainerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(page.Limit).
		SetSkip(page.Skip)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	requests := []domain.TrainerChangeRequest{}
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// EnsureChangeRequestIndexes creates indexes for the trainer_change_requests
// collection. The partial unique index enforces at most one pending request
// per client at the database level.
func EnsureChangeRequestIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.RequestPending}),
		},
		{
			Keys: bson.D{{Key: "requestedTrainerId", Value: 1}, {Key: "status", Value: 1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
