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

const logCollectionName = "workout_logs"

// mongoLogRepository implements repository.WorkoutLogRepository using MongoDB.
type mongoLogRepository struct {
	collection *mongo.Collection
}

// NewMongoLogRepository creates a new instance of mongoLogRepository.
func NewMongoLogRepository(db *mongo.Database) repository.WorkoutLogRepository {
	return &mongoLogRepository{
		collection: db.Collection(logCollectionName),
	}
}

// Create inserts a new workout log.
func (r *mongoLogRepository) Create(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error) {
	if log.PlanID == primitive.NilObjectID || log.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("log plan ID and client ID are required")
	}

	log.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	log.CreatedAt = now
	log.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, log)
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

// GetByID retrieves a workout log by its ObjectID.
func (r *mongoLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// GetByPlanDate retrieves the single log for a plan+client+date combination.
func (r *mongoLogRepository) GetByPlanDate(ctx context.Context, planID, clientID primitive.ObjectID, date time.Time) (*domain.WorkoutLog, error) {
	var log domain.WorkoutLog
	filter := bson.M{"planId": planID, "clientId": clientID, "date": date}

	err := r.collection.FindOne(ctx, filter).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// Update replaces the stored log document with the given one.
func (r *mongoLogRepository) Update(ctx context.Context, log *domain.WorkoutLog) error {
	log.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": log.ID}, log)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout log. Deleting an absent document is not an error.
func (r *mongoLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// List returns a page of workout logs matching the filter.
func (r *mongoLogRepository) List(ctx context.Context, filter repository.LogFilter, page repository.Page) ([]domain.WorkoutLog, int64, error) {
	query := bson.M{}
	if filter.PlanID != nil {
		query["planId"] = *filter.PlanID
	}
	if filter.ClientID != nil {
		query["clientId"] = *filter.ClientID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lte"] = *filter.To
		}
		query["date"] = dateRange
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(page.Limit).
		SetSkip(page.Skip)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	logs := []domain.WorkoutLog{}
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// StatsByPeriod aggregates a client's logs into per-week or per-month buckets
// counting completed/missed/partial, sorted ascending by the grouping key.
func (r *mongoLogRepository) StatsByPeriod(ctx context.Context, clientID primitive.ObjectID, period repository.StatsPeriod) ([]domain.PeriodStats, error) {
	groupID := bson.M{
		"year": bson.M{"$isoWeekYear": "$date"},
		"week": bson.M{"$isoWeek": "$date"},
	}
	if period == repository.PeriodMonth {
		groupID = bson.M{
			"year":  bson.M{"$year": "$date"},
			"month": bson.M{"$month": "$date"},
		}
	}

	countIf := func(status domain.LogStatus) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$status", status}}, 1, 0,
		}}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"clientId": clientID}}},
		{{Key: "$group", Value: bson.M{
			"_id":            groupID,
			"totalCompleted": countIf(domain.LogCompleted),
			"totalMissed":    countIf(domain.LogMissed),
			"totalPartial":   countIf(domain.LogPartial),
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.week", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":            0,
			"year":           "$_id.year",
			"week":           "$_id.week",
			"month":          "$_id.month",
			"totalCompleted": 1,
			"totalMissed":    1,
			"totalPartial":   1,
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := []domain.PeriodStats{}
	if err = cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// EnsureLogIndexes creates indexes for the workout_logs collection.
// The compound unique index enforces one log per plan+client+date.
func EnsureLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "planId", Value: 1},
				{Key: "clientId", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: 1}},
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
