package mongo

import (
	"context"
	"errors"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	workoutPlanCollectionName    = "workout_plans"
	nutritionPlanCollectionName  = "nutrition_plans"
	supplementPlanCollectionName = "supplement_plans"
	stepsPlanCollectionName      = "steps_plans"
)

// planDoc constrains a pointer to one of the four plan kinds; the embedded
// domain.PlanMeta provides Meta().
type planDoc[P any] interface {
	*P
	Meta() *domain.PlanMeta
}

// mongoPlanRepository implements repository.PlanRepository for one plan
// collection. The four collections share the exact same query contract, so
// one implementation serves them all.
type mongoPlanRepository[P any, PP planDoc[P]] struct {
	collection *mongo.Collection
}

// NewMongoWorkoutPlanRepository creates a WorkoutPlan repository backed by MongoDB.
func NewMongoWorkoutPlanRepository(db *mongo.Database) repository.PlanRepository[domain.WorkoutPlan] {
	return &mongoPlanRepository[domain.WorkoutPlan, *domain.WorkoutPlan]{
		collection: db.Collection(workoutPlanCollectionName),
	}
}

// NewMongoNutritionPlanRepository creates a NutritionPlan repository backed by MongoDB.
func NewMongoNutritionPlanRepository(db *mongo.Database) repository.PlanRepository[domain.NutritionPlan] {
	return &mongoPlanRepository[domain.NutritionPlan, *domain.NutritionPlan]{
		collection: db.Collection(nutritionPlanCollectionName),
	}
}

// NewMongoSupplementPlanRepository creates a SupplementPlan repository backed by MongoDB.
func NewMongoSupplementPlanRepository(db *mongo.Database) repository.PlanRepository[domain.SupplementPlan] {
	return &mongoPlanRepository[domain.SupplementPlan, *domain.SupplementPlan]{
		collection: db.Collection(supplementPlanCollectionName),
	}
}

// NewMongoStepsPlanRepository creates a StepsPlan repository backed by MongoDB.
func NewMongoStepsPlanRepository(db *mongo.Database) repository.PlanRepository[domain.StepsPlan] {
	return &mongoPlanRepository[domain.StepsPlan, *domain.StepsPlan]{
		collection: db.Collection(stepsPlanCollectionName),
	}
}

// Create appends a new plan row. Plans are append-only: changed values mean
// a new row, old rows stay for history.
func (r *mongoPlanRepository[P, PP]) Create(ctx context.Context, plan *P) (primitive.ObjectID, error) {
	meta := PP(plan).Meta()
	if meta.CustomerID == nil && meta.LeadID == nil {
		return primitive.NilObjectID, errors.New("plan requires customerId or leadId")
	}

	meta.ID = primitive.NewObjectID()
	meta.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByClient retrieves all plans matching the customer id OR lead id,
// newest created_at first. An empty key returns an empty list, not an error.
func (r *mongoPlanRepository[P, PP]) GetByClient(ctx context.Context, key domain.ClientKey) ([]P, error) {
	filter, ok := clientOrFilter(key)
	if !ok {
		return []P{}, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []P
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, cursor.Err()
}

// EnsurePlanIndexes creates necessary indexes for one plan collection; it is
// called once per kind at startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "customerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "leadId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "budgetId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
