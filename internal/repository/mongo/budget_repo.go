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

const budgetCollectionName = "budgets"

// mongoBudgetRepository implements repository.BudgetRepository
type mongoBudgetRepository struct {
	collection *mongo.Collection
}

// NewMongoBudgetRepository creates a new Budget repository backed by MongoDB.
func NewMongoBudgetRepository(db *mongo.Database) repository.BudgetRepository {
	return &mongoBudgetRepository{
		collection: db.Collection(budgetCollectionName),
	}
}

// Create inserts a new budget (program template).
func (r *mongoBudgetRepository) Create(ctx context.Context, budget *domain.Budget) (primitive.ObjectID, error) {
	if budget.CoachID == primitive.NilObjectID || budget.Name == "" {
		return primitive.NilObjectID, errors.New("budget requires coachId and name")
	}
	budget.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	budget.CreatedAt = now
	budget.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, budget)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted budget ID")
	}
	return insertedID, nil
}

// GetByID retrieves a budget by its ID.
func (r *mongoBudgetRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Budget, error) {
	var budget domain.Budget
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&budget)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &budget, nil
}

// GetByCoachID retrieves all budgets created by a coach, newest first.
func (r *mongoBudgetRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Budget, error) {
	var budgets []domain.Budget
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"coachId": coachID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &budgets); err != nil {
		return nil, err
	}
	return budgets, cursor.Err()
}

// Update modifies an existing budget's content. Identity and creation
// metadata are never touched.
func (r *mongoBudgetRepository) Update(ctx context.Context, budget *domain.Budget) error {
	if budget.ID == primitive.NilObjectID {
		return errors.New("budget ID is required for update")
	}

	update := bson.M{"$set": bson.M{
		"name":                budget.Name,
		"targets":             budget.Targets,
		"stepsGoal":           budget.StepsGoal,
		"stepsInstructions":   budget.StepsInstructions,
		"supplements":         budget.Supplements,
		"eatingOrder":         budget.EatingOrder,
		"eatingRules":         budget.EatingRules,
		"nutritionTemplateId": budget.NutritionTemplateID,
		"workoutTemplateId":   budget.WorkoutTemplateID,
		"attachmentKey":       budget.AttachmentKey,
		"updatedAt":           time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": budget.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureBudgetIndexes creates necessary indexes for the budgets collection.
func EnsureBudgetIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
