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

const assignmentCollectionName = "budget_assignments"

// mongoAssignmentRepository implements repository.BudgetAssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new BudgetAssignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.BudgetAssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new assignment.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.BudgetAssignment) (primitive.ObjectID, error) {
	if assignment.BudgetID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires budgetId")
	}
	if assignment.CustomerID == nil && assignment.LeadID == nil {
		return primitive.NilObjectID, errors.New("assignment requires customerId or leadId")
	}

	assignment.ID = primitive.NewObjectID()
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}
	return insertedID, nil
}

// GetActiveByClientScope retrieves active assignments matching the customer
// id or any of the given lead ids. An empty scope returns an empty list.
func (r *mongoAssignmentRepository) GetActiveByClientScope(ctx context.Context, customerID *primitive.ObjectID, leadIDs []primitive.ObjectID) ([]domain.BudgetAssignment, error) {
	var ors []bson.M
	if customerID != nil {
		ors = append(ors, bson.M{"customerId": *customerID})
	}
	if len(leadIDs) > 0 {
		ors = append(ors, bson.M{"leadId": bson.M{"$in": leadIDs}})
	}
	if len(ors) == 0 {
		return []domain.BudgetAssignment{}, nil
	}

	filter := bson.M{"isActive": true, "$or": ors}
	findOptions := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.BudgetAssignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, cursor.Err()
}

// GetByClient retrieves all assignments (active and historical) for a client,
// newest first.
func (r *mongoAssignmentRepository) GetByClient(ctx context.Context, key domain.ClientKey) ([]domain.BudgetAssignment, error) {
	filter, ok := clientOrFilter(key)
	if !ok {
		return []domain.BudgetAssignment{}, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.BudgetAssignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, cursor.Err()
}

// DeactivateForClient clears the active flag on every assignment matching
// the customer and/or lead. Called before activating a new assignment so at
// most one stays active per client.
func (r *mongoAssignmentRepository) DeactivateForClient(ctx context.Context, customerID, leadID *primitive.ObjectID) error {
	var ors []bson.M
	if customerID != nil {
		ors = append(ors, bson.M{"customerId": *customerID})
	}
	if leadID != nil {
		ors = append(ors, bson.M{"leadId": *leadID})
	}
	if len(ors) == 0 {
		return nil
	}

	filter := bson.M{"isActive": true, "$or": ors}
	update := bson.M{"$set": bson.M{"isActive": false}}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

// EnsureAssignmentIndexes creates necessary indexes for the budget_assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "customerId", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "leadId", Value: 1}, {Key: "isActive", Value: 1}},
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

// clientOrFilter builds the customer-or-lead filter shared by the
// client-scoped queries. ok is false when the key carries no identifier.
func clientOrFilter(key domain.ClientKey) (bson.M, bool) {
	var ors []bson.M
	if key.CustomerID != nil {
		ors = append(ors, bson.M{"customerId": *key.CustomerID})
	}
	if key.LeadID != nil {
		ors = append(ors, bson.M{"leadId": *key.LeadID})
	}
	if len(ors) == 0 {
		return nil, false
	}
	return bson.M{"$or": ors}, true
}
