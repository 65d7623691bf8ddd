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
	customerCollectionName = "customers"
	leadCollectionName     = "leads"
)

// mongoCustomerRepository implements repository.CustomerRepository
type mongoCustomerRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomerRepository creates a new Customer repository backed by MongoDB.
func NewMongoCustomerRepository(db *mongo.Database) repository.CustomerRepository {
	return &mongoCustomerRepository{
		collection: db.Collection(customerCollectionName),
	}
}

// Create inserts a new customer.
func (r *mongoCustomerRepository) Create(ctx context.Context, customer *domain.Customer) (primitive.ObjectID, error) {
	if customer.CoachID == primitive.NilObjectID || customer.Name == "" {
		return primitive.NilObjectID, errors.New("customer requires coachId and name")
	}
	customer.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, customer)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted customer ID")
	}
	return insertedID, nil
}

// GetByID retrieves a customer by their ID.
func (r *mongoCustomerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// GetByCoachID retrieves all customers belonging to a coach.
func (r *mongoCustomerRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Customer, error) {
	var customers []domain.Customer
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"coachId": coachID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, cursor.Err()
}

// mongoLeadRepository implements repository.LeadRepository
type mongoLeadRepository struct {
	collection *mongo.Collection
}

// NewMongoLeadRepository creates a new Lead repository backed by MongoDB.
func NewMongoLeadRepository(db *mongo.Database) repository.LeadRepository {
	return &mongoLeadRepository{
		collection: db.Collection(leadCollectionName),
	}
}

// Create inserts a new lead.
func (r *mongoLeadRepository) Create(ctx context.Context, lead *domain.Lead) (primitive.ObjectID, error) {
	if lead.CustomerID == primitive.NilObjectID || lead.Name == "" {
		return primitive.NilObjectID, errors.New("lead requires customerId and name")
	}
	lead.ID = primitive.NewObjectID()
	lead.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, lead)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted lead ID")
	}
	return insertedID, nil
}

// GetByCustomerID retrieves all leads belonging to a customer.
func (r *mongoLeadRepository) GetByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]domain.Lead, error) {
	var leads []domain.Lead
	cursor, err := r.collection.Find(ctx, bson.M{"customerId": customerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, cursor.Err()
}

// GetIDsByCustomerID retrieves just the ids of a customer's leads, for
// scoping assignment queries.
func (r *mongoLeadRepository) GetIDsByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	findOptions := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"customerId": customerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

// EnsureLeadIndexes creates necessary indexes for the leads collection.
func EnsureLeadIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "customerId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
