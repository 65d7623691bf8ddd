package repository

import (
	"context"

	"fitcoach/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with dashboard accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// CustomerRepository defines the interface for interacting with customer records.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Customer, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Customer, error)
}

// LeadRepository defines the interface for interacting with lead records.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) (primitive.ObjectID, error)
	GetByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]domain.Lead, error)
	GetIDsByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// BudgetRepository defines the interface for interacting with program templates.
type BudgetRepository interface {
	Create(ctx context.Context, budget *domain.Budget) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Budget, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Budget, error)
	Update(ctx context.Context, budget *domain.Budget) error
}

// BudgetAssignmentRepository defines the interface for interacting with
// assignment data. Assignments are deactivated, never deleted.
type BudgetAssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.BudgetAssignment) (primitive.ObjectID, error)
	// GetActiveByClientScope returns the active assignments matching the
	// customer id or any of the given lead ids. An empty scope yields an
	// empty result, not an error.
	GetActiveByClientScope(ctx context.Context, customerID *primitive.ObjectID, leadIDs []primitive.ObjectID) ([]domain.BudgetAssignment, error)
	GetByClient(ctx context.Context, key domain.ClientKey) ([]domain.BudgetAssignment, error)
	// DeactivateForClient clears the active flag on every assignment
	// matching the customer and/or lead, keeping the single-active
	// invariant the resolution engine trusts.
	DeactivateForClient(ctx context.Context, customerID, leadID *primitive.ObjectID) error
}

// PlanRepository is the shared contract of the four plan collections
// (workout, nutrition, supplement, steps). GetByClient matches customer_id
// OR lead_id, newest created_at first; an empty key yields an empty list.
type PlanRepository[P any] interface {
	Create(ctx context.Context, plan *P) (primitive.ObjectID, error)
	GetByClient(ctx context.Context, key domain.ClientKey) ([]P, error)
}
