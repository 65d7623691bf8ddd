package engine

import (
	"context"

	"fitcoach/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordStore is the engine's read-only view of the record collections. The
// engine performs no writes and keeps no state between calls; every Resolve
// recomputes from whatever the store currently returns.
//
// Contract: plan reads match customer_id OR lead_id (inclusive when both are
// set on the key), ordered newest-created_at-first, and return an empty list
// for an empty key rather than an error. Budget returns (nil, nil) for an
// unknown id, since a plan referencing a deleted budget is presentation data,
// not a failure.
type RecordStore interface {
	Budget(ctx context.Context, id primitive.ObjectID) (*domain.Budget, error)
	ActiveAssignments(ctx context.Context, customerID *primitive.ObjectID, leadIDs []primitive.ObjectID) ([]domain.BudgetAssignment, error)
	LeadIDsByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]primitive.ObjectID, error)

	WorkoutPlans(ctx context.Context, key domain.ClientKey) ([]domain.WorkoutPlan, error)
	NutritionPlans(ctx context.Context, key domain.ClientKey) ([]domain.NutritionPlan, error)
	SupplementPlans(ctx context.Context, key domain.ClientKey) ([]domain.SupplementPlan, error)
	StepsPlans(ctx context.Context, key domain.ClientKey) ([]domain.StepsPlan, error)
}
