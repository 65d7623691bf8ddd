package repository

import (
	"context"
	"errors"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/engine"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// recordStore adapts the repositories to the engine's read-only RecordStore
// contract. The engine never writes and never sees repository error types;
// a missing budget maps to (nil, nil) because an orphaned plan reference is
// presentation data, not a failure.
type recordStore struct {
	budgets     BudgetRepository
	assignments BudgetAssignmentRepository
	leads       LeadRepository
	workout     PlanRepository[domain.WorkoutPlan]
	nutrition   PlanRepository[domain.NutritionPlan]
	supplement  PlanRepository[domain.SupplementPlan]
	steps       PlanRepository[domain.StepsPlan]
}

// NewRecordStore wires the repositories into the engine's record store.
func NewRecordStore(
	budgets BudgetRepository,
	assignments BudgetAssignmentRepository,
	leads LeadRepository,
	workout PlanRepository[domain.WorkoutPlan],
	nutrition PlanRepository[domain.NutritionPlan],
	supplement PlanRepository[domain.SupplementPlan],
	steps PlanRepository[domain.StepsPlan],
) engine.RecordStore {
	return &recordStore{
		budgets:     budgets,
		assignments: assignments,
		leads:       leads,
		workout:     workout,
		nutrition:   nutrition,
		supplement:  supplement,
		steps:       steps,
	}
}

func (s *recordStore) Budget(ctx context.Context, id primitive.ObjectID) (*domain.Budget, error) {
	budget, err := s.budgets.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return budget, err
}

func (s *recordStore) ActiveAssignments(ctx context.Context, customerID *primitive.ObjectID, leadIDs []primitive.ObjectID) ([]domain.BudgetAssignment, error) {
	return s.assignments.GetActiveByClientScope(ctx, customerID, leadIDs)
}

func (s *recordStore) LeadIDsByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.leads.GetIDsByCustomerID(ctx, customerID)
}

func (s *recordStore) WorkoutPlans(ctx context.Context, key domain.ClientKey) ([]domain.WorkoutPlan, error) {
	return s.workout.GetByClient(ctx, key)
}

func (s *recordStore) NutritionPlans(ctx context.Context, key domain.ClientKey) ([]domain.NutritionPlan, error) {
	return s.nutrition.GetByClient(ctx, key)
}

func (s *recordStore) SupplementPlans(ctx context.Context, key domain.ClientKey) ([]domain.SupplementPlan, error) {
	return s.supplement.GetByClient(ctx, key)
}

func (s *recordStore) StepsPlans(ctx context.Context, key domain.ClientKey) ([]domain.StepsPlan, error) {
	return s.steps.GetByClient(ctx, key)
}
