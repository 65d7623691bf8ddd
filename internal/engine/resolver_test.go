package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitcoach/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore is an in-memory RecordStore with the same matching semantics as
// the mongo-backed one: plan reads match customer_id OR lead_id, assignment
// reads return active rows in the customer-or-leads scope.
type fakeStore struct {
	budgets     map[primitive.ObjectID]*domain.Budget
	assignments []domain.BudgetAssignment
	leads       map[primitive.ObjectID][]primitive.ObjectID
	workouts    []domain.WorkoutPlan
	nutrition   []domain.NutritionPlan
	supplements []domain.SupplementPlan
	steps       []domain.StepsPlan

	budgetErr      error
	assignmentsErr error
	leadsErr       error
	workoutErr     error
	nutritionErr   error
	supplementErr  error
	stepsErr       error
}

func (f *fakeStore) Budget(_ context.Context, id primitive.ObjectID) (*domain.Budget, error) {
	if f.budgetErr != nil {
		return nil, f.budgetErr
	}
	return f.budgets[id], nil
}

func (f *fakeStore) ActiveAssignments(_ context.Context, customerID *primitive.ObjectID, leadIDs []primitive.ObjectID) ([]domain.BudgetAssignment, error) {
	if f.assignmentsErr != nil {
		return nil, f.assignmentsErr
	}
	var out []domain.BudgetAssignment
	for _, a := range f.assignments {
		if !a.IsActive {
			continue
		}
		if customerID != nil && a.CustomerID != nil && *a.CustomerID == *customerID {
			out = append(out, a)
			continue
		}
		if a.LeadID != nil {
			for _, id := range leadIDs {
				if *a.LeadID == id {
					out = append(out, a)
					break
				}
			}
		}
	}
	return out, nil
}

func (f *fakeStore) LeadIDsByCustomer(_ context.Context, customerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if f.leadsErr != nil {
		return nil, f.leadsErr
	}
	return f.leads[customerID], nil
}

func matchesKey(meta domain.PlanMeta, key domain.ClientKey) bool {
	if key.CustomerID != nil && meta.CustomerID != nil && *meta.CustomerID == *key.CustomerID {
		return true
	}
	if key.LeadID != nil && meta.LeadID != nil && *meta.LeadID == *key.LeadID {
		return true
	}
	return false
}

func (f *fakeStore) WorkoutPlans(_ context.Context, key domain.ClientKey) ([]domain.WorkoutPlan, error) {
	if f.workoutErr != nil {
		return nil, f.workoutErr
	}
	var out []domain.WorkoutPlan
	for _, p := range f.workouts {
		if matchesKey(p.PlanMeta, key) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) NutritionPlans(_ context.Context, key domain.ClientKey) ([]domain.NutritionPlan, error) {
	if f.nutritionErr != nil {
		return nil, f.nutritionErr
	}
	var out []domain.NutritionPlan
	for _, p := range f.nutrition {
		if matchesKey(p.PlanMeta, key) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) SupplementPlans(_ context.Context, key domain.ClientKey) ([]domain.SupplementPlan, error) {
	if f.supplementErr != nil {
		return nil, f.supplementErr
	}
	var out []domain.SupplementPlan
	for _, p := range f.supplements {
		if matchesKey(p.PlanMeta, key) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) StepsPlans(_ context.Context, key domain.ClientKey) ([]domain.StepsPlan, error) {
	if f.stepsErr != nil {
		return nil, f.stepsErr
	}
	var out []domain.StepsPlan
	for _, p := range f.steps {
		if matchesKey(p.PlanMeta, key) {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestResolver(store RecordStore) *Resolver {
	return &Resolver{store: store, now: func() time.Time {
		return time.Date(2024, 7, 15, 10, 30, 0, 0, time.UTC)
	}}
}

func withCustomer(p domain.WorkoutPlan, customerID primitive.ObjectID) domain.WorkoutPlan {
	p.CustomerID = &customerID
	return p
}

func TestResolve_EmptyKey(t *testing.T) {
	resolver := newTestResolver(&fakeStore{})

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{})

	require.NoError(t, err)
	assert.Nil(t, comp.ActiveProgramID)
	assert.Nil(t, comp.Program)
	assert.Nil(t, comp.CurrentWorkout)
	assert.Nil(t, comp.CurrentNutrition)
	assert.Nil(t, comp.CurrentSupplements)
	assert.Nil(t, comp.CurrentSteps)
	assert.NotNil(t, comp.WorkoutHistory)
	assert.Empty(t, comp.WorkoutHistory)
	assert.NotNil(t, comp.StepsHistory)
	assert.Empty(t, comp.StepsHistory)
}

func TestResolve_ClientWithNoRecords(t *testing.T) {
	// A known client with no assignment and no plans of any kind resolves to
	// an all-empty composite, not an error.
	customer := primitive.NewObjectID()
	resolver := newTestResolver(&fakeStore{})

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer})

	require.NoError(t, err)
	assert.Nil(t, comp.ActiveProgramID)
	assert.Nil(t, comp.CurrentWorkout)
	assert.Nil(t, comp.CurrentNutrition)
	assert.Nil(t, comp.CurrentSupplements)
	assert.Nil(t, comp.CurrentSteps)
	assert.Empty(t, comp.WorkoutHistory)
	assert.Empty(t, comp.NutritionHistory)
	assert.Empty(t, comp.SupplementHistory)
	assert.Empty(t, comp.StepsHistory)
}

func TestResolve_ActiveWorkoutProgression(t *testing.T) {
	customer := primitive.NewObjectID()
	budgetX := primitive.NewObjectID()

	older := withCustomer(makeWorkoutPlan(idPtr(budgetX), dayPtr(2024, 1, 1), day(2024, 1, 1)), customer)
	newer := withCustomer(makeWorkoutPlan(idPtr(budgetX), dayPtr(2024, 3, 1), day(2024, 3, 1)), customer)

	store := &fakeStore{
		budgets: map[primitive.ObjectID]*domain.Budget{
			budgetX: {ID: budgetX, Name: "Spring Cut"},
		},
		assignments: []domain.BudgetAssignment{
			makeAssignment(budgetX, idPtr(customer), nil, true, day(2024, 1, 1)),
		},
		workouts: []domain.WorkoutPlan{older, newer},
	}
	resolver := newTestResolver(store)

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer})

	require.NoError(t, err)
	require.NotNil(t, comp.ActiveProgramID)
	assert.Equal(t, budgetX, *comp.ActiveProgramID)
	require.NotNil(t, comp.Program)
	assert.Equal(t, "Spring Cut", comp.Program.Name)

	require.NotNil(t, comp.CurrentWorkout)
	assert.Equal(t, newer.ID, comp.CurrentWorkout.Plan.ID)

	require.Len(t, comp.WorkoutHistory, 2)
	assert.True(t, comp.WorkoutHistory[0].IsActive)
	assert.Equal(t, newer.ID, comp.WorkoutHistory[0].Plan.ID)
	assert.False(t, comp.WorkoutHistory[1].IsActive)
}

func TestResolve_ZeroCalorieTargetsFallBackToTemplate(t *testing.T) {
	customer := primitive.NewObjectID()
	budgetY := primitive.NewObjectID()

	plan := domain.NutritionPlan{
		PlanMeta: domain.PlanMeta{
			ID:         primitive.NewObjectID(),
			BudgetID:   &budgetY,
			CustomerID: &customer,
			StartDate:  dayPtr(2024, 5, 1),
			CreatedAt:  day(2024, 5, 1),
		},
		Targets: &domain.NutritionTargets{Calories: 0, Protein: 180},
	}

	store := &fakeStore{
		budgets: map[primitive.ObjectID]*domain.Budget{
			budgetY: {
				ID:      budgetY,
				Targets: domain.NutritionTargets{Calories: 2400, Protein: 160},
			},
		},
		assignments: []domain.BudgetAssignment{
			makeAssignment(budgetY, idPtr(customer), nil, true, day(2024, 4, 1)),
		},
		nutrition: []domain.NutritionPlan{plan},
	}
	resolver := newTestResolver(store)

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer})

	require.NoError(t, err)
	require.NotNil(t, comp.CurrentNutrition)
	require.NotNil(t, comp.CurrentNutrition.Plan)
	assert.Equal(t, plan.ID, comp.CurrentNutrition.Plan.ID)
	assert.Equal(t, SourceProgram, comp.CurrentNutrition.Targets.Source)
	assert.Equal(t, 2400, comp.CurrentNutrition.Targets.Value.Calories)
}

func TestResolve_CustomerAssignmentVisibleFromLead(t *testing.T) {
	// The program was assigned at the customer level; a request scoped to
	// one of the customer's leads still sees it.
	customer := primitive.NewObjectID()
	lead := primitive.NewObjectID()
	budget := primitive.NewObjectID()

	plan := domain.SupplementPlan{
		PlanMeta: domain.PlanMeta{
			ID:        primitive.NewObjectID(),
			BudgetID:  &budget,
			LeadID:    &lead,
			StartDate: dayPtr(2024, 6, 1),
			CreatedAt: day(2024, 6, 1),
		},
		Supplements: []domain.SupplementEntry{{Name: "Creatine", Dosage: "5g"}},
	}

	store := &fakeStore{
		budgets: map[primitive.ObjectID]*domain.Budget{budget: {ID: budget}},
		leads:   map[primitive.ObjectID][]primitive.ObjectID{customer: {lead}},
		assignments: []domain.BudgetAssignment{
			makeAssignment(budget, idPtr(customer), nil, true, day(2024, 5, 1)),
		},
		supplements: []domain.SupplementPlan{plan},
	}
	resolver := newTestResolver(store)

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer, LeadID: &lead})

	require.NoError(t, err)
	require.NotNil(t, comp.ActiveProgramID)
	assert.Equal(t, budget, *comp.ActiveProgramID)
	require.NotNil(t, comp.CurrentSupplements)
	assert.Equal(t, SourcePlan, comp.CurrentSupplements.Supplements.Source)
}

func TestResolve_SyntheticStepsFallback(t *testing.T) {
	// No steps plan exists but the active budget carries a goal. A synthetic
	// active entry dated today surfaces the budget values.
	customer := primitive.NewObjectID()
	budget := primitive.NewObjectID()

	store := &fakeStore{
		budgets: map[primitive.ObjectID]*domain.Budget{
			budget: {ID: budget, StepsGoal: 9000, StepsInstructions: "Split across three walks."},
		},
		assignments: []domain.BudgetAssignment{
			makeAssignment(budget, idPtr(customer), nil, true, day(2024, 1, 1)),
		},
	}
	resolver := newTestResolver(store)

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer})

	require.NoError(t, err)
	require.NotNil(t, comp.CurrentSteps)
	assert.Equal(t, SourceProgram, comp.CurrentSteps.Goal.Source)
	assert.Equal(t, 9000, comp.CurrentSteps.Goal.Value)
	assert.Equal(t, SourceProgram, comp.CurrentSteps.Instructions.Source)

	require.Len(t, comp.StepsHistory, 1)
	entry := comp.StepsHistory[0]
	assert.True(t, entry.IsActive)
	assert.Equal(t, primitive.NilObjectID, entry.Plan.ID)
	require.NotNil(t, entry.Plan.StartDate)
	assert.Equal(t, day(2024, 7, 15), *entry.Plan.StartDate)
	require.NotNil(t, entry.Plan.BudgetID)
	assert.Equal(t, budget, *entry.Plan.BudgetID)
}

func TestResolve_RealStepsPlanSuppressesFallback(t *testing.T) {
	customer := primitive.NewObjectID()
	budget := primitive.NewObjectID()
	plan := makeStepsPlan(idPtr(budget), dayPtr(2024, 6, 1), day(2024, 6, 1), 12000)
	plan.CustomerID = &customer

	store := &fakeStore{
		budgets: map[primitive.ObjectID]*domain.Budget{
			budget: {ID: budget, StepsGoal: 9000},
		},
		assignments: []domain.BudgetAssignment{
			makeAssignment(budget, idPtr(customer), nil, true, day(2024, 1, 1)),
		},
		steps: []domain.StepsPlan{plan},
	}
	resolver := newTestResolver(store)

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer})

	require.NoError(t, err)
	require.NotNil(t, comp.CurrentSteps)
	assert.Equal(t, SourcePlan, comp.CurrentSteps.Goal.Source)
	assert.Equal(t, 12000, comp.CurrentSteps.Goal.Value)

	require.Len(t, comp.StepsHistory, 1)
	assert.Equal(t, plan.ID, comp.StepsHistory[0].Plan.ID, "no synthetic entry when a real plan is active")
}

func TestResolve_FailedPlanReadEmptiesOnlyThatKind(t *testing.T) {
	customer := primitive.NewObjectID()
	budget := primitive.NewObjectID()
	workout := withCustomer(makeWorkoutPlan(idPtr(budget), dayPtr(2024, 2, 1), day(2024, 2, 1)), customer)

	store := &fakeStore{
		budgets: map[primitive.ObjectID]*domain.Budget{budget: {ID: budget}},
		assignments: []domain.BudgetAssignment{
			makeAssignment(budget, idPtr(customer), nil, true, day(2024, 1, 1)),
		},
		workouts:     []domain.WorkoutPlan{workout},
		nutritionErr: errors.New("collection scan timed out"),
	}
	resolver := newTestResolver(store)

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer})

	require.NoError(t, err)
	assert.Empty(t, comp.NutritionHistory)
	require.Len(t, comp.WorkoutHistory, 1)
	assert.Equal(t, workout.ID, comp.WorkoutHistory[0].Plan.ID)
}

func TestResolve_FailedAssignmentReadFailsTheCall(t *testing.T) {
	customer := primitive.NewObjectID()
	store := &fakeStore{assignmentsErr: errors.New("connection reset")}
	resolver := newTestResolver(store)

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer})

	require.Error(t, err)
	assert.ErrorContains(t, err, "read active assignments")
	assert.Nil(t, comp)
}

func TestResolve_OrphanedBudgetReference(t *testing.T) {
	// The assignment points at a budget that no longer exists. The program
	// id still surfaces, the template does not, and plan-level values stand
	// on their own.
	customer := primitive.NewObjectID()
	missingBudget := primitive.NewObjectID()
	workout := withCustomer(makeWorkoutPlan(idPtr(missingBudget), dayPtr(2024, 3, 1), day(2024, 3, 1)), customer)

	store := &fakeStore{
		budgets: map[primitive.ObjectID]*domain.Budget{},
		assignments: []domain.BudgetAssignment{
			makeAssignment(missingBudget, idPtr(customer), nil, true, day(2024, 2, 1)),
		},
		workouts: []domain.WorkoutPlan{workout},
	}
	resolver := newTestResolver(store)

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer})

	require.NoError(t, err)
	require.NotNil(t, comp.ActiveProgramID)
	assert.Equal(t, missingBudget, *comp.ActiveProgramID)
	assert.Nil(t, comp.Program)
	require.NotNil(t, comp.CurrentWorkout)
	assert.Equal(t, workout.ID, comp.CurrentWorkout.Plan.ID)
	assert.Nil(t, comp.CurrentSteps, "no budget means no steps fallback")
}

func TestResolve_BudgetReadErrorDegradesToNoTemplate(t *testing.T) {
	customer := primitive.NewObjectID()
	budget := primitive.NewObjectID()
	workout := withCustomer(makeWorkoutPlan(idPtr(budget), dayPtr(2024, 3, 1), day(2024, 3, 1)), customer)

	store := &fakeStore{
		budgetErr: errors.New("primary stepped down"),
		assignments: []domain.BudgetAssignment{
			makeAssignment(budget, idPtr(customer), nil, true, day(2024, 2, 1)),
		},
		workouts: []domain.WorkoutPlan{workout},
	}
	resolver := newTestResolver(store)

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer})

	require.NoError(t, err)
	require.NotNil(t, comp.ActiveProgramID)
	assert.Nil(t, comp.Program)
	require.NotNil(t, comp.CurrentWorkout)
}

func TestResolve_NoAssignmentYieldsUnflaggedHistory(t *testing.T) {
	customer := primitive.NewObjectID()
	budget := primitive.NewObjectID()
	workout := withCustomer(makeWorkoutPlan(idPtr(budget), dayPtr(2024, 3, 1), day(2024, 3, 1)), customer)

	store := &fakeStore{
		budgets:  map[primitive.ObjectID]*domain.Budget{budget: {ID: budget}},
		workouts: []domain.WorkoutPlan{workout},
	}
	resolver := newTestResolver(store)

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer})

	require.NoError(t, err)
	assert.Nil(t, comp.ActiveProgramID)
	assert.Nil(t, comp.CurrentWorkout)
	require.Len(t, comp.WorkoutHistory, 1)
	assert.False(t, comp.WorkoutHistory[0].IsActive)
}

func TestResolve_FailedLeadListingNarrowsScope(t *testing.T) {
	// The customer's lead listing fails, so an assignment tied to one of the
	// customer's other leads becomes invisible for this call. The resolution
	// still succeeds.
	customer := primitive.NewObjectID()
	requestedLead := primitive.NewObjectID()
	otherLead := primitive.NewObjectID()
	budget := primitive.NewObjectID()

	store := &fakeStore{
		budgets:  map[primitive.ObjectID]*domain.Budget{budget: {ID: budget}},
		leads:    map[primitive.ObjectID][]primitive.ObjectID{customer: {requestedLead, otherLead}},
		leadsErr: errors.New("cursor timeout"),
		assignments: []domain.BudgetAssignment{
			makeAssignment(budget, nil, idPtr(otherLead), true, day(2024, 3, 1)),
		},
	}
	resolver := newTestResolver(store)

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer, LeadID: &requestedLead})

	require.NoError(t, err)
	assert.Nil(t, comp.ActiveProgramID)
}

func TestResolve_LeadSpecificAssignmentOverridesCustomerLevel(t *testing.T) {
	customer := primitive.NewObjectID()
	lead := primitive.NewObjectID()
	customerBudget := primitive.NewObjectID()
	leadBudget := primitive.NewObjectID()

	store := &fakeStore{
		budgets: map[primitive.ObjectID]*domain.Budget{
			customerBudget: {ID: customerBudget, Name: "General"},
			leadBudget:     {ID: leadBudget, Name: "Targeted"},
		},
		leads: map[primitive.ObjectID][]primitive.ObjectID{customer: {lead}},
		assignments: []domain.BudgetAssignment{
			makeAssignment(customerBudget, idPtr(customer), nil, true, day(2024, 6, 1)),
			makeAssignment(leadBudget, nil, idPtr(lead), true, day(2024, 1, 1)),
		},
	}
	resolver := newTestResolver(store)

	comp, err := resolver.Resolve(context.Background(), domain.ClientKey{CustomerID: &customer, LeadID: &lead})

	require.NoError(t, err)
	require.NotNil(t, comp.Program)
	assert.Equal(t, "Targeted", comp.Program.Name)
}
