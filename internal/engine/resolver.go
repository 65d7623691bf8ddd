package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"fitcoach/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// WorkoutView is the client's current workout routine. There is no
// budget-level workout payload to fall back to, so a view exists only when
// an active workout plan does.
type WorkoutView struct {
	Plan domain.WorkoutPlan `json:"plan"`
}

// NutritionView is the client's current nutrition prescription. Plan is nil
// when the values come entirely from the budget template.
type NutritionView struct {
	Plan        *domain.NutritionPlan                   `json:"plan,omitempty"`
	Targets     EffectiveValue[domain.NutritionTargets] `json:"targets"`
	EatingOrder string                                  `json:"eatingOrder,omitempty"`
	EatingRules string                                  `json:"eatingRules,omitempty"`
}

// SupplementView is the client's current supplement protocol.
type SupplementView struct {
	Plan        *domain.SupplementPlan                   `json:"plan,omitempty"`
	Supplements EffectiveValue[[]domain.SupplementEntry] `json:"supplements"`
}

// StepsView is the client's current daily step prescription. Goal and
// Instructions resolve independently; one may come from the plan while the
// other comes from the budget.
type StepsView struct {
	Plan         *domain.StepsPlan      `json:"plan,omitempty"`
	Goal         EffectiveValue[int]    `json:"goal"`
	Instructions EffectiveValue[string] `json:"instructions"`
}

// Composite is the engine's sole output: the resolved current view per
// domain plus the four ordered histories. All-empty is a valid result for a
// client with no program, never an error.
type Composite struct {
	ActiveProgramID *primitive.ObjectID `json:"activeProgramId,omitempty"`
	Program         *domain.Budget      `json:"program,omitempty"`

	CurrentWorkout     *WorkoutView    `json:"currentWorkout,omitempty"`
	CurrentNutrition   *NutritionView  `json:"currentNutrition,omitempty"`
	CurrentSupplements *SupplementView `json:"currentSupplements,omitempty"`
	CurrentSteps       *StepsView      `json:"currentSteps,omitempty"`

	WorkoutHistory    []Entry[domain.WorkoutPlan]    `json:"workoutHistory"`
	NutritionHistory  []Entry[domain.NutritionPlan]  `json:"nutritionHistory"`
	SupplementHistory []Entry[domain.SupplementPlan] `json:"supplementHistory"`
	StepsHistory      []Entry[domain.StepsPlan]      `json:"stepsHistory"`
}

// Resolver computes the active program composite for a client. It is a pure
// function of the store's current data: no internal state survives a call,
// and concurrent resolutions share nothing mutable.
type Resolver struct {
	store RecordStore
	now   func() time.Time // injectable for tests
}

func NewResolver(store RecordStore) *Resolver {
	return &Resolver{store: store, now: time.Now}
}

// Resolve runs the full pipeline: fan out the record reads, locate the
// active assignment, then per kind deduplicate, flag activity and resolve
// effective values for the active entry.
//
// Reads are degraded, not strict: a failed plan read empties that kind only.
// The assignment read is the exception: everything downstream depends on
// the locator, so its failure fails the call.
func (r *Resolver) Resolve(ctx context.Context, key domain.ClientKey) (*Composite, error) {
	comp := emptyComposite()
	if key.IsEmpty() {
		return comp, nil
	}

	var (
		assignments []domain.BudgetAssignment
		workouts    []domain.WorkoutPlan
		nutrition   []domain.NutritionPlan
		supplements []domain.SupplementPlan
		steps       []domain.StepsPlan
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		leadIDs := r.leadScope(gctx, key)
		var err error
		assignments, err = r.store.ActiveAssignments(gctx, key.CustomerID, leadIDs)
		if err != nil {
			return fmt.Errorf("read active assignments: %w", err)
		}
		return nil
	})
	g.Go(degradedRead(gctx, "workout", key, r.store.WorkoutPlans, &workouts))
	g.Go(degradedRead(gctx, "nutrition", key, r.store.NutritionPlans, &nutrition))
	g.Go(degradedRead(gctx, "supplement", key, r.store.SupplementPlans, &supplements))
	g.Go(degradedRead(gctx, "steps", key, r.store.StepsPlans, &steps))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		activeBudgetID *primitive.ObjectID
		budget         *domain.Budget
	)
	if chosen := ResolveAssignment(assignments, key.LeadID); chosen != nil {
		activeBudgetID = &chosen.BudgetID
		b, err := r.store.Budget(ctx, chosen.BudgetID)
		if err != nil {
			log.Printf("WARN: resolve: loading budget %s failed, resolving without template: %v", chosen.BudgetID.Hex(), err)
		} else {
			budget = b
		}
		comp.ActiveProgramID = activeBudgetID
		comp.Program = budget
	}

	comp.WorkoutHistory = FlagActivity(Dedupe(workouts), activeBudgetID)
	comp.NutritionHistory = FlagActivity(Dedupe(nutrition), activeBudgetID)
	comp.SupplementHistory = FlagActivity(Dedupe(supplements), activeBudgetID)
	comp.StepsHistory = FlagActivity(Dedupe(steps), activeBudgetID)

	r.composeCurrentWorkout(comp)
	r.composeCurrentNutrition(comp, budget)
	r.composeCurrentSupplements(comp, budget)
	r.composeCurrentSteps(comp, budget, activeBudgetID)

	return comp, nil
}

func (r *Resolver) composeCurrentWorkout(comp *Composite) {
	if len(comp.WorkoutHistory) > 0 && comp.WorkoutHistory[0].IsActive {
		comp.CurrentWorkout = &WorkoutView{Plan: comp.WorkoutHistory[0].Plan}
	}
}

func (r *Resolver) composeCurrentNutrition(comp *Composite, budget *domain.Budget) {
	var active *domain.NutritionPlan
	if len(comp.NutritionHistory) > 0 && comp.NutritionHistory[0].IsActive {
		active = &comp.NutritionHistory[0].Plan
	}

	targets := EffectiveTargets(active, budget)
	view := &NutritionView{Plan: active, Targets: targets}
	if budget != nil {
		view.EatingOrder = budget.EatingOrder
		view.EatingRules = budget.EatingRules
	}
	if active == nil && targets.Source == SourceNone && view.EatingOrder == "" && view.EatingRules == "" {
		return
	}
	comp.CurrentNutrition = view
}

func (r *Resolver) composeCurrentSupplements(comp *Composite, budget *domain.Budget) {
	var active *domain.SupplementPlan
	if len(comp.SupplementHistory) > 0 && comp.SupplementHistory[0].IsActive {
		active = &comp.SupplementHistory[0].Plan
	}

	supplements := EffectiveSupplements(active, budget)
	if active == nil && supplements.Source == SourceNone {
		return
	}
	comp.CurrentSupplements = &SupplementView{Plan: active, Supplements: supplements}
}

// composeCurrentSteps applies the steps degenerate case: the budget's own
// steps fields are the fallback of last resort, so a client whose budget
// carries a goal sees a current value even when no steps plan row was ever
// created. The fallback surfaces as a synthetic active entry dated today
// with the nil ObjectID as its id.
func (r *Resolver) composeCurrentSteps(comp *Composite, budget *domain.Budget, activeBudgetID *primitive.ObjectID) {
	if len(comp.StepsHistory) > 0 && comp.StepsHistory[0].IsActive {
		active := &comp.StepsHistory[0].Plan
		comp.CurrentSteps = &StepsView{
			Plan:         active,
			Goal:         EffectiveStepsGoal(active, budget),
			Instructions: EffectiveStepsInstructions(active, budget),
		}
		return
	}

	if budget == nil || (budget.StepsGoal <= 0 && budget.StepsInstructions == "") {
		return
	}

	today := r.now().UTC().Truncate(24 * time.Hour)
	synthetic := domain.StepsPlan{
		PlanMeta: domain.PlanMeta{
			ID:        primitive.NilObjectID,
			BudgetID:  activeBudgetID,
			StartDate: &today,
			CreatedAt: r.now().UTC(),
		},
		Goal:         budget.StepsGoal,
		Instructions: budget.StepsInstructions,
	}
	comp.StepsHistory = append([]Entry[domain.StepsPlan]{{Plan: synthetic, IsActive: true}}, comp.StepsHistory...)
	comp.CurrentSteps = &StepsView{
		Plan:         &synthetic,
		Goal:         EffectiveStepsGoal(nil, budget),
		Instructions: EffectiveStepsInstructions(nil, budget),
	}
}

// leadScope gathers the lead ids the assignment query should match: the
// requested lead plus all of the customer's leads, so a customer-level
// program is visible from any of their leads. A failed lead listing narrows
// the scope instead of failing the resolution.
func (r *Resolver) leadScope(ctx context.Context, key domain.ClientKey) []primitive.ObjectID {
	var ids []primitive.ObjectID
	if key.LeadID != nil {
		ids = append(ids, *key.LeadID)
	}
	if key.CustomerID == nil {
		return ids
	}
	more, err := r.store.LeadIDsByCustomer(ctx, *key.CustomerID)
	if err != nil {
		log.Printf("WARN: resolve: listing leads for customer %s failed: %v", key.CustomerID.Hex(), err)
		return ids
	}
	for _, id := range more {
		if key.LeadID == nil || id != *key.LeadID {
			ids = append(ids, id)
		}
	}
	return ids
}

// degradedRead wraps one plan-kind read so a failure logs and yields an
// empty kind instead of aborting the other three.
func degradedRead[P PlanRecord](ctx context.Context, kind string, key domain.ClientKey, read func(context.Context, domain.ClientKey) ([]P, error), dst *[]P) func() error {
	return func() error {
		plans, err := read(ctx, key)
		if err != nil {
			log.Printf("WARN: resolve: %s plan read failed, treating kind as empty: %v", kind, err)
			return nil
		}
		*dst = plans
		return nil
	}
}

func emptyComposite() *Composite {
	return &Composite{
		WorkoutHistory:    []Entry[domain.WorkoutPlan]{},
		NutritionHistory:  []Entry[domain.NutritionPlan]{},
		SupplementHistory: []Entry[domain.SupplementPlan]{},
		StepsHistory:      []Entry[domain.StepsPlan]{},
	}
}
