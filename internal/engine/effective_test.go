package engine

import (
	"testing"

	"fitcoach/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveTargets(t *testing.T) {
	planTargets := &domain.NutritionTargets{Calories: 2200, Protein: 180}
	budgetTargets := domain.NutritionTargets{Calories: 2500, Protein: 150}

	tests := []struct {
		name       string
		plan       *domain.NutritionPlan
		budget     *domain.Budget
		wantSource ValueSource
		wantCal    int
	}{
		{
			name:       "plan targets win when meaningful",
			plan:       &domain.NutritionPlan{Targets: planTargets},
			budget:     &domain.Budget{Targets: budgetTargets},
			wantSource: SourcePlan,
			wantCal:    2200,
		},
		{
			name: "zero-calorie plan targets fall through to template",
			plan: &domain.NutritionPlan{
				Targets: &domain.NutritionTargets{Calories: 0, Protein: 200},
			},
			budget:     &domain.Budget{Targets: budgetTargets},
			wantSource: SourceProgram,
			wantCal:    2500,
		},
		{
			name:       "missing plan targets fall through to template",
			plan:       &domain.NutritionPlan{},
			budget:     &domain.Budget{Targets: budgetTargets},
			wantSource: SourceProgram,
			wantCal:    2500,
		},
		{
			name:       "no plan at all falls through to template",
			plan:       nil,
			budget:     &domain.Budget{Targets: budgetTargets},
			wantSource: SourceProgram,
			wantCal:    2500,
		},
		{
			name:       "empty template resolves to none",
			plan:       &domain.NutritionPlan{},
			budget:     &domain.Budget{},
			wantSource: SourceNone,
		},
		{
			name:       "no plan and no budget resolves to none",
			plan:       nil,
			budget:     nil,
			wantSource: SourceNone,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EffectiveTargets(tc.plan, tc.budget)
			assert.Equal(t, tc.wantSource, got.Source)
			assert.Equal(t, tc.wantCal, got.Value.Calories)
		})
	}
}

func TestEffectiveStepsGoal(t *testing.T) {
	budget := &domain.Budget{StepsGoal: 8000}

	got := EffectiveStepsGoal(&domain.StepsPlan{Goal: 10000}, budget)
	assert.Equal(t, SourcePlan, got.Source)
	assert.Equal(t, 10000, got.Value)

	// A zero goal on the plan is "unset", not a goal of zero steps.
	got = EffectiveStepsGoal(&domain.StepsPlan{Goal: 0}, budget)
	assert.Equal(t, SourceProgram, got.Source)
	assert.Equal(t, 8000, got.Value)

	got = EffectiveStepsGoal(nil, &domain.Budget{})
	assert.Equal(t, SourceNone, got.Source)
	assert.Zero(t, got.Value)
}

func TestEffectiveSteps_GroupsResolveIndependently(t *testing.T) {
	// The plan carries the goal, the budget carries the guidance. Each group
	// resolves on its own rather than all-or-nothing.
	plan := &domain.StepsPlan{Goal: 12000}
	budget := &domain.Budget{StepsGoal: 8000, StepsInstructions: "Walk after every meal."}

	goal := EffectiveStepsGoal(plan, budget)
	instructions := EffectiveStepsInstructions(plan, budget)

	assert.Equal(t, SourcePlan, goal.Source)
	assert.Equal(t, 12000, goal.Value)
	assert.Equal(t, SourceProgram, instructions.Source)
	assert.Equal(t, "Walk after every meal.", instructions.Value)
}

func TestEffectiveSupplements(t *testing.T) {
	planList := []domain.SupplementEntry{{Name: "Creatine", Dosage: "5g", Timing: "morning"}}
	budgetList := []domain.SupplementEntry{{Name: "Omega-3", Dosage: "2g", Timing: "with meals"}}

	got := EffectiveSupplements(&domain.SupplementPlan{Supplements: planList}, &domain.Budget{Supplements: budgetList})
	assert.Equal(t, SourcePlan, got.Source)
	assert.Equal(t, planList, got.Value)

	// An empty plan list is "unset" and falls through.
	got = EffectiveSupplements(&domain.SupplementPlan{}, &domain.Budget{Supplements: budgetList})
	assert.Equal(t, SourceProgram, got.Source)
	assert.Equal(t, budgetList, got.Value)

	got = EffectiveSupplements(nil, nil)
	assert.Equal(t, SourceNone, got.Source)
	assert.Empty(t, got.Value)
}
