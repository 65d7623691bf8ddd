package engine

import (
	"fitcoach/coaching-app/internal/domain"
)

// ValueSource tags where an effective value came from.
type ValueSource string

const (
	SourcePlan    ValueSource = "plan"
	SourceProgram ValueSource = "program"
	SourceNone    ValueSource = "none"
)

// EffectiveValue is the result of the plan-over-program priority cascade for
// one field group: the value actually shown to the client, tagged with its
// origin. The cascade is an explicit function per group rather than a chain
// of null-coalescing expressions, so each rule is testable on its own.
type EffectiveValue[T any] struct {
	Source ValueSource `json:"source"`
	Value  T           `json:"value"`
}

func planValue[T any](v T) EffectiveValue[T] {
	return EffectiveValue[T]{Source: SourcePlan, Value: v}
}

func programValue[T any](v T) EffectiveValue[T] {
	return EffectiveValue[T]{Source: SourceProgram, Value: v}
}

func noValue[T any]() EffectiveValue[T] {
	return EffectiveValue[T]{Source: SourceNone}
}

// EffectiveTargets resolves the nutrition-targets group. A plan's targets
// object is only trusted when it is present with positive calories; a
// malformed or zeroed object falls through to the budget template, and an
// equally empty template resolves to none.
func EffectiveTargets(plan *domain.NutritionPlan, budget *domain.Budget) EffectiveValue[domain.NutritionTargets] {
	if plan != nil && plan.Targets.IsMeaningful() {
		return planValue(*plan.Targets)
	}
	if budget != nil && budget.Targets.IsMeaningful() {
		return programValue(budget.Targets)
	}
	return noValue[domain.NutritionTargets]()
}

// EffectiveStepsGoal resolves the daily step goal. Zero is "unset", not a
// goal of zero steps.
func EffectiveStepsGoal(plan *domain.StepsPlan, budget *domain.Budget) EffectiveValue[int] {
	if plan != nil && plan.Goal > 0 {
		return planValue(plan.Goal)
	}
	if budget != nil && budget.StepsGoal > 0 {
		return programValue(budget.StepsGoal)
	}
	return noValue[int]()
}

// EffectiveStepsInstructions resolves the free-text steps guidance,
// independently of the goal: a plan may supply the goal while the budget
// supplies the instructions.
func EffectiveStepsInstructions(plan *domain.StepsPlan, budget *domain.Budget) EffectiveValue[string] {
	if plan != nil && plan.Instructions != "" {
		return planValue(plan.Instructions)
	}
	if budget != nil && budget.StepsInstructions != "" {
		return programValue(budget.StepsInstructions)
	}
	return noValue[string]()
}

// EffectiveSupplements resolves the supplement list as a single group.
func EffectiveSupplements(plan *domain.SupplementPlan, budget *domain.Budget) EffectiveValue[[]domain.SupplementEntry] {
	if plan != nil && len(plan.Supplements) > 0 {
		return planValue(plan.Supplements)
	}
	if budget != nil && len(budget.Supplements) > 0 {
		return programValue(budget.Supplements)
	}
	return noValue[[]domain.SupplementEntry]()
}
