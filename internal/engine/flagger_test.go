package engine

import (
	"testing"

	"fitcoach/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func activeCount[P PlanRecord](entries []Entry[P]) int {
	n := 0
	for _, e := range entries {
		if e.IsActive {
			n++
		}
	}
	return n
}

func TestFlagActivity_MarksMostRecentMatchingPlan(t *testing.T) {
	// A client moved through two workout plans under the same program. Only
	// the newer one is current; both stay in the history.
	budgetX := primitive.NewObjectID()
	older := makeWorkoutPlan(idPtr(budgetX), dayPtr(2024, 1, 1), day(2024, 1, 1))
	newer := makeWorkoutPlan(idPtr(budgetX), dayPtr(2024, 3, 1), day(2024, 3, 1))

	entries := FlagActivity([]domain.WorkoutPlan{older, newer}, idPtr(budgetX))

	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, entries[0].Plan.ID)
	assert.True(t, entries[0].IsActive)
	assert.Equal(t, older.ID, entries[1].Plan.ID)
	assert.False(t, entries[1].IsActive)
}

func TestFlagActivity_NoActiveBudget(t *testing.T) {
	budgetX := primitive.NewObjectID()
	plans := []domain.WorkoutPlan{
		makeWorkoutPlan(idPtr(budgetX), dayPtr(2024, 1, 1), day(2024, 1, 1)),
		makeWorkoutPlan(nil, dayPtr(2024, 2, 1), day(2024, 2, 1)),
	}

	entries := FlagActivity(plans, nil)

	require.Len(t, entries, 2)
	assert.Zero(t, activeCount(entries))
	// Without an active entry the list is purely reverse chronological.
	assert.Equal(t, plans[1].ID, entries[0].Plan.ID)
}

func TestFlagActivity_NoPlanForActiveBudget(t *testing.T) {
	budgetX := primitive.NewObjectID()
	budgetY := primitive.NewObjectID()
	plans := []domain.WorkoutPlan{
		makeWorkoutPlan(idPtr(budgetX), dayPtr(2024, 1, 1), day(2024, 1, 1)),
	}

	entries := FlagActivity(plans, idPtr(budgetY))

	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsActive)
}

func TestFlagActivity_AtMostOneActive(t *testing.T) {
	// Even on an input the dedupe pass should have collapsed, exactly one
	// entry comes out flagged.
	budgetX := primitive.NewObjectID()
	plans := []domain.WorkoutPlan{
		makeWorkoutPlan(idPtr(budgetX), dayPtr(2024, 1, 1), day(2024, 1, 1)),
		makeWorkoutPlan(idPtr(budgetX), dayPtr(2024, 2, 1), day(2024, 2, 1)),
		makeWorkoutPlan(idPtr(budgetX), dayPtr(2024, 3, 1), day(2024, 3, 1)),
	}

	entries := FlagActivity(plans, idPtr(budgetX))

	assert.Equal(t, 1, activeCount(entries))
	assert.True(t, entries[0].IsActive)
	assert.Equal(t, plans[2].ID, entries[0].Plan.ID)
}

func TestFlagActivity_ActiveFirstEvenWhenOlder(t *testing.T) {
	// The active plan belongs to the active program but an ad-hoc plan was
	// added later. The active one still leads the listing.
	budgetX := primitive.NewObjectID()
	activePlan := makeWorkoutPlan(idPtr(budgetX), dayPtr(2024, 1, 1), day(2024, 1, 1))
	adHoc := makeWorkoutPlan(nil, dayPtr(2024, 5, 1), day(2024, 5, 1))

	entries := FlagActivity([]domain.WorkoutPlan{activePlan, adHoc}, idPtr(budgetX))

	require.Len(t, entries, 2)
	assert.True(t, entries[0].IsActive)
	assert.Equal(t, activePlan.ID, entries[0].Plan.ID)
	assert.Equal(t, adHoc.ID, entries[1].Plan.ID)
}

func TestFlagActivity_EmptyInput(t *testing.T) {
	entries := FlagActivity([]domain.WorkoutPlan{}, idPtr(primitive.NewObjectID()))
	assert.Empty(t, entries)
}
