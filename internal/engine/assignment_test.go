package engine

import (
	"testing"

	"fitcoach/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolveAssignment_LeadScopedWins(t *testing.T) {
	customer := primitive.NewObjectID()
	lead := primitive.NewObjectID()
	customerBudget := primitive.NewObjectID()
	leadBudget := primitive.NewObjectID()

	assignments := []domain.BudgetAssignment{
		// Customer-level assignment is newer, lead-specific still wins.
		makeAssignment(customerBudget, idPtr(customer), nil, true, day(2024, 6, 1)),
		makeAssignment(leadBudget, nil, idPtr(lead), true, day(2024, 1, 1)),
	}

	got := ResolveAssignment(assignments, idPtr(lead))

	require.NotNil(t, got)
	assert.Equal(t, leadBudget, got.BudgetID)
}

func TestResolveAssignment_CustomerLevelCoversLeads(t *testing.T) {
	// One customer-level assignment is visible when resolving for a lead
	// that has no assignment of its own.
	customer := primitive.NewObjectID()
	lead := primitive.NewObjectID()
	budget := primitive.NewObjectID()

	assignments := []domain.BudgetAssignment{
		makeAssignment(budget, idPtr(customer), nil, true, day(2024, 3, 1)),
	}

	got := ResolveAssignment(assignments, idPtr(lead))

	require.NotNil(t, got)
	assert.Equal(t, budget, got.BudgetID)
}

func TestResolveAssignment_IgnoresInactive(t *testing.T) {
	customer := primitive.NewObjectID()
	oldBudget := primitive.NewObjectID()
	newBudget := primitive.NewObjectID()

	assignments := []domain.BudgetAssignment{
		makeAssignment(oldBudget, idPtr(customer), nil, false, day(2024, 5, 1)),
		makeAssignment(newBudget, idPtr(customer), nil, true, day(2024, 2, 1)),
	}

	got := ResolveAssignment(assignments, nil)

	require.NotNil(t, got)
	assert.Equal(t, newBudget, got.BudgetID)
}

func TestResolveAssignment_MultipleActivePicksMostRecent(t *testing.T) {
	// Upstream promises at most one active assignment; if that invariant is
	// broken the most recently assigned row governs.
	customer := primitive.NewObjectID()
	older := primitive.NewObjectID()
	newer := primitive.NewObjectID()

	assignments := []domain.BudgetAssignment{
		makeAssignment(older, idPtr(customer), nil, true, day(2024, 1, 1)),
		makeAssignment(newer, idPtr(customer), nil, true, day(2024, 4, 1)),
	}

	got := ResolveAssignment(assignments, nil)

	require.NotNil(t, got)
	assert.Equal(t, newer, got.BudgetID)
}

func TestResolveAssignment_ExactTimestampTieKeepsFirstSeen(t *testing.T) {
	customer := primitive.NewObjectID()
	first := makeAssignment(primitive.NewObjectID(), idPtr(customer), nil, true, day(2024, 1, 1))
	second := makeAssignment(primitive.NewObjectID(), idPtr(customer), nil, true, day(2024, 1, 1))

	got := ResolveAssignment([]domain.BudgetAssignment{first, second}, nil)

	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
}

func TestResolveAssignment_NoneActive(t *testing.T) {
	customer := primitive.NewObjectID()
	assignments := []domain.BudgetAssignment{
		makeAssignment(primitive.NewObjectID(), idPtr(customer), nil, false, day(2024, 1, 1)),
	}

	assert.Nil(t, ResolveAssignment(assignments, nil))
	assert.Nil(t, ResolveAssignment(nil, nil))
}
