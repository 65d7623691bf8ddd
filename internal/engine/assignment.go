package engine

import (
	"fitcoach/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pickMostRecentlyAssigned is the conflict policy for an upstream invariant
// violation: the store promises at most one active assignment per client,
// but if several come back anyway the most recently assigned one wins, with
// the earlier-seen record winning exact timestamp ties. The engine never
// fails on merely inconsistent data.
func pickMostRecentlyAssigned(assignments []domain.BudgetAssignment) *domain.BudgetAssignment {
	var best *domain.BudgetAssignment
	for i := range assignments {
		if best == nil || assignments[i].AssignedAt.After(best.AssignedAt) {
			best = &assignments[i]
		}
	}
	return best
}

// ResolveAssignment decides which active assignment governs the client's
// current program. An assignment tied specifically to the requested lead
// wins unconditionally; otherwise any active assignment on the customer or
// one of the customer's other leads applies, so a program assigned once at
// the customer level is visible from every lead. Inactive rows are ignored
// regardless of what the store returned.
func ResolveAssignment(assignments []domain.BudgetAssignment, leadID *primitive.ObjectID) *domain.BudgetAssignment {
	if leadID != nil {
		var leadScoped []domain.BudgetAssignment
		for _, a := range assignments {
			if a.IsActive && a.LeadID != nil && *a.LeadID == *leadID {
				leadScoped = append(leadScoped, a)
			}
		}
		if picked := pickMostRecentlyAssigned(leadScoped); picked != nil {
			return picked
		}
	}

	var active []domain.BudgetAssignment
	for _, a := range assignments {
		if a.IsActive {
			active = append(active, a)
		}
	}
	return pickMostRecentlyAssigned(active)
}
