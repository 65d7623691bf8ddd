package engine

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entry is one plan in a history listing, augmented with its activity flag.
type Entry[P PlanRecord] struct {
	Plan     P    `json:"plan"`
	IsActive bool `json:"isActive"`
}

// FlagActivity marks at most one plan as active and orders the list for
// display. The active plan is the most recent one owned by the active
// budget; if no budget is active, or no plan belongs to it, nothing is
// flagged. Order: active entry first, then descending by start date with
// created_at as tie-break.
//
// Input is expected to be deduplicated; even if it is not, only a single
// entry ever comes out flagged.
func FlagActivity[P PlanRecord](plans []P, activeBudgetID *primitive.ObjectID) []Entry[P] {
	entries := make([]Entry[P], len(plans))
	for i, p := range plans {
		entries[i] = Entry[P]{Plan: p}
	}

	if activeBudgetID != nil {
		activeIdx := -1
		for i := range entries {
			budgetID := entries[i].Plan.OwningBudgetID()
			if budgetID == nil || *budgetID != *activeBudgetID {
				continue
			}
			if activeIdx < 0 || moreRecent(entries[i].Plan, entries[activeIdx].Plan) {
				activeIdx = i
			}
		}
		if activeIdx >= 0 {
			entries[activeIdx].IsActive = true
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsActive != entries[j].IsActive {
			return entries[i].IsActive
		}
		return moreRecent(entries[i].Plan, entries[j].Plan)
	})
	return entries
}
