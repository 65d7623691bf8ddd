package engine

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dedupe collapses a raw plan list to at most one record per owning budget.
//
// The first pass drops rows sharing a record id: the store matches on
// customer_id OR lead_id, so a row linked to both identities can come back
// twice. The second pass keeps, per non-nil budget id, the most recent
// record (see moreRecent); plans without a budget id are ad-hoc and pass
// through untouched. Survivors keep their first-seen position, which makes
// the function deterministic and idempotent.
func Dedupe[P PlanRecord](records []P) []P {
	seen := make(map[primitive.ObjectID]struct{}, len(records))
	byBudget := make(map[primitive.ObjectID]int, len(records))
	out := make([]P, 0, len(records))

	for _, rec := range records {
		if _, dup := seen[rec.RecordID()]; dup {
			continue
		}
		seen[rec.RecordID()] = struct{}{}

		budgetID := rec.OwningBudgetID()
		if budgetID == nil {
			out = append(out, rec)
			continue
		}
		if idx, ok := byBudget[*budgetID]; ok {
			if moreRecent(rec, out[idx]) {
				out[idx] = rec
			}
			continue
		}
		byBudget[*budgetID] = len(out)
		out = append(out, rec)
	}
	return out
}
