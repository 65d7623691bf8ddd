package engine

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanRecord is the common surface the engine needs from the four plan
// kinds. domain.PlanMeta satisfies it, so every plan type does too.
type PlanRecord interface {
	RecordID() primitive.ObjectID
	OwningBudgetID() *primitive.ObjectID
	PlanStartDate() *time.Time
	PlanCreatedAt() time.Time
}

// moreRecent reports whether a is strictly more recent than b. Start dates
// are compared first; a record with a start date outranks one without; when
// start dates tie or are both absent, creation timestamps break the tie.
// Returns false on a full tie so the earlier-seen record wins, never
// "last processed wins" by accident.
func moreRecent(a, b PlanRecord) bool {
	as, bs := a.PlanStartDate(), b.PlanStartDate()
	switch {
	case as != nil && bs != nil:
		if !as.Equal(*bs) {
			return as.After(*bs)
		}
	case as != nil:
		return true
	case bs != nil:
		return false
	}
	return a.PlanCreatedAt().After(b.PlanCreatedAt())
}
