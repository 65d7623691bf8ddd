package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BudgetAssignment links a client (customer and/or lead) to the Budget that
// governs their program. At most one assignment per client is active at a
// time; superseded assignments are deactivated, never deleted, so history
// stays reconstructable.
type BudgetAssignment struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	BudgetID   primitive.ObjectID  `bson:"budgetId" json:"budgetId"`
	CustomerID *primitive.ObjectID `bson:"customerId,omitempty" json:"customerId,omitempty"`
	LeadID     *primitive.ObjectID `bson:"leadId,omitempty" json:"leadId,omitempty"`
	IsActive   bool                `bson:"isActive" json:"isActive"`
	AssignedAt time.Time           `bson:"assignedAt" json:"assignedAt"`
	Notes      string              `bson:"notes,omitempty" json:"notes,omitempty"`
}
