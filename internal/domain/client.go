package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is a paying client of the coaching practice.
type Customer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Lead is a prospective or secondary identity belonging to a customer.
// Plans and assignments may be linked to either the customer or one of
// their leads; both identities address the same underlying person.
type Lead struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID primitive.ObjectID `bson:"customerId" json:"customerId"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// ClientKey identifies the client a resolution call is scoped to. Either
// identifier may be absent; when both are absent the engine resolves to an
// empty composite rather than an error.
type ClientKey struct {
	CustomerID *primitive.ObjectID `json:"customerId,omitempty"`
	LeadID     *primitive.ObjectID `json:"leadId,omitempty"`
}

// IsEmpty reports whether the key carries no identifier at all.
func (k ClientKey) IsEmpty() bool {
	return k.CustomerID == nil && k.LeadID == nil
}
