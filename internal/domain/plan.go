package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanMeta carries the fields shared by all four plan kinds. Plans are
// append-only: editing a client's values creates a new dated row and the old
// row is kept for history. BudgetID is optional; an ad-hoc plan was never
// generated from a template.
type PlanMeta struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	BudgetID   *primitive.ObjectID `bson:"budgetId,omitempty" json:"budgetId,omitempty"`
	CustomerID *primitive.ObjectID `bson:"customerId,omitempty" json:"customerId,omitempty"`
	LeadID     *primitive.ObjectID `bson:"leadId,omitempty" json:"leadId,omitempty"`
	StartDate  *time.Time          `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate    *time.Time          `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
}

// Accessors used by the resolution engine's generic record handling.

// Meta exposes the shared fields to code that handles the four plan kinds
// generically (the repositories use it to stamp ids and timestamps).
func (m *PlanMeta) Meta() *PlanMeta { return m }

func (m PlanMeta) RecordID() primitive.ObjectID        { return m.ID }
func (m PlanMeta) OwningBudgetID() *primitive.ObjectID { return m.BudgetID }
func (m PlanMeta) PlanStartDate() *time.Time           { return m.StartDate }
func (m PlanMeta) PlanCreatedAt() time.Time            { return m.CreatedAt }

// WorkoutSplit describes how a routine divides across training modalities.
type WorkoutSplit struct {
	Strength  string `bson:"strength,omitempty" json:"strength,omitempty"`
	Cardio    string `bson:"cardio,omitempty" json:"cardio,omitempty"`
	Intervals string `bson:"intervals,omitempty" json:"intervals,omitempty"`
}

// WorkoutPlan is a dated workout routine for a client.
type WorkoutPlan struct {
	PlanMeta `bson:",inline"`
	Title    string       `bson:"title,omitempty" json:"title,omitempty"`
	Routine  string       `bson:"routine,omitempty" json:"routine,omitempty"`
	Split    WorkoutSplit `bson:"split,omitempty" json:"split,omitempty"`
}

// NutritionPlan is a dated set of nutrition targets for a client.
type NutritionPlan struct {
	PlanMeta `bson:",inline"`
	Targets  *NutritionTargets `bson:"targets,omitempty" json:"targets,omitempty"`
	Notes    string            `bson:"notes,omitempty" json:"notes,omitempty"`
}

// SupplementPlan is a dated supplement protocol for a client.
type SupplementPlan struct {
	PlanMeta    `bson:",inline"`
	Supplements []SupplementEntry `bson:"supplements,omitempty" json:"supplements,omitempty"`
}

// StepsPlan is a dated daily step goal for a client.
type StepsPlan struct {
	PlanMeta     `bson:",inline"`
	Goal         int    `bson:"goal,omitempty" json:"goal,omitempty"`
	Instructions string `bson:"instructions,omitempty" json:"instructions,omitempty"`
}
