package engine

import (
	"time"

	"fitcoach/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Test helpers shared by the engine tests.

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func idPtr(id primitive.ObjectID) *primitive.ObjectID {
	return &id
}

func makeWorkoutPlan(budgetID *primitive.ObjectID, start *time.Time, created time.Time) domain.WorkoutPlan {
	return domain.WorkoutPlan{
		PlanMeta: domain.PlanMeta{
			ID:        primitive.NewObjectID(),
			BudgetID:  budgetID,
			StartDate: start,
			CreatedAt: created,
		},
	}
}

func makeStepsPlan(budgetID *primitive.ObjectID, start *time.Time, created time.Time, goal int) domain.StepsPlan {
	return domain.StepsPlan{
		PlanMeta: domain.PlanMeta{
			ID:        primitive.NewObjectID(),
			BudgetID:  budgetID,
			StartDate: start,
			CreatedAt: created,
		},
		Goal: goal,
	}
}

func makeAssignment(budgetID primitive.ObjectID, customerID, leadID *primitive.ObjectID, active bool, assignedAt time.Time) domain.BudgetAssignment {
	return domain.BudgetAssignment{
		ID:         primitive.NewObjectID(),
		BudgetID:   budgetID,
		CustomerID: customerID,
		LeadID:     leadID,
		IsActive:   active,
		AssignedAt: assignedAt,
	}
}
