package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NutritionTargets holds the daily intake minimums a coach prescribes.
// Calories acts as the sentinel for the whole object: a targets object
// with zero calories is treated as empty by the resolution engine.
type NutritionTargets struct {
	Calories int     `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein" json:"protein"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fat      float64 `bson:"fat" json:"fat"`
	Fiber    float64 `bson:"fiber,omitempty" json:"fiber,omitempty"`
	WaterL   float64 `bson:"waterL,omitempty" json:"waterL,omitempty"` // litres per day
}

// IsMeaningful reports whether the targets object carries usable values.
// An object without positive calories is never trusted, even if other
// sub-fields are populated.
func (t *NutritionTargets) IsMeaningful() bool {
	return t != nil && t.Calories > 0
}

// SupplementEntry is one row of a supplement protocol.
type SupplementEntry struct {
	Name    string `bson:"name" json:"name"`
	Dosage  string `bson:"dosage,omitempty" json:"dosage,omitempty"`
	Timing  string `bson:"timing,omitempty" json:"timing,omitempty"`
	LinkOne string `bson:"linkOne,omitempty" json:"linkOne,omitempty"`
	LinkTwo string `bson:"linkTwo,omitempty" json:"linkTwo,omitempty"`
}

// Budget is a reusable coaching program template: nutrition targets, a daily
// step goal, a supplement protocol and eating guidance. Identity is
// immutable; content may be edited by the coach at any time. Budgets are
// never deleted while historical assignments may still reference them.
type Budget struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CoachID             primitive.ObjectID  `bson:"coachId" json:"coachId"`
	Name                string              `bson:"name" json:"name"`
	Targets             NutritionTargets    `bson:"targets" json:"targets"`
	StepsGoal           int                 `bson:"stepsGoal,omitempty" json:"stepsGoal,omitempty"`
	StepsInstructions   string              `bson:"stepsInstructions,omitempty" json:"stepsInstructions,omitempty"`
	Supplements         []SupplementEntry   `bson:"supplements,omitempty" json:"supplements,omitempty"`
	EatingOrder         string              `bson:"eatingOrder,omitempty" json:"eatingOrder,omitempty"`
	EatingRules         string              `bson:"eatingRules,omitempty" json:"eatingRules,omitempty"`
	NutritionTemplateID *primitive.ObjectID `bson:"nutritionTemplateId,omitempty" json:"nutritionTemplateId,omitempty"`
	WorkoutTemplateID   *primitive.ObjectID `bson:"workoutTemplateId,omitempty" json:"workoutTemplateId,omitempty"`
	AttachmentKey       string              `bson:"attachmentKey,omitempty" json:"attachmentKey,omitempty"` // S3 object key of an uploaded template document
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time           `bson:"updatedAt" json:"updatedAt"`
}
