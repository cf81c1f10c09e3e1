// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanStatus type for the training plan lifecycle
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanPaused    PlanStatus = "paused"
	PlanCompleted PlanStatus = "completed"
	PlanAbandoned PlanStatus = "abandoned"
)

// TrainingPlan is one athlete's instantiation of a PlanTemplate, anchored
// to a start date. CurrentWeek is advanced externally (by the advance-week
// operation), never recomputed from the clock.
type TrainingPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	TemplateID  primitive.ObjectID `bson:"templateId" json:"templateId"`
	PlanName    string             `bson:"planName" json:"planName"`
	StartDate   Date               `bson:"startDate" json:"startDate"`
	EndDate     Date               `bson:"endDate" json:"endDate"`
	CurrentWeek int                `bson:"currentWeek" json:"currentWeek"`
	Status      PlanStatus         `bson:"status" json:"status"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
