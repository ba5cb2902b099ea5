package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogStatus is the compliance outcome a client records for a scheduled date.
type LogStatus string

const (
	LogCompleted LogStatus = "completed"
	LogMissed    LogStatus = "missed"
	LogPartial   LogStatus = "partial"
)

// IsValidLogStatus reports whether s is one of the three accepted statuses.
func IsValidLogStatus(s LogStatus) bool {
	return s == LogCompleted || s == LogMissed || s == LogPartial
}

// WorkoutLog is one compliance record per plan+date+client. Reason is
// mandatory when Status is "missed". PhotoKey points at an object in file
// storage when the client attached a photo.
type WorkoutLog struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID   primitive.ObjectID `bson:"planId" json:"planId"`
	ClientID primitive.ObjectID `bson:"clientId" json:"clientId"`
	Date     time.Time          `bson:"date" json:"date"`
	Status   LogStatus          `bson:"status" json:"status"`
	Reason   string             `bson:"reason,omitempty" json:"reason,omitempty"`
	PhotoKey string             `bson:"photoKey,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PeriodStats is one aggregation bucket from the compliance stats query.
// For weekly grouping Week holds the ISO week and Month is zero; for monthly
// grouping the reverse.
type PeriodStats struct {
	Year           int `bson:"year" json:"year"`
	Week           int `bson:"week,omitempty" json:"week,omitempty"`
	Month          int `bson:"month,omitempty" json:"month,omitempty"`
	TotalCompleted int `bson:"totalCompleted" json:"totalCompleted"`
	TotalMissed    int `bson:"totalMissed" json:"totalMissed"`
	TotalPartial   int `bson:"totalPartial" json:"totalPartial"`
}
