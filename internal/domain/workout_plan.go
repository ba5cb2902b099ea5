package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxExercisesPerSession caps the exercises a single session may carry.
const MaxExercisesPerSession = 10

// AllowedFrequencies are the valid values for WorkoutPlan.FrequencyPerWeek.
var AllowedFrequencies = []int{3, 4, 5}

// Weekday names accepted on a Session.
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// IsWeekday reports whether s is one of the seven accepted weekday names.
func IsWeekday(s string) bool {
	switch s {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// Exercise is a single prescribed movement inside a session.
type Exercise struct {
	Name         string `bson:"name" json:"name"`
	Sets         int    `bson:"sets" json:"sets"`
	Reps         int    `bson:"reps" json:"reps"`
	RestSeconds  int    `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Instructions string `bson:"instructions,omitempty" json:"instructions,omitempty"`
	VideoURL     string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
}

// Session is one scheduled workout within a plan week.
type Session struct {
	Week      int        `bson:"week" json:"week"`
	Weekday   string     `bson:"weekday" json:"weekday"`
	Order     int        `bson:"order" json:"order"`
	Exercises []Exercise `bson:"exercises" json:"exercises"`
}

// WorkoutPlan belongs to one trainer and one client. FrequencyPerWeek must be
// 3, 4 or 5 and WorkoutDates must contain exactly that many dates.
type WorkoutPlan struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID        primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID         primitive.ObjectID `bson:"clientId" json:"clientId"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	FrequencyPerWeek int                `bson:"frequencyPerWeek" json:"frequencyPerWeek"`
	StartDate        time.Time          `bson:"startDate" json:"startDate"`
	EndDate          *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	WorkoutDates     []time.Time        `bson:"workoutDates" json:"workoutDates"`
	Sessions         []Session          `bson:"sessions" json:"sessions"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
