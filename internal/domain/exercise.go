// internal/domain/exercise.go
package domain

// ExerciseTypeStrength is the only exercise type the seeder writes.
const ExerciseTypeStrength = "strength"

// Exercise is one movement inside a Workout.
type Exercise struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Order  int    `json:"order"` // Position within the workout, 0-based
}

func (e Exercise) Fields() map[string]any {
	return map[string]any{
		"name":   e.Name,
		"type":   e.Type,
		"order":  e.Order,
		"userId": e.UserID,
	}
}

// Set is a single set of an Exercise. SetNumber starts at 1.
type Set struct {
	ID        string  `json:"id,omitempty"`
	UserID    string  `json:"userId"`
	SetNumber int     `json:"setNumber"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

func (s Set) Fields() map[string]any {
	return map[string]any{
		"setNumber": s.SetNumber,
		"reps":      s.Reps,
		"weight":    s.Weight,
		"completed": s.Completed,
		"userId":    s.UserID,
	}
}
