package domain

// Workout represents a single session within a Week.
type Workout struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`      // e.g., "Workout 1"
	DayNumber int    `json:"dayNumber"` // Day within the week, 1-based
}

func (w Workout) Fields() map[string]any {
	return map[string]any{
		"name":      w.Name,
		"dayNumber": w.DayNumber,
		"userId":    w.UserID,
	}
}
