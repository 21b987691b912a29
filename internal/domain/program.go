// internal/domain/program.go
package domain

import "time"

// Program is the root of a seeded training hierarchy.
// Weeks live in the "weeks" subcollection of the program document.
type Program struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"userId"` // Owner; repeated on every node below
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Fields returns the document body stored for p.
func (p Program) Fields() map[string]any {
	return map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"createdAt":   p.CreatedAt,
		"updatedAt":   p.UpdatedAt,
		"userId":      p.UserID,
	}
}

// Week is one week of a Program. WeekNumber starts at 1.
type Week struct {
	ID         string `json:"id,omitempty"`
	UserID     string `json:"userId"`
	WeekNumber int    `json:"weekNumber"`
	Name       string `json:"name"`
}

func (w Week) Fields() map[string]any {
	return map[string]any{
		"weekNumber": w.WeekNumber,
		"name":       w.Name,
		"userId":     w.UserID,
	}
}
