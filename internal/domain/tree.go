package domain

// ProgramTree is a Program read back together with all of its descendants.
type ProgramTree struct {
	Program
	Weeks []WeekTree `json:"weeks"`
}

type WeekTree struct {
	Week
	Workouts []WorkoutTree `json:"workouts"`
}

type WorkoutTree struct {
	Workout
	Exercises []ExerciseTree `json:"exercises"`
}

type ExerciseTree struct {
	Exercise
	Sets []Set `json:"sets"`
}

// TreeCounts tallies the documents below a Program, level by level.
type TreeCounts struct {
	Weeks     int `json:"weeks"`
	Workouts  int `json:"workouts"`
	Exercises int `json:"exercises"`
	Sets      int `json:"sets"`
}

// Counts walks the tree and counts every level.
func (t *ProgramTree) Counts() TreeCounts {
	var c TreeCounts
	for _, w := range t.Weeks {
		c.Weeks++
		for _, wo := range w.Workouts {
			c.Workouts++
			for _, e := range wo.Exercises {
				c.Exercises++
				c.Sets += len(e.Sets)
			}
		}
	}
	return c
}

// Owners returns every distinct userId found in the tree, root included.
func (t *ProgramTree) Owners() map[string]int {
	owners := map[string]int{t.UserID: 1}
	for _, w := range t.Weeks {
		owners[w.UserID]++
		for _, wo := range w.Workouts {
			owners[wo.UserID]++
			for _, e := range wo.Exercises {
				owners[e.UserID]++
				for _, s := range e.Sets {
					owners[s.UserID]++
				}
			}
		}
	}
	return owners
}
