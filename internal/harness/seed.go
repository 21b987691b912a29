package harness

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"alcyxob/fitness-testkit/internal/docstore"
	"alcyxob/fitness-testkit/internal/domain"

	"go.uber.org/zap"
)

// Subcollection names of the program hierarchy.
const (
	ProgramsCollection  = "programs"
	WeeksCollection     = "weeks"
	WorkoutsCollection  = "workouts"
	ExercisesCollection = "exercises"
	SetsCollection      = "sets"
)

// Seeded values shared by every node of a level.
const (
	SeedProgramName        = "Test Program"
	SeedProgramDescription = "Program seeded for integration tests"
	SeedReps               = 10
	SeedWeight             = 50.0
)

// Shape is the fan-out of each level of a seeded program.
type Shape struct {
	Weeks               int `json:"weeks"`
	WorkoutsPerWeek     int `json:"workoutsPerWeek"`
	ExercisesPerWorkout int `json:"exercisesPerWorkout"`
	SetsPerExercise     int `json:"setsPerExercise"`
}

// DefaultShape seeds 2 weeks, 6 workouts, 12 exercises and 36 sets.
var DefaultShape = Shape{Weeks: 2, WorkoutsPerWeek: 3, ExercisesPerWorkout: 2, SetsPerExercise: 3}

var ErrInvalidShape = errors.New("seed shape values must not be negative")

// Validate rejects negative fan-outs. Zero is allowed and stops the tree at
// that level.
func (s Shape) Validate() error {
	if s.Weeks < 0 || s.WorkoutsPerWeek < 0 || s.ExercisesPerWorkout < 0 || s.SetsPerExercise < 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidShape, s)
	}
	return nil
}

// Counts is what seeding with s produces.
func (s Shape) Counts() domain.TreeCounts {
	weeks := s.Weeks
	workouts := weeks * s.WorkoutsPerWeek
	exercises := workouts * s.ExercisesPerWorkout
	return domain.TreeCounts{
		Weeks:     weeks,
		Workouts:  workouts,
		Exercises: exercises,
		Sets:      exercises * s.SetsPerExercise,
	}
}

// SeedResult identifies a seeded program.
type SeedResult struct {
	UserID    string            `json:"userId"`
	ProgramID string            `json:"programId"`
	Counts    domain.TreeCounts `json:"counts"`
}

// ProgramsPath is the programs collection of uid.
func ProgramsPath(uid string) string {
	return docstore.Join(UsersCollection, uid, ProgramsCollection)
}

// ProgramPath is the document path of one program.
func ProgramPath(uid, programID string) string {
	return docstore.Join(ProgramsPath(uid), programID)
}

// seeder writes one program tree. Every node gets the same owner.
type seeder struct {
	store  docstore.Store
	userID string
	shape  Shape
	counts domain.TreeCounts
}

// SeedProgramHierarchy writes a Program with shape.Weeks weeks, each with
// shape.WorkoutsPerWeek workouts and so on down to sets, every document
// tagged with userID. Each child is written after its parent's id is known.
// Seeding is not transactional: an error leaves the documents written so far.
func (h *Harness) SeedProgramHierarchy(ctx context.Context, userID string, shape Shape) (*SeedResult, error) {
	if userID == "" {
		return nil, errors.New("seed: user id is required")
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	s := &seeder{store: h.store, userID: userID, shape: shape}
	now := h.now().UTC()
	program := domain.Program{
		UserID:      userID,
		Name:        SeedProgramName,
		Description: SeedProgramDescription,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	programID, err := s.store.Add(ctx, ProgramsPath(userID), program.Fields())
	if err != nil {
		return nil, fmt.Errorf("seed program: %w", err)
	}
	if err := s.weeks(ctx, ProgramPath(userID, programID)); err != nil {
		return nil, err
	}

	h.logger.Info("program hierarchy seeded",
		zap.String("uid", userID),
		zap.String("program", programID),
		zap.Int("weeks", s.counts.Weeks),
		zap.Int("workouts", s.counts.Workouts),
		zap.Int("exercises", s.counts.Exercises),
		zap.Int("sets", s.counts.Sets))
	return &SeedResult{UserID: userID, ProgramID: programID, Counts: s.counts}, nil
}

func (s *seeder) weeks(ctx context.Context, programPath string) error {
	coll := docstore.Join(programPath, WeeksCollection)
	for n := 1; n <= s.shape.Weeks; n++ {
		week := domain.Week{UserID: s.userID, WeekNumber: n, Name: fmt.Sprintf("Week %d", n)}
		id, err := s.store.Add(ctx, coll, week.Fields())
		if err != nil {
			return fmt.Errorf("seed week %d: %w", n, err)
		}
		s.counts.Weeks++
		if err := s.workouts(ctx, docstore.Join(coll, id)); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) workouts(ctx context.Context, weekPath string) error {
	coll := docstore.Join(weekPath, WorkoutsCollection)
	for day := 1; day <= s.shape.WorkoutsPerWeek; day++ {
		workout := domain.Workout{UserID: s.userID, Name: fmt.Sprintf("Workout %d", day), DayNumber: day}
		id, err := s.store.Add(ctx, coll, workout.Fields())
		if err != nil {
			return fmt.Errorf("seed workout %d: %w", day, err)
		}
		s.counts.Workouts++
		if err := s.exercises(ctx, docstore.Join(coll, id)); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) exercises(ctx context.Context, workoutPath string) error {
	coll := docstore.Join(workoutPath, ExercisesCollection)
	for order := 0; order < s.shape.ExercisesPerWorkout; order++ {
		exercise := domain.Exercise{
			UserID: s.userID,
			Name:   fmt.Sprintf("Exercise %d", order+1),
			Type:   domain.ExerciseTypeStrength,
			Order:  order,
		}
		id, err := s.store.Add(ctx, coll, exercise.Fields())
		if err != nil {
			return fmt.Errorf("seed exercise %d: %w", order, err)
		}
		s.counts.Exercises++
		if err := s.sets(ctx, docstore.Join(coll, id)); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) sets(ctx context.Context, exercisePath string) error {
	coll := docstore.Join(exercisePath, SetsCollection)
	for n := 1; n <= s.shape.SetsPerExercise; n++ {
		set := domain.Set{UserID: s.userID, SetNumber: n, Reps: SeedReps, Weight: SeedWeight}
		if _, err := s.store.Add(ctx, coll, set.Fields()); err != nil {
			return fmt.Errorf("seed set %d: %w", n, err)
		}
		s.counts.Sets++
	}
	return nil
}

// LoadProgramTree reads a program and all of its descendants. Children are
// sorted by week number, day number, exercise order and set number, since
// not every backend lists documents in insertion order.
func (h *Harness) LoadProgramTree(ctx context.Context, userID, programID string) (*domain.ProgramTree, error) {
	root, err := h.findProgram(ctx, userID, programID)
	if err != nil {
		return nil, err
	}

	tree := &domain.ProgramTree{}
	if err := docstore.Decode(*root, &tree.Program); err != nil {
		return nil, err
	}
	tree.ID = root.ID

	weekDocs, err := h.store.List(ctx, docstore.Join(root.Path, WeeksCollection))
	if err != nil {
		return nil, err
	}
	for _, wd := range weekDocs {
		wt := domain.WeekTree{}
		if err := docstore.Decode(wd, &wt.Week); err != nil {
			return nil, err
		}
		wt.ID = wd.ID
		if wt.Workouts, err = h.loadWorkouts(ctx, wd.Path); err != nil {
			return nil, err
		}
		tree.Weeks = append(tree.Weeks, wt)
	}
	sort.SliceStable(tree.Weeks, func(i, j int) bool { return tree.Weeks[i].WeekNumber < tree.Weeks[j].WeekNumber })
	return tree, nil
}

func (h *Harness) findProgram(ctx context.Context, userID, programID string) (*docstore.Document, error) {
	programs, err := h.store.List(ctx, ProgramsPath(userID))
	if err != nil {
		return nil, err
	}
	for i := range programs {
		if programs[i].ID == programID {
			return &programs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: program %s of user %s", ErrNotFound, programID, userID)
}

func (h *Harness) loadWorkouts(ctx context.Context, weekPath string) ([]domain.WorkoutTree, error) {
	docs, err := h.store.List(ctx, docstore.Join(weekPath, WorkoutsCollection))
	if err != nil {
		return nil, err
	}
	out := make([]domain.WorkoutTree, 0, len(docs))
	for _, d := range docs {
		wt := domain.WorkoutTree{}
		if err := docstore.Decode(d, &wt.Workout); err != nil {
			return nil, err
		}
		wt.ID = d.ID
		if wt.Exercises, err = h.loadExercises(ctx, d.Path); err != nil {
			return nil, err
		}
		out = append(out, wt)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

func (h *Harness) loadExercises(ctx context.Context, workoutPath string) ([]domain.ExerciseTree, error) {
	docs, err := h.store.List(ctx, docstore.Join(workoutPath, ExercisesCollection))
	if err != nil {
		return nil, err
	}
	out := make([]domain.ExerciseTree, 0, len(docs))
	for _, d := range docs {
		et := domain.ExerciseTree{}
		if err := docstore.Decode(d, &et.Exercise); err != nil {
			return nil, err
		}
		et.ID = d.ID

		setDocs, err := h.store.List(ctx, docstore.Join(d.Path, SetsCollection))
		if err != nil {
			return nil, err
		}
		for _, sd := range setDocs {
			var set domain.Set
			if err := docstore.Decode(sd, &set); err != nil {
				return nil, err
			}
			set.ID = sd.ID
			et.Sets = append(et.Sets, set)
		}
		sort.SliceStable(et.Sets, func(i, j int) bool { return et.Sets[i].SetNumber < et.Sets[j].SetNumber })
		out = append(out, et)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// DeleteProgramTree removes a seeded program bottom-up: sets, exercises,
// workouts, weeks and finally the program document. Like seeding it is not
// atomic. A missing program yields ErrNotFound.
func (h *Harness) DeleteProgramTree(ctx context.Context, userID, programID string) (domain.TreeCounts, error) {
	var deleted domain.TreeCounts
	root, err := h.findProgram(ctx, userID, programID)
	if err != nil {
		return deleted, err
	}
	programPath := root.Path

	weeks, err := h.store.List(ctx, docstore.Join(programPath, WeeksCollection))
	if err != nil {
		return deleted, err
	}
	for _, week := range weeks {
		workouts, err := h.store.List(ctx, docstore.Join(week.Path, WorkoutsCollection))
		if err != nil {
			return deleted, err
		}
		for _, workout := range workouts {
			exercises, err := h.store.List(ctx, docstore.Join(workout.Path, ExercisesCollection))
			if err != nil {
				return deleted, err
			}
			for _, exercise := range exercises {
				n, err := h.deleteAll(ctx, docstore.Join(exercise.Path, SetsCollection))
				deleted.Sets += n
				if err != nil {
					return deleted, err
				}
				if err := h.store.Delete(ctx, exercise.Path); err != nil {
					return deleted, err
				}
				deleted.Exercises++
			}
			if err := h.store.Delete(ctx, workout.Path); err != nil {
				return deleted, err
			}
			deleted.Workouts++
		}
		if err := h.store.Delete(ctx, week.Path); err != nil {
			return deleted, err
		}
		deleted.Weeks++
	}
	if err := h.store.Delete(ctx, programPath); err != nil {
		return deleted, err
	}
	return deleted, nil
}

func (h *Harness) deleteAll(ctx context.Context, collectionPath string) (int, error) {
	docs, err := h.store.List(ctx, collectionPath)
	if err != nil {
		return 0, err
	}
	for i, d := range docs {
		if err := h.store.Delete(ctx, d.Path); err != nil {
			return i, err
		}
	}
	return len(docs), nil
}
