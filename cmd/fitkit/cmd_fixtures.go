package main

import (
	"fmt"

	"alcyxob/fitness-testkit/internal/harness"

	"github.com/spf13/cobra"
)

var (
	userEmail    string
	userPassword string

	seedUser  string
	seedShape = harness.DefaultShape
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Create a disposable test user",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, shutdown, err := openHarness(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()

		user, err := h.CreateTestUser(cmd.Context(), userEmail, userPassword)
		if err != nil {
			return err
		}
		return printJSON(cmd, user)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a program hierarchy for a user",
	Long: `Seeds one program with the requested number of weeks, workouts per
week, exercises per workout and sets per exercise. Without --uid a new
test user is created first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		h, shutdown, err := openHarness(ctx)
		if err != nil {
			return err
		}
		defer shutdown()

		uid := seedUser
		if uid == "" {
			user, err := h.CreateTestUser(ctx, "", "")
			if err != nil {
				return fmt.Errorf("create owner: %w", err)
			}
			uid = user.ID
		}
		res, err := h.SeedProgramHierarchy(ctx, uid, seedShape)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear COLLECTION...",
	Short: "Delete every document of the named top-level collections",
	Long: `Deletes the documents of each named top-level collection one by one.
Subcollections are left in place. Only run this against emulators.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, shutdown, err := openHarness(cmd.Context())
		if err != nil {
			return err
		}
		defer shutdown()

		if err := h.ClearCollections(cmd.Context(), args...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %d collection(s)\n", len(args))
		return nil
	},
}

func init() {
	userCmd.Flags().StringVar(&userEmail, "email", "", "Email (default: generated)")
	userCmd.Flags().StringVar(&userPassword, "password", "", "Password (default: "+harness.DefaultPassword+")")

	seedCmd.Flags().StringVar(&seedUser, "uid", "", "Owner uid (default: a new test user)")
	seedCmd.Flags().IntVar(&seedShape.Weeks, "weeks", harness.DefaultShape.Weeks, "Weeks in the program")
	seedCmd.Flags().IntVar(&seedShape.WorkoutsPerWeek, "workouts", harness.DefaultShape.WorkoutsPerWeek, "Workouts per week")
	seedCmd.Flags().IntVar(&seedShape.ExercisesPerWorkout, "exercises", harness.DefaultShape.ExercisesPerWorkout, "Exercises per workout")
	seedCmd.Flags().IntVar(&seedShape.SetsPerExercise, "sets", harness.DefaultShape.SetsPerExercise, "Sets per exercise")
}
