package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"alcyxob/fitness-testkit/internal/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", t.TempDir(), "--backend", "memory"}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestSeedCommand(t *testing.T) {
	out := execute(t, "seed", "--weeks", "1", "--workouts", "2")

	var res harness.SeedResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.NotEmpty(t, res.UserID)
	assert.Equal(t, 1, res.Counts.Weeks)
	assert.Equal(t, 2, res.Counts.Workouts)
	assert.Equal(t, 4, res.Counts.Exercises)
	assert.Equal(t, 12, res.Counts.Sets)
	assert.False(t, harness.Initialized())
}

func TestUserCommand(t *testing.T) {
	out := execute(t, "user", "--email", "cli@example.com")
	assert.Contains(t, out, `"email": "cli@example.com"`)
}

func TestClearCommand(t *testing.T) {
	out := execute(t, "clear", "users", "workouts")
	assert.Contains(t, out, "cleared 2 collection(s)")
}
