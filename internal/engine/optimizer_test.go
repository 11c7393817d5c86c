package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-engine/internal/domain"
)

// searchFixture is comfortably solvable: five sessions on a hundred cells
// with two rooms and no contention between the lecturers.
func searchFixture(t *testing.T) *domain.Instance {
	t.Helper()
	inst, err := domain.NewInstance(
		domain.Grid{Days: 5, SlotsPerDay: 5},
		[]domain.StudentGroup{
			{ID: "cs-a", Size: 30},
			{ID: "cs-b", Size: 25},
		},
		[]domain.Course{
			{Code: "MATH101", Name: "Calculus I", WeeklyHours: 3, GroupIDs: []string{"cs-a", "cs-b"}, LecturerIDs: []string{"lec-1"}},
			{Code: "PHYS101", Name: "Physics I", WeeklyHours: 2, GroupIDs: []string{"cs-a"}, RoomTypes: []string{"lab"}, LecturerIDs: []string{"lec-2"}},
		},
		[]domain.Lecturer{
			{ID: "lec-1", Name: "Dr. Adams"},
			{ID: "lec-2", Name: "Dr. Baker", Unavailable: []domain.SlotRef{{Day: 1, Slot: 1}}},
		},
		[]domain.Room{
			{ID: "r-101", Capacity: 60, Type: "lecture"},
			{ID: "lab-1", Capacity: 40, Type: "lab"},
		},
	)
	require.NoError(t, err)
	return inst
}

func searchSettings() domain.Settings {
	return domain.Settings{
		MinHours:       0,
		MaxHours:       20,
		PopulationSize: 24,
		Generations:    150,
		MutationRate:   0.15,
		TournamentSize: 4,
		EliteCount:     2,
		SeedAttempts:   120,
		RepairAttempts: 30,
		Workers:        2,
		Seed:           42,
		Weights:        domain.DefaultWeights(),
		EarlyStop: domain.EarlyStop{
			SoftScoreTarget:  0,
			StallGenerations: 40,
		},
	}
}

func TestOptimizerSolvesFeasibleInstance(t *testing.T) {
	inst := searchFixture(t)
	opt, err := NewOptimizer(inst, searchSettings(), nil)
	require.NoError(t, err)

	sol, err := opt.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sol.Best)

	assert.Equal(t, 0, sol.Eval.Violations)
	assert.Equal(t, inst.TotalSessions(), len(sol.Best.Sessions))
	assert.Greater(t, sol.Evaluations, 0)
	assert.NotEmpty(t, sol.StopReason)

	// Structural coverage: every course carries exactly its weekly hours.
	counts := make([]int, len(inst.Courses))
	for _, s := range sol.Best.Sessions {
		counts[s.Course]++
	}
	for i, course := range inst.Courses {
		assert.Equal(t, course.WeeklyHours, counts[i], "course %s", course.Code)
	}
}

func TestOptimizerIsDeterministic(t *testing.T) {
	inst := searchFixture(t)

	run := func() Solution {
		opt, err := NewOptimizer(inst, searchSettings(), nil)
		require.NoError(t, err)
		sol, err := opt.Run(context.Background())
		require.NoError(t, err)
		return sol
	}

	first := run()
	second := run()

	assert.Equal(t, first.Eval, second.Eval)
	assert.Equal(t, first.Best.Sessions, second.Best.Sessions)
	assert.Equal(t, first.Generations, second.Generations)
	assert.Equal(t, first.StopReason, second.StopReason)
}

func TestOptimizerProgressNeverWorsens(t *testing.T) {
	inst := searchFixture(t)
	opt, err := NewOptimizer(inst, searchSettings(), nil)
	require.NoError(t, err)

	sol, err := opt.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, sol.Generations, len(sol.Progress))
	require.NotEmpty(t, sol.Progress)

	// Each generation keeps an untouched clone of the previous best, so the
	// per-generation best may only hold or improve.
	for i := 1; i < len(sol.Progress); i++ {
		prev, cur := sol.Progress[i-1], sol.Progress[i]
		assert.LessOrEqual(t, cur.Violations, prev.Violations, "generation %d", i)
		if cur.Violations == prev.Violations {
			assert.LessOrEqual(t, cur.SoftScore, prev.SoftScore, "generation %d", i)
		}
	}

	last := sol.Progress[len(sol.Progress)-1]
	assert.Equal(t, sol.Eval.Violations, last.Violations)
	assert.Equal(t, sol.Eval.SoftScore, last.SoftScore)
}

func TestOptimizerDeterministicAcrossWorkerCounts(t *testing.T) {
	inst := searchFixture(t)

	run := func(workers int) Solution {
		settings := searchSettings()
		settings.Workers = workers
		opt, err := NewOptimizer(inst, settings, nil)
		require.NoError(t, err)
		sol, err := opt.Run(context.Background())
		require.NoError(t, err)
		return sol
	}

	serial := run(1)
	parallel := run(4)
	assert.Equal(t, serial.Eval, parallel.Eval)
	assert.Equal(t, serial.Best.Sessions, parallel.Best.Sessions)
}

func TestOptimizerReportsCapacityInfeasibility(t *testing.T) {
	inst, err := domain.NewInstance(
		domain.Grid{Days: 5, SlotsPerDay: 4},
		[]domain.StudentGroup{{ID: "big", Size: 20}},
		[]domain.Course{{Code: "C1", WeeklyHours: 3, GroupIDs: []string{"big"}, LecturerIDs: []string{"L1"}}},
		[]domain.Lecturer{{ID: "L1"}},
		[]domain.Room{{ID: "small", Capacity: 15}},
	)
	require.NoError(t, err)

	settings := searchSettings()
	settings.EarlyStop.StallGenerations = 20
	opt, err := NewOptimizer(inst, settings, nil)
	require.NoError(t, err)

	sol, err := opt.Run(context.Background())
	require.NoError(t, err)

	// No room fits the group, so every session stays in violation; the run
	// still succeeds with a best-effort schedule.
	assert.Equal(t, 3, sol.Eval.CapacityViolations)
	assert.GreaterOrEqual(t, sol.Eval.Violations, 3)
}

func TestOptimizerHonoursCancellation(t *testing.T) {
	inst := searchFixture(t)
	opt, err := NewOptimizer(inst, searchSettings(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol, err := opt.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, StopCancelled, sol.StopReason)
	assert.Equal(t, 0, sol.Generations)
	require.NotNil(t, sol.Best)
	assert.Equal(t, inst.TotalSessions(), len(sol.Best.Sessions))
}

func TestOptimizerStopsOnTarget(t *testing.T) {
	inst := searchFixture(t)
	settings := searchSettings()
	settings.EarlyStop.SoftScoreTarget = 1e9
	settings.EarlyStop.StallGenerations = 0
	opt, err := NewOptimizer(inst, settings, nil)
	require.NoError(t, err)

	sol, err := opt.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StopTarget, sol.StopReason)
	assert.Less(t, sol.Generations, settings.Generations)
}

func TestNewOptimizerRejectsInvalidSettings(t *testing.T) {
	inst := searchFixture(t)
	settings := searchSettings()
	settings.PopulationSize = 1

	_, err := NewOptimizer(inst, settings, nil)
	assert.Error(t, err)
}
