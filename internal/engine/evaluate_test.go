package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-engine/internal/domain"
)

// evalFixture is a one-day instance small enough to reason about by hand:
// C1 needs two hours for group gA, C2 needs one shared hour for gA and gB.
func evalFixture(t *testing.T) *domain.Instance {
	t.Helper()
	inst, err := domain.NewInstance(
		domain.Grid{Days: 1, SlotsPerDay: 4},
		[]domain.StudentGroup{
			{ID: "gA", Size: 10},
			{ID: "gB", Size: 10},
		},
		[]domain.Course{
			{Code: "C1", WeeklyHours: 2, GroupIDs: []string{"gA"}, LecturerIDs: []string{"L1", "L2"}},
			{Code: "C2", WeeklyHours: 1, GroupIDs: []string{"gA", "gB"}, LecturerIDs: []string{"L2"}},
		},
		[]domain.Lecturer{
			{ID: "L1", Name: "Dr. One"},
			{ID: "L2", Name: "Dr. Two", Unavailable: []domain.SlotRef{{Day: 1, Slot: 4}}},
		},
		[]domain.Room{
			{ID: "R1", Capacity: 20, Type: "lecture"},
			{ID: "R2", Capacity: 8, Type: "lab"},
		},
	)
	require.NoError(t, err)
	return inst
}

func evalSettings() domain.Settings {
	return domain.Settings{
		MinHours:       0,
		MaxHours:       20,
		PopulationSize: 10,
		Generations:    10,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     1,
		SeedAttempts:   50,
		RepairAttempts: 10,
		Weights:        domain.DefaultWeights(),
	}
}

func TestEvaluateFeasibleCandidate(t *testing.T) {
	inst := evalFixture(t)
	ev := NewEvaluator(inst, evalSettings()).Evaluate(&Candidate{Sessions: []Session{
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 1},
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 2},
		{Course: 1, Lecturer: 1, Room: 0, Day: 1, Slot: 3},
	}})

	assert.Equal(t, 0, ev.Violations)
	assert.Equal(t, 0, ev.RoomClashes)
	assert.Equal(t, 0, ev.LecturerClashes)
	assert.Equal(t, 0, ev.GroupClashes)
	assert.Equal(t, 0, ev.CapacityViolations)
	assert.Equal(t, 0, ev.EligibilityViolations)
	assert.Equal(t, 0, ev.CoverageViolations)

	assert.Equal(t, 0, ev.GroupGapSlots)
	assert.Equal(t, 0, ev.RoomMismatches)
	assert.Equal(t, 0, ev.WorkloadOverrun)
	// L1 teaches two hours, L2 one: variance of {2, 1} is 0.25.
	assert.InDelta(t, 0.25, ev.WorkloadVariance, 1e-9)
	assert.InDelta(t, 0.25*evalSettings().Weights.WorkloadBalance, ev.SoftScore, 1e-9)
}

func TestEvaluateCountsClashes(t *testing.T) {
	inst := evalFixture(t)
	ev := NewEvaluator(inst, evalSettings()).Evaluate(&Candidate{Sessions: []Session{
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 1},
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 1},
		{Course: 1, Lecturer: 1, Room: 1, Day: 1, Slot: 2},
	}})

	assert.Equal(t, 1, ev.RoomClashes)
	assert.Equal(t, 1, ev.LecturerClashes)
	assert.Equal(t, 1, ev.GroupClashes)
	// C2's combined enrolment of 20 does not fit the 8-seat R2.
	assert.Equal(t, 1, ev.CapacityViolations)
	assert.Equal(t, 0, ev.EligibilityViolations)
	assert.Equal(t, 0, ev.CoverageViolations)
	assert.Equal(t, 4, ev.Violations)
}

func TestEvaluateEligibilityAndAvailability(t *testing.T) {
	inst := evalFixture(t)
	ev := NewEvaluator(inst, evalSettings()).Evaluate(&Candidate{Sessions: []Session{
		{Course: 0, Lecturer: 1, Room: 0, Day: 1, Slot: 1},
		// L2 is unavailable in slot 4.
		{Course: 0, Lecturer: 1, Room: 0, Day: 1, Slot: 4},
		// L1 is not eligible for C2.
		{Course: 1, Lecturer: 0, Room: 0, Day: 1, Slot: 3},
	}})

	assert.Equal(t, 2, ev.EligibilityViolations)
	assert.Equal(t, 2, ev.Violations)
	// gA meets in slots 1, 3 and 4: one idle slot in between.
	assert.Equal(t, 1, ev.GroupGapSlots)
}

func TestEvaluateCoverage(t *testing.T) {
	inst := evalFixture(t)
	evaluator := NewEvaluator(inst, evalSettings())

	short := evaluator.Evaluate(&Candidate{Sessions: []Session{
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 1},
		{Course: 1, Lecturer: 1, Room: 0, Day: 1, Slot: 2},
	}})
	assert.Equal(t, 1, short.CoverageViolations)

	// A session outside the grid covers nothing.
	offGrid := evaluator.Evaluate(&Candidate{Sessions: []Session{
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 1},
		{Course: 0, Lecturer: 0, Room: 0, Day: 2, Slot: 1},
		{Course: 1, Lecturer: 1, Room: 0, Day: 1, Slot: 2},
	}})
	assert.Equal(t, 1, offGrid.CoverageViolations)
	assert.Equal(t, 1, offGrid.Violations)
}

func TestEvaluateRoomMismatchIsSoft(t *testing.T) {
	inst, err := domain.NewInstance(
		domain.Grid{Days: 1, SlotsPerDay: 4},
		[]domain.StudentGroup{{ID: "gA", Size: 10}},
		[]domain.Course{{Code: "C1", WeeklyHours: 1, GroupIDs: []string{"gA"}, RoomTypes: []string{"lab"}, LecturerIDs: []string{"L1"}}},
		[]domain.Lecturer{{ID: "L1"}},
		[]domain.Room{{ID: "R1", Capacity: 20, Type: "lecture"}},
	)
	require.NoError(t, err)

	settings := evalSettings()
	ev := NewEvaluator(inst, settings).Evaluate(&Candidate{Sessions: []Session{
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 1},
	}})

	assert.Equal(t, 0, ev.Violations)
	assert.Equal(t, 1, ev.RoomMismatches)
	assert.GreaterOrEqual(t, ev.SoftScore, settings.Weights.RoomPreference)
}

// dailyFixture gives one course four weekly hours over two days so daily
// caps have room to bite: stacked on one day or spread over both.
func dailyFixture(t *testing.T) *domain.Instance {
	t.Helper()
	inst, err := domain.NewInstance(
		domain.Grid{Days: 2, SlotsPerDay: 4},
		[]domain.StudentGroup{{ID: "gA", Size: 10}},
		[]domain.Course{{Code: "C1", WeeklyHours: 4, GroupIDs: []string{"gA"}, LecturerIDs: []string{"L1"}}},
		[]domain.Lecturer{{ID: "L1"}},
		[]domain.Room{{ID: "R1", Capacity: 20, Type: "lecture"}},
	)
	require.NoError(t, err)
	return inst
}

func TestEvaluateDailyOverruns(t *testing.T) {
	inst := dailyFixture(t)
	settings := evalSettings()
	settings.MaxCourseDailyHours = 2
	settings.MaxLecturerDailyHours = 3

	stacked := &Candidate{Sessions: []Session{
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 1},
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 2},
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 3},
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 4},
	}}

	ev := NewEvaluator(inst, settings).Evaluate(stacked)
	assert.Equal(t, 0, ev.Violations)
	// Four C1 hours on one day against a cap of two, and four teaching
	// hours for L1 against a cap of three.
	assert.Equal(t, 2, ev.CourseDailyOverrun)
	assert.Equal(t, 1, ev.LecturerDailyOverrun)
	assert.InDelta(t, settings.Weights.DailyLoad*3, ev.SoftScore, 1e-9)

	spread := &Candidate{Sessions: []Session{
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 1},
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 2},
		{Course: 0, Lecturer: 0, Room: 0, Day: 2, Slot: 1},
		{Course: 0, Lecturer: 0, Room: 0, Day: 2, Slot: 2},
	}}
	ev = NewEvaluator(inst, settings).Evaluate(spread)
	assert.Equal(t, 0, ev.CourseDailyOverrun)
	assert.Equal(t, 0, ev.LecturerDailyOverrun)

	// A zero cap disables the respective check entirely.
	settings.MaxCourseDailyHours = 0
	settings.MaxLecturerDailyHours = 0
	ev = NewEvaluator(inst, settings).Evaluate(stacked)
	assert.Equal(t, 0, ev.CourseDailyOverrun)
	assert.Equal(t, 0, ev.LecturerDailyOverrun)
}

func TestPlacementCostAvoidsDailyStacking(t *testing.T) {
	inst := dailyFixture(t)
	settings := evalSettings()
	settings.MaxCourseDailyHours = 2
	settings.MaxLecturerDailyHours = 3

	tr := newTracker(inst, settings)
	tr.place(Session{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 1})
	tr.place(Session{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 2})

	sameDay := tr.cost(Session{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 3})
	nextDay := tr.cost(Session{Course: 0, Lecturer: 0, Room: 0, Day: 2, Slot: 1})

	assert.Equal(t, 0, nextDay)
	assert.Greater(t, sameDay, nextDay)
	// The overload penalty stays below a single hard conflict.
	assert.Less(t, sameDay, hardConflictCost)
}

func TestEvaluateIsPure(t *testing.T) {
	inst := evalFixture(t)
	evaluator := NewEvaluator(inst, evalSettings())
	c := &Candidate{Sessions: []Session{
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 1},
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 1},
		{Course: 1, Lecturer: 1, Room: 0, Day: 1, Slot: 2},
	}}

	first := evaluator.Evaluate(c)
	second := evaluator.Evaluate(c)
	assert.Equal(t, first, second)
}

func TestCourseViolationsChargesBothSides(t *testing.T) {
	inst := evalFixture(t)
	evaluator := NewEvaluator(inst, evalSettings())

	perCourse := evaluator.CourseViolations(&Candidate{Sessions: []Session{
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 1},
		{Course: 0, Lecturer: 0, Room: 0, Day: 1, Slot: 2},
		{Course: 1, Lecturer: 1, Room: 0, Day: 1, Slot: 1},
	}})

	require.Len(t, perCourse, 2)
	// C1 and C2 double-book R1 in slot 1 and share group gA there.
	assert.Greater(t, perCourse[0], 0)
	assert.Greater(t, perCourse[1], 0)
}

func TestBetterRanksFeasibilityFirst(t *testing.T) {
	feasible := Evaluation{Violations: 0, SoftScore: 99}
	infeasible := Evaluation{Violations: 1, SoftScore: 0}
	assert.True(t, feasible.Better(infeasible))
	assert.False(t, infeasible.Better(feasible))

	a := Evaluation{Violations: 0, SoftScore: 1}
	b := Evaluation{Violations: 0, SoftScore: 2}
	assert.True(t, a.Better(b))
	assert.False(t, b.Better(a))

	// Equal evaluations rank neither above the other.
	assert.False(t, a.Better(a))
}
