package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeederKeepsFullCoverage(t *testing.T) {
	inst := searchFixture(t)
	settings := searchSettings()
	lay := newLayout(inst)
	seeder := newSeeder(inst, settings, lay)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 10; i++ {
		c := seeder.seed(rng)
		require.Len(t, c.Sessions, inst.TotalSessions())
		counts := make([]int, len(inst.Courses))
		for _, s := range c.Sessions {
			counts[s.Course]++
			assert.GreaterOrEqual(t, s.Day, 1)
			assert.LessOrEqual(t, s.Day, inst.Grid.Days)
			assert.GreaterOrEqual(t, s.Slot, 1)
			assert.LessOrEqual(t, s.Slot, inst.Grid.SlotsPerDay)
			assert.True(t, inst.LecturerEligible(s.Course, s.Lecturer))
		}
		for ci, course := range inst.Courses {
			assert.Equal(t, course.WeeklyHours, counts[ci])
		}
	}
}

func TestSeederSolvesEasyInstanceCleanly(t *testing.T) {
	inst := searchFixture(t)
	settings := searchSettings()
	seeder := newSeeder(inst, settings, newLayout(inst))
	evaluator := NewEvaluator(inst, settings)
	rng := rand.New(rand.NewSource(1))

	c := seeder.seed(rng)
	ev := evaluator.Evaluate(c)
	assert.Equal(t, 0, ev.Violations)
}

func TestCrossoverPreservesCourseBlocks(t *testing.T) {
	inst := searchFixture(t)
	settings := searchSettings()
	lay := newLayout(inst)
	pop := newPopulation(inst, settings, lay)
	seeder := newSeeder(inst, settings, lay)
	rng := rand.New(rand.NewSource(3))

	a := seeder.seed(rng)
	b := seeder.seed(rng)
	child := pop.crossover(a, b, rng)

	require.Len(t, child.Sessions, lay.total)
	for course := range inst.Courses {
		start, end := lay.span(course)
		fromA := equalSessions(child.Sessions[start:end], a.Sessions[start:end])
		fromB := equalSessions(child.Sessions[start:end], b.Sessions[start:end])
		assert.True(t, fromA || fromB, "course %d block must come whole from one parent", course)
		for pos := start; pos < end; pos++ {
			assert.Equal(t, course, child.Sessions[pos].Course)
		}
	}
}

func TestRepairResolvesDoubleBooking(t *testing.T) {
	inst := searchFixture(t)
	settings := searchSettings()
	evaluator := NewEvaluator(inst, settings)
	repairer := newRepairer(inst, settings)
	rng := rand.New(rand.NewSource(11))

	// All five sessions piled onto the same cell.
	c := newLayout(inst).emptyCandidate(inst)
	for i := range c.Sessions {
		course := c.Sessions[i].Course
		c.Sessions[i] = Session{
			Course:   course,
			Lecturer: inst.CourseLecturers(course)[0],
			Room:     0,
			Day:      1,
			Slot:     1,
		}
	}
	before := evaluator.Evaluate(c)
	require.Greater(t, before.Violations, 0)

	repairer.repair(c, rng)
	after := evaluator.Evaluate(c)
	assert.Less(t, after.Violations, before.Violations)
}

func TestMutateKeepsCourseAssignment(t *testing.T) {
	inst := searchFixture(t)
	settings := searchSettings()
	settings.MutationRate = 1.0
	lay := newLayout(inst)
	pop := newPopulation(inst, settings, lay)
	seeder := newSeeder(inst, settings, lay)
	rng := rand.New(rand.NewSource(5))

	c := seeder.seed(rng)
	pop.mutate(c, rng)

	counts := make([]int, len(inst.Courses))
	for _, s := range c.Sessions {
		counts[s.Course]++
	}
	for ci, course := range inst.Courses {
		assert.Equal(t, course.WeeklyHours, counts[ci])
	}
}

func equalSessions(a, b []Session) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
