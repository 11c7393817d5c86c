package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
)

func validGrid() Grid {
	return Grid{Days: 5, SlotsPerDay: 4}
}

func validEntities() ([]StudentGroup, []Course, []Lecturer, []Room) {
	groups := []StudentGroup{
		{ID: "cs-100-a", Program: "CS", Level: "100", Size: 30},
		{ID: "cs-100-b", Program: "CS", Level: "100", Size: 25},
	}
	courses := []Course{
		{Code: "MATH101", Name: "Calculus I", WeeklyHours: 3, GroupIDs: []string{"cs-100-a", "cs-100-b"}, LecturerIDs: []string{"lec-1"}},
		{Code: "PHYS101", Name: "Physics I", WeeklyHours: 2, GroupIDs: []string{"cs-100-a"}, RoomTypes: []string{"lab"}, LecturerIDs: []string{"lec-2"}},
	}
	lecturers := []Lecturer{
		{ID: "lec-1", Name: "Dr. Adams", CourseCodes: []string{"MATH101"}},
		{ID: "lec-2", Name: "Dr. Baker", CourseCodes: []string{"PHYS101"}, Unavailable: []SlotRef{{Day: 1, Slot: 1}}},
	}
	rooms := []Room{
		{ID: "r-101", Capacity: 60, Type: "lecture"},
		{ID: "lab-1", Capacity: 40, Type: "lab"},
	}
	return groups, courses, lecturers, rooms
}

func TestNewInstanceBuildsIndexes(t *testing.T) {
	groups, courses, lecturers, rooms := validEntities()
	inst, err := NewInstance(validGrid(), groups, courses, lecturers, rooms)
	require.NoError(t, err)

	assert.Equal(t, 5, inst.TotalSessions())
	assert.Equal(t, []int{0, 1}, inst.CourseGroups(0))
	assert.Equal(t, 55, inst.CourseGroupSize(0))
	assert.Equal(t, []int{0}, inst.CourseLecturers(0))

	assert.True(t, inst.LecturerEligible(0, 0))
	assert.False(t, inst.LecturerEligible(0, 1))

	// PHYS101 wants a lab; r-101 is a lecture hall.
	assert.False(t, inst.RoomMatches(1, 0))
	assert.True(t, inst.RoomMatches(1, 1))
	// MATH101 has no preference and matches everything.
	assert.True(t, inst.RoomMatches(0, 0))
	assert.True(t, inst.RoomMatches(0, 1))

	blocked := inst.Grid.CellIndex(SlotRef{Day: 1, Slot: 1})
	assert.True(t, inst.LecturerBlocked(1, blocked))
	assert.False(t, inst.LecturerBlocked(0, blocked))
}

func TestNewInstanceRejectsUnknownReferences(t *testing.T) {
	groups, courses, lecturers, rooms := validEntities()

	bad := make([]Course, len(courses))
	copy(bad, courses)
	bad[0].GroupIDs = []string{"ghost"}
	_, err := NewInstance(validGrid(), groups, bad, lecturers, rooms)
	requireValidationError(t, err)

	copy(bad, courses)
	bad[1].LecturerIDs = []string{"nobody"}
	_, err = NewInstance(validGrid(), groups, bad, lecturers, rooms)
	requireValidationError(t, err)
}

func TestNewInstanceRejectsStructuralErrors(t *testing.T) {
	groups, courses, lecturers, rooms := validEntities()

	_, err := NewInstance(Grid{Days: 0, SlotsPerDay: 4}, groups, courses, lecturers, rooms)
	requireValidationError(t, err)

	dupGroups := append([]StudentGroup{}, groups...)
	dupGroups = append(dupGroups, groups[0])
	_, err = NewInstance(validGrid(), dupGroups, courses, lecturers, rooms)
	requireValidationError(t, err)

	noLect := make([]Course, len(courses))
	copy(noLect, courses)
	noLect[0].LecturerIDs = nil
	noCodes := make([]Lecturer, len(lecturers))
	copy(noCodes, lecturers)
	noCodes[0].CourseCodes = nil
	_, err = NewInstance(validGrid(), groups, noLect, noCodes, rooms)
	requireValidationError(t, err)

	badSlot := make([]Lecturer, len(lecturers))
	copy(badSlot, lecturers)
	badSlot[1].Unavailable = []SlotRef{{Day: 9, Slot: 1}}
	_, err = NewInstance(validGrid(), groups, courses, badSlot, rooms)
	requireValidationError(t, err)
}

func TestLecturerCourseCodesGrantEligibility(t *testing.T) {
	groups, courses, lecturers, rooms := validEntities()
	// lec-2 declares MATH101 from their side; the course itself only
	// lists lec-1.
	lecturers[1].CourseCodes = []string{"PHYS101", "MATH101"}
	inst, err := NewInstance(validGrid(), groups, courses, lecturers, rooms)
	require.NoError(t, err)

	assert.True(t, inst.LecturerEligible(0, 1))
	assert.Equal(t, []int{0, 1}, inst.CourseLecturers(0))
}

func TestEffectiveMaxHours(t *testing.T) {
	groups, courses, lecturers, rooms := validEntities()
	lecturers[0].MaxWeeklyHours = 10
	inst, err := NewInstance(validGrid(), groups, courses, lecturers, rooms)
	require.NoError(t, err)

	assert.Equal(t, 10, inst.EffectiveMaxHours(0, 20))
	assert.Equal(t, 20, inst.EffectiveMaxHours(1, 20))
	// A per-lecturer cap above the run-wide maximum never widens it.
	assert.Equal(t, 8, inst.EffectiveMaxHours(0, 8))
}

func TestSettingsValidate(t *testing.T) {
	base := Settings{
		MinHours:       4,
		MaxHours:       20,
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 5,
		EliteCount:     1,
		SeedAttempts:   50,
		RepairAttempts: 20,
		Weights:        DefaultWeights(),
	}
	require.NoError(t, base.Validate())

	cases := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"max below min", func(s *Settings) { s.MaxHours = 2 }},
		{"population too small", func(s *Settings) { s.PopulationSize = 1 }},
		{"no generations", func(s *Settings) { s.Generations = 0 }},
		{"mutation rate above one", func(s *Settings) { s.MutationRate = 1.5 }},
		{"elite count at population", func(s *Settings) { s.EliteCount = s.PopulationSize }},
		{"negative weight", func(s *Settings) { s.Weights.GapPenalty = -1 }},
		{"negative daily load weight", func(s *Settings) { s.Weights.DailyLoad = -1 }},
		{"negative course daily cap", func(s *Settings) { s.MaxCourseDailyHours = -1 }},
		{"negative lecturer daily cap", func(s *Settings) { s.MaxLecturerDailyHours = -1 }},
		{"negative stall", func(s *Settings) { s.EarlyStop.StallGenerations = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := base
			tc.mutate(&s)
			requireValidationError(t, s.Validate())
		})
	}
}

func requireValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
