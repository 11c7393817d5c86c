package engine

import (
	"github.com/noah-isme/timetable-engine/internal/domain"
)

// mismatchCost ranks a room-type mismatch strictly below a single hard
// conflict so least-violating fallbacks prefer a wrong room type over a
// double-booking.
const mismatchCost = 1

const hardConflictCost = 4

// dailyOverloadCost ranks stacking a course or a lecturer past their daily
// cap above a room mismatch but still below a hard conflict.
const dailyOverloadCost = 2

// tracker maintains incremental room/lecturer/group occupancy so the
// seeder, mutator and repairer can score a placement without re-scanning
// the whole candidate.
type tracker struct {
	inst     *domain.Instance
	settings domain.Settings
	cells    int
	days     int

	roomBusy      []int
	lecturerBusy  []int
	groupBusy     []int
	courseDaily   []int
	lecturerDaily []int
}

func newTracker(inst *domain.Instance, settings domain.Settings) *tracker {
	cells := inst.Grid.CellCount()
	days := inst.Grid.Days
	return &tracker{
		inst:          inst,
		settings:      settings,
		cells:         cells,
		days:          days,
		roomBusy:      make([]int, len(inst.Rooms)*cells),
		lecturerBusy:  make([]int, len(inst.Lecturers)*cells),
		groupBusy:     make([]int, len(inst.Groups)*cells),
		courseDaily:   make([]int, len(inst.Courses)*days),
		lecturerDaily: make([]int, len(inst.Lecturers)*days),
	}
}

// load resets the tracker and replays every session of the candidate.
func (t *tracker) load(c *Candidate) {
	clear(t.roomBusy)
	clear(t.lecturerBusy)
	clear(t.groupBusy)
	clear(t.courseDaily)
	clear(t.lecturerDaily)
	for _, s := range c.Sessions {
		t.place(s)
	}
}

func (t *tracker) cell(s Session) int {
	return t.inst.Grid.CellIndex(domain.SlotRef{Day: s.Day, Slot: s.Slot})
}

func (t *tracker) place(s Session) {
	cell := t.cell(s)
	t.roomBusy[s.Room*t.cells+cell]++
	t.lecturerBusy[s.Lecturer*t.cells+cell]++
	for _, g := range t.inst.CourseGroups(s.Course) {
		t.groupBusy[g*t.cells+cell]++
	}
	t.courseDaily[s.Course*t.days+s.Day-1]++
	t.lecturerDaily[s.Lecturer*t.days+s.Day-1]++
}

func (t *tracker) remove(s Session) {
	cell := t.cell(s)
	t.roomBusy[s.Room*t.cells+cell]--
	t.lecturerBusy[s.Lecturer*t.cells+cell]--
	for _, g := range t.inst.CourseGroups(s.Course) {
		t.groupBusy[g*t.cells+cell]--
	}
	t.courseDaily[s.Course*t.days+s.Day-1]--
	t.lecturerDaily[s.Lecturer*t.days+s.Day-1]--
}

// conflicts counts the hard violations placing s would introduce against
// the occupancy currently tracked. The session itself must not be placed.
func (t *tracker) conflicts(s Session) int {
	cell := t.cell(s)
	count := 0
	if t.roomBusy[s.Room*t.cells+cell] > 0 {
		count++
	}
	if t.lecturerBusy[s.Lecturer*t.cells+cell] > 0 {
		count++
	}
	for _, g := range t.inst.CourseGroups(s.Course) {
		if t.groupBusy[g*t.cells+cell] > 0 {
			count++
		}
	}
	if t.inst.Rooms[s.Room].Capacity < t.inst.CourseGroupSize(s.Course) {
		count++
	}
	if !t.inst.LecturerEligible(s.Course, s.Lecturer) || t.inst.LecturerBlocked(s.Lecturer, cell) {
		count++
	}
	return count
}

// cost scores a placement for least-violating selection: hard conflicts
// dominate, daily overloads and room-type mismatches break ties among
// equally conflicting options.
func (t *tracker) cost(s Session) int {
	cost := hardConflictCost * t.conflicts(s)
	if !t.inst.RoomMatches(s.Course, s.Room) {
		cost += mismatchCost
	}
	day := s.Day - 1
	if limit := t.settings.MaxCourseDailyHours; limit > 0 && t.courseDaily[s.Course*t.days+day] >= limit {
		cost += dailyOverloadCost
	}
	if limit := t.settings.MaxLecturerDailyHours; limit > 0 && t.lecturerDaily[s.Lecturer*t.days+day] >= limit {
		cost += dailyOverloadCost
	}
	return cost
}
