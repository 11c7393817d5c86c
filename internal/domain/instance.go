package domain

import (
	"fmt"

	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
)

// Instance bundles the validated entity set for one run together with the
// lookup indexes the engine needs. It is immutable once built; the search
// only ever reads from it, so concurrent evaluation needs no locking.
type Instance struct {
	Grid      Grid
	Groups    []StudentGroup
	Courses   []Course
	Lecturers []Lecturer
	Rooms     []Room

	groupIdx    map[string]int
	lecturerIdx map[string]int

	courseGroups    [][]int
	courseGroupSize []int
	courseLecturers [][]int
	courseRooms     [][]int
	roomTypeMatch   [][]bool
	lecturerBlocked [][]bool

	totalSessions int
}

// NewInstance validates the entity set and builds the run indexes. Every
// violation of referential integrity is surfaced with a field-level reason
// before any search work happens.
func NewInstance(grid Grid, groups []StudentGroup, courses []Course, lecturers []Lecturer, rooms []Room) (*Instance, error) {
	if grid.Days < 1 || grid.SlotsPerDay < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "grid requires at least one day and one slot per day")
	}
	if len(courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one course is required")
	}
	if len(rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one room is required")
	}
	if len(lecturers) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one lecturer is required")
	}

	inst := &Instance{
		Grid:        grid,
		Groups:      groups,
		Courses:     courses,
		Lecturers:   lecturers,
		Rooms:       rooms,
		groupIdx:    make(map[string]int, len(groups)),
		lecturerIdx: make(map[string]int, len(lecturers)),
	}

	for i, g := range groups {
		if g.ID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("groups[%d]: id is required", i))
		}
		if _, dup := inst.groupIdx[g.ID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("groups[%d]: duplicate id %q", i, g.ID))
		}
		if g.Size <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("groups[%d] %q: size must be positive", i, g.ID))
		}
		inst.groupIdx[g.ID] = i
	}

	for i, l := range lecturers {
		if l.ID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("lecturers[%d]: id is required", i))
		}
		if _, dup := inst.lecturerIdx[l.ID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("lecturers[%d]: duplicate id %q", i, l.ID))
		}
		if l.MaxWeeklyHours < 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("lecturers[%d] %q: maxWeeklyHours must not be negative", i, l.ID))
		}
		for _, ref := range l.Unavailable {
			if !grid.Contains(ref) {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("lecturers[%d] %q: unavailable slot (day %d, slot %d) lies outside the grid", i, l.ID, ref.Day, ref.Slot))
			}
		}
		inst.lecturerIdx[l.ID] = i
	}

	roomIdx := make(map[string]int, len(rooms))
	for i, r := range rooms {
		if r.ID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rooms[%d]: id is required", i))
		}
		if _, dup := roomIdx[r.ID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rooms[%d]: duplicate id %q", i, r.ID))
		}
		if r.Capacity <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rooms[%d] %q: capacity must be positive", i, r.ID))
		}
		roomIdx[r.ID] = i
	}

	courseIdx := make(map[string]int, len(courses))
	inst.courseGroups = make([][]int, len(courses))
	inst.courseGroupSize = make([]int, len(courses))
	inst.courseLecturers = make([][]int, len(courses))
	inst.courseRooms = make([][]int, len(courses))
	inst.roomTypeMatch = make([][]bool, len(courses))

	for i, c := range courses {
		if c.Code == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("courses[%d]: code is required", i))
		}
		if _, dup := courseIdx[c.Code]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("courses[%d]: duplicate code %q", i, c.Code))
		}
		courseIdx[c.Code] = i
		if c.WeeklyHours < 1 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("courses[%d] %q: weeklyHours must be at least 1", i, c.Code))
		}
		inst.totalSessions += c.WeeklyHours

		for _, gid := range c.GroupIDs {
			gi, ok := inst.groupIdx[gid]
			if !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("courses[%d] %q: unknown group %q", i, c.Code, gid))
			}
			inst.courseGroups[i] = append(inst.courseGroups[i], gi)
			inst.courseGroupSize[i] += groups[gi].Size
		}

		for _, lid := range c.LecturerIDs {
			li, ok := inst.lecturerIdx[lid]
			if !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("courses[%d] %q: unknown lecturer %q", i, c.Code, lid))
			}
			inst.courseLecturers[i] = appendUnique(inst.courseLecturers[i], li)
		}
		// Lecturers may also declare teachable courses from their side.
		for li, l := range lecturers {
			for _, code := range l.CourseCodes {
				if code == c.Code {
					inst.courseLecturers[i] = appendUnique(inst.courseLecturers[i], li)
				}
			}
		}
		if len(inst.courseLecturers[i]) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("courses[%d] %q: at least one eligible lecturer is required", i, c.Code))
		}

		inst.roomTypeMatch[i] = make([]bool, len(rooms))
		for ri, r := range rooms {
			inst.roomTypeMatch[i][ri] = matchesRoomType(c.RoomTypes, r.Type)
			inst.courseRooms[i] = append(inst.courseRooms[i], ri)
		}
	}

	cells := grid.CellCount()
	inst.lecturerBlocked = make([][]bool, len(lecturers))
	for i, l := range lecturers {
		inst.lecturerBlocked[i] = make([]bool, cells)
		for _, ref := range l.Unavailable {
			inst.lecturerBlocked[i][grid.CellIndex(ref)] = true
		}
	}

	return inst, nil
}

// TotalSessions is the number of atomic sessions a candidate carries: one
// per required weekly hour per course.
func (in *Instance) TotalSessions() int {
	return in.totalSessions
}

// CourseGroups returns the group indexes enrolled in the course.
func (in *Instance) CourseGroups(course int) []int {
	return in.courseGroups[course]
}

// CourseGroupSize returns the combined enrolment of the course.
func (in *Instance) CourseGroupSize(course int) int {
	return in.courseGroupSize[course]
}

// CourseLecturers returns the eligible lecturer indexes for the course.
func (in *Instance) CourseLecturers(course int) []int {
	return in.courseLecturers[course]
}

// RoomMatches reports whether the room satisfies the course's room-type
// preference. An empty preference list matches every room.
func (in *Instance) RoomMatches(course, room int) bool {
	return in.roomTypeMatch[course][room]
}

// LecturerBlocked reports whether the lecturer is unavailable at the cell.
func (in *Instance) LecturerBlocked(lecturer, cell int) bool {
	return in.lecturerBlocked[lecturer][cell]
}

// LecturerEligible reports whether the lecturer may teach the course.
func (in *Instance) LecturerEligible(course, lecturer int) bool {
	for _, li := range in.courseLecturers[course] {
		if li == lecturer {
			return true
		}
	}
	return false
}

// EffectiveMaxHours resolves the weekly teaching cap for a lecturer: the
// per-lecturer cap when set, otherwise the run-wide maximum.
func (in *Instance) EffectiveMaxHours(lecturer, settingsMax int) int {
	limit := in.Lecturers[lecturer].MaxWeeklyHours
	if limit > 0 && limit < settingsMax {
		return limit
	}
	return settingsMax
}

func appendUnique(list []int, v int) []int {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func matchesRoomType(preferred []string, roomType string) bool {
	if len(preferred) == 0 {
		return true
	}
	for _, t := range preferred {
		if t == roomType {
			return true
		}
	}
	return false
}
