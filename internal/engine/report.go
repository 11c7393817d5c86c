package engine

import (
	"sort"

	"github.com/noah-isme/timetable-engine/internal/domain"
)

// StatusComplete and StatusIncomplete mark lecturer workload health in the
// final report.
const (
	StatusComplete   = "complete"
	StatusIncomplete = "incomplete"
)

// GridCell describes one session as seen from a room's weekly grid.
type GridCell struct {
	Course     string
	CourseName string
	Lecturer   string
	Groups     []string
}

// RoomGrid is a room's week: Cells[day-1][slot-1] holds every session
// scheduled there. More than one entry in a cell is a double-booking left
// in the best candidate; it is reported rather than dropped.
type RoomGrid struct {
	RoomID   string
	RoomType string
	Capacity int
	Cells    [][][]GridCell
}

// SlotDetail is one teaching hour on a lecturer's personal schedule.
type SlotDetail struct {
	Day    int
	Slot   int
	Module string
	Room   string
	Groups []string
}

// LecturerStat summarises one lecturer's workload in the final schedule.
type LecturerStat struct {
	LecturerID     string
	Name           string
	ScheduledHours int
	RequiredHours  int
	Status         string
	Slots          []SlotDetail
}

// CourseCoverage reports how much of a course's weekly demand was met and
// how many hard violations remain attached to its sessions.
type CourseCoverage struct {
	Code           string
	Name           string
	RequiredHours  int
	ScheduledHours int
	Violations     int
}

// Report is the engine's only output: the room-wise grids, the per-lecturer
// statistics and the course coverage summary built from the best candidate.
type Report struct {
	RoomGrids []RoomGrid
	Lecturers []LecturerStat
	Courses   []CourseCoverage
}

// ReportBuilder converts a final candidate into a Report. Building is a
// pure transformation with stable ordering, so the same candidate always
// produces an identical report.
type ReportBuilder struct {
	inst      *domain.Instance
	settings  domain.Settings
	evaluator *Evaluator
}

func NewReportBuilder(inst *domain.Instance, settings domain.Settings) *ReportBuilder {
	return &ReportBuilder{
		inst:      inst,
		settings:  settings,
		evaluator: NewEvaluator(inst, settings),
	}
}

// Build assembles the report for the candidate.
func (b *ReportBuilder) Build(c *Candidate) *Report {
	inst := b.inst

	grids := make([]RoomGrid, len(inst.Rooms))
	for ri, room := range inst.Rooms {
		cells := make([][][]GridCell, inst.Grid.Days)
		for d := range cells {
			cells[d] = make([][]GridCell, inst.Grid.SlotsPerDay)
		}
		grids[ri] = RoomGrid{RoomID: room.ID, RoomType: room.Type, Capacity: room.Capacity, Cells: cells}
	}

	lecturerSlots := make([][]SlotDetail, len(inst.Lecturers))
	lecturerCourses := make([]map[int]bool, len(inst.Lecturers))
	scheduled := make([]int, len(inst.Lecturers))
	courseHours := make([]int, len(inst.Courses))

	for _, s := range c.Sessions {
		ref := domain.SlotRef{Day: s.Day, Slot: s.Slot}
		if !inst.Grid.Contains(ref) {
			continue
		}
		course := inst.Courses[s.Course]
		groups := b.groupNames(s.Course)

		grids[s.Room].Cells[s.Day-1][s.Slot-1] = append(grids[s.Room].Cells[s.Day-1][s.Slot-1], GridCell{
			Course:     course.Code,
			CourseName: course.Name,
			Lecturer:   inst.Lecturers[s.Lecturer].Name,
			Groups:     groups,
		})

		lecturerSlots[s.Lecturer] = append(lecturerSlots[s.Lecturer], SlotDetail{
			Day:    s.Day,
			Slot:   s.Slot,
			Module: course.Code,
			Room:   inst.Rooms[s.Room].ID,
			Groups: groups,
		})
		if lecturerCourses[s.Lecturer] == nil {
			lecturerCourses[s.Lecturer] = make(map[int]bool)
		}
		lecturerCourses[s.Lecturer][s.Course] = true
		scheduled[s.Lecturer]++
		courseHours[s.Course]++
	}

	for ri := range grids {
		sortGrid(&grids[ri])
	}

	stats := make([]LecturerStat, len(inst.Lecturers))
	for li, lecturer := range inst.Lecturers {
		slots := lecturerSlots[li]
		sort.SliceStable(slots, func(i, j int) bool {
			if slots[i].Day != slots[j].Day {
				return slots[i].Day < slots[j].Day
			}
			if slots[i].Slot != slots[j].Slot {
				return slots[i].Slot < slots[j].Slot
			}
			return slots[i].Module < slots[j].Module
		})

		required := 0
		for course := range lecturerCourses[li] {
			required += inst.Courses[course].WeeklyHours
		}

		stats[li] = LecturerStat{
			LecturerID:     lecturer.ID,
			Name:           lecturer.Name,
			ScheduledHours: scheduled[li],
			RequiredHours:  required,
			Status:         b.lecturerStatus(li, scheduled[li], required),
			Slots:          slots,
		}
	}

	perCourse := b.evaluator.CourseViolations(c)
	coverage := make([]CourseCoverage, len(inst.Courses))
	for ci, course := range inst.Courses {
		coverage[ci] = CourseCoverage{
			Code:           course.Code,
			Name:           course.Name,
			RequiredHours:  course.WeeklyHours,
			ScheduledHours: courseHours[ci],
			Violations:     perCourse[ci],
		}
	}

	return &Report{RoomGrids: grids, Lecturers: stats, Courses: coverage}
}

// lecturerStatus applies the workload contract: every hour of the courses a
// lecturer teaches must be covered by that lecturer, and the weekly total
// must stay within the configured bounds.
func (b *ReportBuilder) lecturerStatus(lecturer, scheduledHours, requiredHours int) string {
	if scheduledHours != requiredHours {
		return StatusIncomplete
	}
	if scheduledHours < b.settings.MinHours {
		return StatusIncomplete
	}
	if scheduledHours > b.inst.EffectiveMaxHours(lecturer, b.settings.MaxHours) {
		return StatusIncomplete
	}
	return StatusComplete
}

func (b *ReportBuilder) groupNames(course int) []string {
	idxs := b.inst.CourseGroups(course)
	names := make([]string, 0, len(idxs))
	for _, gi := range idxs {
		names = append(names, b.inst.Groups[gi].ID)
	}
	sort.Strings(names)
	return names
}

func sortGrid(grid *RoomGrid) {
	for d := range grid.Cells {
		for s := range grid.Cells[d] {
			cell := grid.Cells[d][s]
			sort.SliceStable(cell, func(i, j int) bool {
				if cell[i].Course != cell[j].Course {
					return cell[i].Course < cell[j].Course
				}
				return cell[i].Lecturer < cell[j].Lecturer
			})
		}
	}
}
