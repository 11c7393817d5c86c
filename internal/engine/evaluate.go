package engine

import (
	"github.com/noah-isme/timetable-engine/internal/domain"
)

// Evaluation is the fitness of one candidate. Candidates rank first by
// ascending Violations, then by ascending SoftScore; a candidate with any
// hard violation is infeasible regardless of its soft score.
type Evaluation struct {
	Violations int

	RoomClashes           int
	LecturerClashes       int
	GroupClashes          int
	CapacityViolations    int
	EligibilityViolations int
	CoverageViolations    int

	SoftScore float64

	WorkloadVariance     float64
	GroupGapSlots        int
	RoomMismatches       int
	WorkloadOverrun      int
	CourseDailyOverrun   int
	LecturerDailyOverrun int
}

// Better reports whether e outranks other: feasibility first, soft score
// second. Equal pairs compare false on both sides; callers break the tie
// by keeping the earlier candidate.
func (e Evaluation) Better(other Evaluation) bool {
	if e.Violations != other.Violations {
		return e.Violations < other.Violations
	}
	return e.SoftScore < other.SoftScore
}

// Evaluator scores candidates against the immutable instance. Evaluate is
// pure: it allocates its own scratch state per call, so a population's
// fitness pass may run on any number of workers concurrently.
type Evaluator struct {
	inst     *domain.Instance
	settings domain.Settings
}

func NewEvaluator(inst *domain.Instance, settings domain.Settings) *Evaluator {
	return &Evaluator{inst: inst, settings: settings}
}

// Evaluate computes hard-violation counts for the schedule invariants and
// the weighted soft score.
func (e *Evaluator) Evaluate(c *Candidate) Evaluation {
	inst := e.inst
	cells := inst.Grid.CellCount()

	roomOcc := make([]int, len(inst.Rooms)*cells)
	lecturerOcc := make([]int, len(inst.Lecturers)*cells)
	groupOcc := make([]int, len(inst.Groups)*cells)
	lecturerHours := make([]int, len(inst.Lecturers))
	courseHours := make([]int, len(inst.Courses))
	days := inst.Grid.Days
	courseDaily := make([]int, len(inst.Courses)*days)
	lecturerDaily := make([]int, len(inst.Lecturers)*days)

	var ev Evaluation

	for _, s := range c.Sessions {
		ref := domain.SlotRef{Day: s.Day, Slot: s.Slot}
		if !inst.Grid.Contains(ref) {
			// A session off the grid covers nothing; it is reported as
			// missing coverage below rather than dropped silently.
			continue
		}
		cell := inst.Grid.CellIndex(ref)

		if roomOcc[s.Room*cells+cell] > 0 {
			ev.RoomClashes++
		}
		roomOcc[s.Room*cells+cell]++

		if lecturerOcc[s.Lecturer*cells+cell] > 0 {
			ev.LecturerClashes++
		}
		lecturerOcc[s.Lecturer*cells+cell]++

		for _, g := range inst.CourseGroups(s.Course) {
			if groupOcc[g*cells+cell] > 0 {
				ev.GroupClashes++
			}
			groupOcc[g*cells+cell]++
		}

		if inst.Rooms[s.Room].Capacity < inst.CourseGroupSize(s.Course) {
			ev.CapacityViolations++
		}
		if !inst.LecturerEligible(s.Course, s.Lecturer) || inst.LecturerBlocked(s.Lecturer, cell) {
			ev.EligibilityViolations++
		}
		if !inst.RoomMatches(s.Course, s.Room) {
			ev.RoomMismatches++
		}

		lecturerHours[s.Lecturer]++
		courseHours[s.Course]++
		courseDaily[s.Course*days+s.Day-1]++
		lecturerDaily[s.Lecturer*days+s.Day-1]++
	}

	for i, course := range inst.Courses {
		diff := courseHours[i] - course.WeeklyHours
		if diff < 0 {
			diff = -diff
		}
		ev.CoverageViolations += diff
	}

	ev.WorkloadVariance = hoursVariance(lecturerHours)
	ev.GroupGapSlots = groupGaps(inst, groupOcc)

	for li, hours := range lecturerHours {
		if hours < e.settings.MinHours {
			ev.WorkloadOverrun += e.settings.MinHours - hours
		}
		if limit := inst.EffectiveMaxHours(li, e.settings.MaxHours); hours > limit {
			ev.WorkloadOverrun += hours - limit
		}
	}

	if limit := e.settings.MaxCourseDailyHours; limit > 0 {
		for _, n := range courseDaily {
			if n > limit {
				ev.CourseDailyOverrun += n - limit
			}
		}
	}
	if limit := e.settings.MaxLecturerDailyHours; limit > 0 {
		for _, n := range lecturerDaily {
			if n > limit {
				ev.LecturerDailyOverrun += n - limit
			}
		}
	}

	ev.Violations = ev.RoomClashes + ev.LecturerClashes + ev.GroupClashes +
		ev.CapacityViolations + ev.EligibilityViolations + ev.CoverageViolations

	w := e.settings.Weights
	ev.SoftScore = w.WorkloadBalance*ev.WorkloadVariance +
		w.GapPenalty*float64(ev.GroupGapSlots) +
		w.RoomPreference*float64(ev.RoomMismatches) +
		w.WorkloadBounds*float64(ev.WorkloadOverrun) +
		w.DailyLoad*float64(ev.CourseDailyOverrun+ev.LecturerDailyOverrun)

	return ev
}

// CourseViolations attributes the candidate's hard violations to courses
// so the coverage report can mark which modules remain in conflict. Every
// session participating in a double-booking is charged, on both sides.
func (e *Evaluator) CourseViolations(c *Candidate) []int {
	inst := e.inst
	cells := inst.Grid.CellCount()

	roomOcc := make([]int, len(inst.Rooms)*cells)
	lecturerOcc := make([]int, len(inst.Lecturers)*cells)
	groupOcc := make([]int, len(inst.Groups)*cells)
	courseHours := make([]int, len(inst.Courses))

	for _, s := range c.Sessions {
		ref := domain.SlotRef{Day: s.Day, Slot: s.Slot}
		if !inst.Grid.Contains(ref) {
			continue
		}
		cell := inst.Grid.CellIndex(ref)
		roomOcc[s.Room*cells+cell]++
		lecturerOcc[s.Lecturer*cells+cell]++
		for _, g := range inst.CourseGroups(s.Course) {
			groupOcc[g*cells+cell]++
		}
		courseHours[s.Course]++
	}

	perCourse := make([]int, len(inst.Courses))
	for _, s := range c.Sessions {
		ref := domain.SlotRef{Day: s.Day, Slot: s.Slot}
		if !inst.Grid.Contains(ref) {
			continue
		}
		cell := inst.Grid.CellIndex(ref)
		if roomOcc[s.Room*cells+cell] > 1 {
			perCourse[s.Course]++
		}
		if lecturerOcc[s.Lecturer*cells+cell] > 1 {
			perCourse[s.Course]++
		}
		for _, g := range inst.CourseGroups(s.Course) {
			if groupOcc[g*cells+cell] > 1 {
				perCourse[s.Course]++
			}
		}
		if inst.Rooms[s.Room].Capacity < inst.CourseGroupSize(s.Course) {
			perCourse[s.Course]++
		}
		if !inst.LecturerEligible(s.Course, s.Lecturer) || inst.LecturerBlocked(s.Lecturer, cell) {
			perCourse[s.Course]++
		}
	}

	for i, course := range inst.Courses {
		diff := courseHours[i] - course.WeeklyHours
		if diff < 0 {
			diff = -diff
		}
		perCourse[i] += diff
	}
	return perCourse
}

func hoursVariance(hours []int) float64 {
	if len(hours) == 0 {
		return 0
	}
	var sum float64
	for _, h := range hours {
		sum += float64(h)
	}
	mean := sum / float64(len(hours))
	var acc float64
	for _, h := range hours {
		d := float64(h) - mean
		acc += d * d
	}
	return acc / float64(len(hours))
}

// groupGaps counts idle slots sandwiched between a group's sessions on the
// same day, summed over all groups and days.
func groupGaps(inst *domain.Instance, groupOcc []int) int {
	cells := inst.Grid.CellCount()
	gaps := 0
	for g := range inst.Groups {
		for day := 1; day <= inst.Grid.Days; day++ {
			first, last, occupied := -1, -1, 0
			for slot := 1; slot <= inst.Grid.SlotsPerDay; slot++ {
				cell := inst.Grid.CellIndex(domain.SlotRef{Day: day, Slot: slot})
				if groupOcc[g*cells+cell] > 0 {
					if first == -1 {
						first = slot
					}
					last = slot
					occupied++
				}
			}
			if occupied > 1 {
				gaps += (last - first + 1) - occupied
			}
		}
	}
	return gaps
}
