package engine

import (
	"github.com/noah-isme/timetable-engine/internal/domain"
)

// Session is one atomic teaching hour pinned to a (day, slot, room,
// lecturer) tuple. Course, Lecturer and Room are indexes into the Instance;
// Day and Slot are 1-based grid coordinates.
type Session struct {
	Course   int
	Lecturer int
	Room     int
	Day      int
	Slot     int
}

// Candidate is one complete, possibly infeasible assignment of every
// session required by the instance. It is the unit evolved by the search.
type Candidate struct {
	Sessions []Session
}

// Clone returns a deep copy safe to mutate independently.
func (c *Candidate) Clone() *Candidate {
	sessions := make([]Session, len(c.Sessions))
	copy(sessions, c.Sessions)
	return &Candidate{Sessions: sessions}
}

// layout fixes the course-major ordering of candidate sessions: course i
// owns positions [offsets[i], offsets[i]+WeeklyHours). Keeping the layout
// identical across all candidates lets crossover swap per-course blocks
// without breaking coverage.
type layout struct {
	offsets []int
	total   int
}

func newLayout(inst *domain.Instance) layout {
	l := layout{offsets: make([]int, len(inst.Courses))}
	for i, c := range inst.Courses {
		l.offsets[i] = l.total
		l.total += c.WeeklyHours
	}
	return l
}

// span returns the half-open session range owned by the course.
func (l layout) span(course int) (int, int) {
	end := l.total
	if course+1 < len(l.offsets) {
		end = l.offsets[course+1]
	}
	return l.offsets[course], end
}

// emptyCandidate allocates a candidate with the course index preset on
// every session and placements left to the seeder.
func (l layout) emptyCandidate(inst *domain.Instance) *Candidate {
	c := &Candidate{Sessions: make([]Session, l.total)}
	for course := range inst.Courses {
		start, end := l.span(course)
		for pos := start; pos < end; pos++ {
			c.Sessions[pos].Course = course
		}
	}
	return c
}
