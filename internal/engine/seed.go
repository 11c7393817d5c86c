package engine

import (
	"math/rand"
	"sort"

	"github.com/noah-isme/timetable-engine/internal/domain"
)

// seeder builds initial candidates. Courses are placed most-constrained
// first; each session gets a bounded number of random placement attempts
// and falls back to the least-violating option seen, so seeding never
// fails outright even on unsatisfiable instances.
type seeder struct {
	inst     *domain.Instance
	settings domain.Settings
	lay      layout
	order    []int
}

func newSeeder(inst *domain.Instance, settings domain.Settings, lay layout) *seeder {
	order := make([]int, len(inst.Courses))
	for i := range order {
		order[i] = i
	}
	freedom := func(course int) int {
		matching := 0
		for ri := range inst.Rooms {
			if inst.RoomMatches(course, ri) && inst.Rooms[ri].Capacity >= inst.CourseGroupSize(course) {
				matching++
			}
		}
		if matching == 0 {
			matching = 1
		}
		return len(inst.CourseLecturers(course)) * matching
	}
	sort.SliceStable(order, func(i, j int) bool {
		fi, fj := freedom(order[i]), freedom(order[j])
		if fi != fj {
			return fi < fj
		}
		return inst.Courses[order[i]].WeeklyHours > inst.Courses[order[j]].WeeklyHours
	})
	return &seeder{inst: inst, settings: settings, lay: lay, order: order}
}

func (s *seeder) seed(rng *rand.Rand) *Candidate {
	cand := s.lay.emptyCandidate(s.inst)
	tr := newTracker(s.inst, s.settings)
	for _, course := range s.order {
		start, end := s.lay.span(course)
		for pos := start; pos < end; pos++ {
			sess := s.placeSession(course, tr, rng)
			cand.Sessions[pos] = sess
			tr.place(sess)
		}
	}
	return cand
}

// placeSession draws random assignments until one is conflict-free or the
// attempt budget runs out, then returns the cheapest assignment seen.
func (s *seeder) placeSession(course int, tr *tracker, rng *rand.Rand) Session {
	best := s.randomAssignment(course, rng)
	bestCost := tr.cost(best)
	for attempt := 1; attempt < s.settings.SeedAttempts && bestCost > 0; attempt++ {
		sess := s.randomAssignment(course, rng)
		if cost := tr.cost(sess); cost < bestCost {
			best, bestCost = sess, cost
		}
	}
	return best
}

func (s *seeder) randomAssignment(course int, rng *rand.Rand) Session {
	eligible := s.inst.CourseLecturers(course)
	return Session{
		Course:   course,
		Lecturer: eligible[rng.Intn(len(eligible))],
		Room:     rng.Intn(len(s.inst.Rooms)),
		Day:      rng.Intn(s.inst.Grid.Days) + 1,
		Slot:     rng.Intn(s.inst.Grid.SlotsPerDay) + 1,
	}
}
