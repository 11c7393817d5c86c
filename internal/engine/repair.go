package engine

import (
	"math/rand"

	"github.com/noah-isme/timetable-engine/internal/domain"
)

// repairer resolves double-bookings introduced by crossover and mutation.
// Each conflicting session gets a fixed attempt budget to find a better
// (day, slot, room) placement; when the budget runs out the least-violating
// option seen is kept, so repair always terminates and never rejects a
// candidate.
type repairer struct {
	inst     *domain.Instance
	settings domain.Settings
}

func newRepairer(inst *domain.Instance, settings domain.Settings) *repairer {
	return &repairer{inst: inst, settings: settings}
}

func (r *repairer) repair(c *Candidate, rng *rand.Rand) {
	if r.settings.RepairAttempts == 0 {
		return
	}
	tr := newTracker(r.inst, r.settings)
	tr.load(c)
	for i := range c.Sessions {
		s := c.Sessions[i]
		tr.remove(s)
		if tr.conflicts(s) == 0 {
			tr.place(s)
			continue
		}
		best, bestCost := s, tr.cost(s)
		for attempt := 0; attempt < r.settings.RepairAttempts && bestCost > 0; attempt++ {
			alt := s
			alt.Day = rng.Intn(r.inst.Grid.Days) + 1
			alt.Slot = rng.Intn(r.inst.Grid.SlotsPerDay) + 1
			alt.Room = rng.Intn(len(r.inst.Rooms))
			if cost := tr.cost(alt); cost < bestCost {
				best, bestCost = alt, cost
			}
		}
		c.Sessions[i] = best
		tr.place(best)
	}
}
