package engine

import (
	"math/rand"

	"github.com/noah-isme/timetable-engine/internal/domain"
)

// population pairs a generation of candidates with their evaluations and
// implements the variation operators. All randomness flows through the
// caller-supplied generator so runs stay reproducible.
type population struct {
	inst     *domain.Instance
	settings domain.Settings
	lay      layout

	candidates []*Candidate
	evals      []Evaluation
}

func newPopulation(inst *domain.Instance, settings domain.Settings, lay layout) *population {
	return &population{
		inst:       inst,
		settings:   settings,
		lay:        lay,
		candidates: make([]*Candidate, settings.PopulationSize),
		evals:      make([]Evaluation, settings.PopulationSize),
	}
}

// bestIndex returns the rank-one candidate, breaking exact ties by the
// lowest index so the result is stable across identical runs.
func (p *population) bestIndex() int {
	best := 0
	for i := 1; i < len(p.candidates); i++ {
		if p.evals[i].Better(p.evals[best]) {
			best = i
		}
	}
	return best
}

// tournament draws TournamentSize contenders with replacement and returns
// the fittest. Feasible candidates always beat infeasible ones.
func (p *population) tournament(rng *rand.Rand) int {
	winner := rng.Intn(len(p.candidates))
	for i := 1; i < p.settings.TournamentSize; i++ {
		contender := rng.Intn(len(p.candidates))
		if p.evals[contender].Better(p.evals[winner]) {
			winner = contender
		}
	}
	return winner
}

// crossover builds a child by inheriting each course's whole session block
// from one parent or the other. Because both parents carry exactly the
// required number of sessions per course, the child keeps full coverage by
// construction.
func (p *population) crossover(a, b *Candidate, rng *rand.Rand) *Candidate {
	child := &Candidate{Sessions: make([]Session, p.lay.total)}
	for course := range p.inst.Courses {
		start, end := p.lay.span(course)
		src := a
		if rng.Intn(2) == 1 {
			src = b
		}
		copy(child.Sessions[start:end], src.Sessions[start:end])
	}
	return child
}

// mutate reassigns each session's slot, room or lecturer with probability
// MutationRate, drawing a bounded number of alternatives and keeping the
// least-violating one.
func (p *population) mutate(c *Candidate, rng *rand.Rand) {
	if p.settings.MutationRate <= 0 {
		return
	}
	tr := newTracker(p.inst, p.settings)
	tr.load(c)
	for i := range c.Sessions {
		if rng.Float64() >= p.settings.MutationRate {
			continue
		}
		s := c.Sessions[i]
		tr.remove(s)
		best, bestCost := s, tr.cost(s)
		for attempt := 0; attempt < p.settings.SeedAttempts; attempt++ {
			alt := s
			switch rng.Intn(3) {
			case 0:
				alt.Day = rng.Intn(p.inst.Grid.Days) + 1
				alt.Slot = rng.Intn(p.inst.Grid.SlotsPerDay) + 1
			case 1:
				alt.Room = rng.Intn(len(p.inst.Rooms))
			default:
				eligible := p.inst.CourseLecturers(s.Course)
				alt.Lecturer = eligible[rng.Intn(len(eligible))]
			}
			if cost := tr.cost(alt); cost < bestCost {
				best, bestCost = alt, cost
				if bestCost == 0 {
					break
				}
			}
		}
		c.Sessions[i] = best
		tr.place(best)
	}
}
