package engine

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-engine/internal/domain"
)

// Stop reasons reported on a Solution.
const (
	StopCompleted = "completed"
	StopTarget    = "target_reached"
	StopStalled   = "stalled"
	StopCancelled = "cancelled"
)

// Solution is the outcome of one run: the best candidate observed across
// all generations together with its evaluation and search statistics. A
// run always yields a solution; residual hard violations are carried on
// Eval rather than turned into an error.
type Solution struct {
	Best        *Candidate
	Eval        Evaluation
	Generations int
	Evaluations int
	Duration    time.Duration
	StopReason  string

	// Progress holds the population's best evaluation after each completed
	// generation. Elitism carries the previous best forward unchanged and
	// Evaluate is pure, so the sequence never worsens under Better.
	Progress []Evaluation
}

// Optimizer drives the generation loop: seed, evaluate, then repeat
// selection, crossover, mutation and repair until the generation budget,
// an early-stop condition or the caller's context ends the search.
type Optimizer struct {
	inst     *domain.Instance
	settings domain.Settings
	logger   *zap.Logger

	lay       layout
	evaluator *Evaluator
}

// NewOptimizer validates the settings and prepares a run over the instance.
func NewOptimizer(inst *domain.Instance, settings domain.Settings, logger *zap.Logger) (*Optimizer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{
		inst:      inst,
		settings:  settings,
		logger:    logger,
		lay:       newLayout(inst),
		evaluator: NewEvaluator(inst, settings),
	}, nil
}

// Run executes the search. Cancellation is cooperative: the context is
// checked at generation boundaries and a cancelled run returns the current
// best candidate, not an error.
func (o *Optimizer) Run(ctx context.Context) (Solution, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(o.settings.Seed))
	seeder := newSeeder(o.inst, o.settings, o.lay)
	repairer := newRepairer(o.inst, o.settings)

	pop := newPopulation(o.inst, o.settings, o.lay)
	next := newPopulation(o.inst, o.settings, o.lay)
	for i := range pop.candidates {
		pop.candidates[i] = seeder.seed(rng)
	}
	o.evaluateAll(pop)
	evaluations := len(pop.candidates)

	bestIdx := pop.bestIndex()
	best := pop.candidates[bestIdx].Clone()
	bestEval := pop.evals[bestIdx]

	order := make([]int, o.settings.PopulationSize)
	progress := make([]Evaluation, 0, o.settings.Generations)
	completed := 0
	stall := 0
	reason := StopCompleted

loop:
	for gen := 0; gen < o.settings.Generations; gen++ {
		if ctx.Err() != nil {
			reason = StopCancelled
			break
		}

		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return pop.evals[order[a]].Better(pop.evals[order[b]])
		})

		write := 0
		for e := 0; e < o.settings.EliteCount; e++ {
			src := order[e]
			next.candidates[write] = pop.candidates[src].Clone()
			write++
		}
		for write < len(next.candidates) {
			p1 := pop.tournament(rng)
			p2 := pop.tournament(rng)
			child := pop.crossover(pop.candidates[p1], pop.candidates[p2], rng)
			pop.mutate(child, rng)
			repairer.repair(child, rng)
			next.candidates[write] = child
			write++
		}

		pop, next = next, pop
		o.evaluateAll(pop)
		evaluations += len(pop.candidates)
		completed = gen + 1

		genBest := pop.bestIndex()
		progress = append(progress, pop.evals[genBest])
		if pop.evals[genBest].Better(bestEval) {
			best = pop.candidates[genBest].Clone()
			bestEval = pop.evals[genBest]
			stall = 0
		} else {
			stall++
		}

		if bestEval.Violations == 0 && bestEval.SoftScore <= o.settings.EarlyStop.SoftScoreTarget {
			reason = StopTarget
			break loop
		}
		if o.settings.EarlyStop.StallGenerations > 0 && stall >= o.settings.EarlyStop.StallGenerations {
			reason = StopStalled
			break loop
		}
	}

	sol := Solution{
		Best:        best,
		Eval:        bestEval,
		Generations: completed,
		Evaluations: evaluations,
		Duration:    time.Since(start),
		StopReason:  reason,
		Progress:    progress,
	}
	o.logger.Info("generation run finished",
		zap.Int("generations", sol.Generations),
		zap.Int("evaluations", sol.Evaluations),
		zap.Int("violations", sol.Eval.Violations),
		zap.Float64("soft_score", sol.Eval.SoftScore),
		zap.String("stop_reason", sol.StopReason),
		zap.Duration("duration", sol.Duration),
	)
	return sol, nil
}

// evaluateAll scores every candidate on a small worker pool. Evaluate is
// pure and results land at fixed indexes, so the pass is deterministic
// regardless of worker count.
func (o *Optimizer) evaluateAll(pop *population) {
	workers := o.settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pop.candidates) {
		workers = len(pop.candidates)
	}
	if workers <= 1 {
		for i, c := range pop.candidates {
			pop.evals[i] = o.evaluator.Evaluate(c)
		}
		return
	}

	var wg sync.WaitGroup
	idx := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				pop.evals[i] = o.evaluator.Evaluate(pop.candidates[i])
			}
		}()
	}
	for i := range pop.candidates {
		idx <- i
	}
	close(idx)
	wg.Wait()
}
