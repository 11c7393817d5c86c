package domain

import (
	"fmt"

	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
)

// Weights tune the soft-objective terms. All terms are penalties: a lower
// weighted sum means a better schedule.
type Weights struct {
	WorkloadBalance float64
	GapPenalty      float64
	RoomPreference  float64
	WorkloadBounds  float64
	DailyLoad       float64
}

// DefaultWeights mirrors the generator defaults from configuration.
func DefaultWeights() Weights {
	return Weights{
		WorkloadBalance: 1.0,
		GapPenalty:      2.0,
		RoomPreference:  5.0,
		WorkloadBounds:  3.0,
		DailyLoad:       2.0,
	}
}

// EarlyStop bounds the search beyond the generation budget.
type EarlyStop struct {
	// SoftScoreTarget stops the run once a feasible candidate scores at or
	// below this value.
	SoftScoreTarget float64
	// StallGenerations stops the run after this many consecutive
	// generations without best-score improvement. Zero disables the check.
	StallGenerations int
}

// Settings parameterise a single generation run.
type Settings struct {
	MinHours int
	MaxHours int

	// MaxCourseDailyHours caps how many of a course's weekly sessions may
	// land on the same day, so demand spreads across the week instead of
	// stacking. MaxLecturerDailyHours caps a lecturer's teaching hours per
	// day. Zero disables the respective cap.
	MaxCourseDailyHours   int
	MaxLecturerDailyHours int

	PopulationSize int
	Generations    int
	MutationRate   float64

	TournamentSize int
	EliteCount     int
	SeedAttempts   int
	RepairAttempts int
	Workers        int

	Seed      int64
	Weights   Weights
	EarlyStop EarlyStop
}

// Validate fails fast on structurally invalid settings.
func (s Settings) Validate() error {
	if s.MinHours < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "settings.minHours must not be negative")
	}
	if s.MaxHours < s.MinHours {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("settings.maxHours (%d) must not be below minHours (%d)", s.MaxHours, s.MinHours))
	}
	if s.MaxCourseDailyHours < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "settings.maxCourseDailyHours must not be negative")
	}
	if s.MaxLecturerDailyHours < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "settings.maxLecturerDailyHours must not be negative")
	}
	if s.PopulationSize < 2 {
		return appErrors.Clone(appErrors.ErrValidation, "settings.populationSize must be at least 2")
	}
	if s.Generations < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "settings.generations must be at least 1")
	}
	if s.MutationRate < 0 || s.MutationRate > 1 {
		return appErrors.Clone(appErrors.ErrValidation, "settings.mutationRate must be within [0,1]")
	}
	if s.TournamentSize < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "settings.tournamentSize must be at least 1")
	}
	if s.EliteCount < 1 || s.EliteCount >= s.PopulationSize {
		return appErrors.Clone(appErrors.ErrValidation, "settings.eliteCount must be at least 1 and below populationSize")
	}
	if s.SeedAttempts < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "settings.seedAttempts must be at least 1")
	}
	if s.RepairAttempts < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "settings.repairAttempts must not be negative")
	}
	if s.Workers < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "settings.workers must not be negative")
	}
	for name, w := range map[string]float64{
		"workloadBalance": s.Weights.WorkloadBalance,
		"gapPenalty":      s.Weights.GapPenalty,
		"roomPreference":  s.Weights.RoomPreference,
		"workloadBounds":  s.Weights.WorkloadBounds,
		"dailyLoad":       s.Weights.DailyLoad,
	} {
		if w < 0 {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("settings.weights.%s must not be negative", name))
		}
	}
	if s.EarlyStop.StallGenerations < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "settings.earlyStop.stallGenerations must not be negative")
	}
	return nil
}
