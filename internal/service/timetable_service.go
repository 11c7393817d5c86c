package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-engine/internal/domain"
	"github.com/noah-isme/timetable-engine/internal/dto"
	"github.com/noah-isme/timetable-engine/internal/engine"
	"github.com/noah-isme/timetable-engine/pkg/config"
	appErrors "github.com/noah-isme/timetable-engine/pkg/errors"
)

type runObserver interface {
	ObserveRun(stopReason string, duration time.Duration, generations, violations int)
}

// TimetableService validates generation requests, runs the engine and
// shapes its report into the response contract.
type TimetableService struct {
	cfg       config.EngineConfig
	validator *validator.Validate
	logger    *zap.Logger
	metrics   runObserver
	store     *runStore
}

// NewTimetableService wires the generation pipeline.
func NewTimetableService(cfg config.EngineConfig, validate *validator.Validate, logger *zap.Logger, metrics runObserver) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = 30 * time.Minute
	}
	return &TimetableService{
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		store:     newRunStore(cfg.RunTTL),
	}
}

// Generate runs one full generation cycle: fail-fast validation, search,
// report building. An infeasible best-effort schedule is a success whose
// report carries the residual violations.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}

	inst, err := buildInstance(req)
	if err != nil {
		return nil, err
	}
	if inst.TotalSessions() > s.cfg.MaxTotalSessions {
		return nil, appErrors.Clone(appErrors.ErrResourceExhausted,
			fmt.Sprintf("instance requires %d sessions, above the configured cap of %d", inst.TotalSessions(), s.cfg.MaxTotalSessions))
	}

	settings := s.resolveSettings(req.Settings)
	opt, err := engine.NewOptimizer(inst, settings, s.logger)
	if err != nil {
		return nil, err
	}

	runCtx := ctx
	if s.cfg.MaxRunDuration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.MaxRunDuration)
		defer cancel()
	}

	solution, err := opt.Run(runCtx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "generation run failed")
	}

	report := engine.NewReportBuilder(inst, settings).Build(solution.Best)
	resp := buildResponse(uuid.NewString(), settings.Seed, solution, report)

	s.store.Save(timetableRun{Response: *resp, CompletedAt: time.Now().UTC()})
	if s.metrics != nil {
		s.metrics.ObserveRun(solution.StopReason, solution.Duration, solution.Generations, solution.Eval.Violations)
	}
	s.logger.Info("timetable generated",
		zap.String("run_id", resp.RunID),
		zap.Int("violations", solution.Eval.Violations),
		zap.Float64("soft_score", solution.Eval.SoftScore),
		zap.String("stop_reason", solution.StopReason),
	)
	return resp, nil
}

// Get returns a previously generated run while it is still retained.
func (s *TimetableService) Get(ctx context.Context, runID string) (*dto.GenerateTimetableResponse, error) {
	if runID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "run id is required")
	}
	run, ok := s.store.Get(runID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "run not found or expired")
	}
	return &run.Response, nil
}

// resolveSettings merges the request settings over the configured defaults.
func (s *TimetableService) resolveSettings(req dto.SettingsRequest) domain.Settings {
	weights := domain.Weights{
		WorkloadBalance: s.cfg.WorkloadBalanceWeight,
		GapPenalty:      s.cfg.GapPenaltyWeight,
		RoomPreference:  s.cfg.RoomPreferenceWeight,
		WorkloadBounds:  s.cfg.WorkloadBoundsWeight,
		DailyLoad:       s.cfg.DailyLoadWeight,
	}
	if req.Weights != nil {
		if req.Weights.WorkloadBalance != nil {
			weights.WorkloadBalance = *req.Weights.WorkloadBalance
		}
		if req.Weights.GapPenalty != nil {
			weights.GapPenalty = *req.Weights.GapPenalty
		}
		if req.Weights.RoomPreference != nil {
			weights.RoomPreference = *req.Weights.RoomPreference
		}
		if req.Weights.WorkloadBounds != nil {
			weights.WorkloadBounds = *req.Weights.WorkloadBounds
		}
		if req.Weights.DailyLoad != nil {
			weights.DailyLoad = *req.Weights.DailyLoad
		}
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	minHours := s.cfg.MinHours
	if req.MinHours != nil {
		minHours = *req.MinHours
	}
	maxHours := s.cfg.MaxHours
	if req.MaxHours != nil {
		maxHours = *req.MaxHours
	}
	maxCourseDaily := s.cfg.MaxCourseDailyHours
	if req.MaxCourseDailyHours != nil {
		maxCourseDaily = *req.MaxCourseDailyHours
	}
	maxLecturerDaily := s.cfg.MaxLecturerDailyHours
	if req.MaxLecturerDailyHours != nil {
		maxLecturerDaily = *req.MaxLecturerDailyHours
	}
	populationSize := s.cfg.PopulationSize
	if req.PopulationSize != nil {
		populationSize = *req.PopulationSize
	}
	generations := s.cfg.Generations
	if req.Generations != nil {
		generations = *req.Generations
	}
	mutationRate := s.cfg.MutationRate
	if req.MutationRate != nil {
		mutationRate = *req.MutationRate
	}

	return domain.Settings{
		MinHours:              minHours,
		MaxHours:              maxHours,
		MaxCourseDailyHours:   maxCourseDaily,
		MaxLecturerDailyHours: maxLecturerDaily,
		PopulationSize:        populationSize,
		Generations:           generations,
		MutationRate:          mutationRate,
		TournamentSize:        s.cfg.TournamentSize,
		EliteCount:            s.cfg.EliteCount,
		SeedAttempts:          s.cfg.SeedAttempts,
		RepairAttempts:        s.cfg.RepairAttempts,
		Workers:               s.cfg.Workers,
		Seed:                  seed,
		Weights:               weights,
		EarlyStop: domain.EarlyStop{
			SoftScoreTarget:  s.cfg.SoftScoreTarget,
			StallGenerations: s.cfg.StallGenerations,
		},
	}
}

func buildInstance(req dto.GenerateTimetableRequest) (*domain.Instance, error) {
	grid := domain.Grid{Days: req.Grid.Days, SlotsPerDay: req.Grid.SlotsPerDay}

	groups := make([]domain.StudentGroup, len(req.Groups))
	for i, g := range req.Groups {
		groups[i] = domain.StudentGroup{ID: g.ID, Program: g.Program, Level: g.Level, Size: g.Size}
	}

	courses := make([]domain.Course, len(req.Courses))
	for i, c := range req.Courses {
		courses[i] = domain.Course{
			Code:        c.Code,
			Name:        c.Name,
			WeeklyHours: c.WeeklyHours,
			GroupIDs:    c.Groups,
			RoomTypes:   c.RoomTypes,
			LecturerIDs: c.Lecturers,
		}
	}

	lecturers := make([]domain.Lecturer, len(req.Lecturers))
	for i, l := range req.Lecturers {
		unavailable := make([]domain.SlotRef, len(l.Unavailable))
		for j, u := range l.Unavailable {
			unavailable[j] = domain.SlotRef{Day: u.Day, Slot: u.Slot}
		}
		lecturers[i] = domain.Lecturer{
			ID:             l.ID,
			Name:           l.Name,
			CourseCodes:    l.Courses,
			Unavailable:    unavailable,
			MaxWeeklyHours: l.MaxWeeklyHours,
		}
	}

	rooms := make([]domain.Room, len(req.Rooms))
	for i, r := range req.Rooms {
		rooms[i] = domain.Room{ID: r.ID, Capacity: r.Capacity, Type: r.Type}
	}

	return domain.NewInstance(grid, groups, courses, lecturers, rooms)
}

func buildResponse(runID string, seed int64, solution engine.Solution, report *engine.Report) *dto.GenerateTimetableResponse {
	grids := make([]dto.RoomGridResponse, len(report.RoomGrids))
	for i, grid := range report.RoomGrids {
		days := make([]string, len(grid.Cells))
		cells := make([][][]dto.RoomCellResponse, len(grid.Cells))
		for d := range grid.Cells {
			days[d] = dayIndexToName(d + 1)
			cells[d] = make([][]dto.RoomCellResponse, len(grid.Cells[d]))
			for slot := range grid.Cells[d] {
				entries := make([]dto.RoomCellResponse, 0, len(grid.Cells[d][slot]))
				for _, cell := range grid.Cells[d][slot] {
					entries = append(entries, dto.RoomCellResponse{
						Course:   cell.Course,
						Name:     cell.CourseName,
						Lecturer: cell.Lecturer,
						Groups:   cell.Groups,
					})
				}
				cells[d][slot] = entries
			}
		}
		grids[i] = dto.RoomGridResponse{
			Room:     grid.RoomID,
			Type:     grid.RoomType,
			Capacity: grid.Capacity,
			Days:     days,
			Cells:    cells,
		}
	}

	lecturers := make([]dto.LecturerStatResponse, len(report.Lecturers))
	for i, stat := range report.Lecturers {
		slots := make([]dto.LecturerSlotResponse, len(stat.Slots))
		for j, slot := range stat.Slots {
			slots[j] = dto.LecturerSlotResponse{
				Day:    dayIndexToName(slot.Day),
				Slot:   slot.Slot,
				Module: slot.Module,
				Room:   slot.Room,
				Groups: slot.Groups,
			}
		}
		name := stat.Name
		if name == "" {
			name = stat.LecturerID
		}
		lecturers[i] = dto.LecturerStatResponse{
			Lecturer:       name,
			ScheduledHours: stat.ScheduledHours,
			RequiredHours:  stat.RequiredHours,
			Status:         stat.Status,
			Slots:          slots,
		}
	}

	courses := make([]dto.CourseCoverageResponse, len(report.Courses))
	for i, course := range report.Courses {
		courses[i] = dto.CourseCoverageResponse{
			Course:         course.Code,
			Name:           course.Name,
			RequiredHours:  course.RequiredHours,
			ScheduledHours: course.ScheduledHours,
			Violations:     course.Violations,
		}
	}

	return &dto.GenerateTimetableResponse{
		RunID: runID,
		Seed:  seed,
		Summary: dto.RunSummaryResponse{
			Violations:  solution.Eval.Violations,
			SoftScore:   solution.Eval.SoftScore,
			Generations: solution.Generations,
			Evaluations: solution.Evaluations,
			DurationMS:  solution.Duration.Milliseconds(),
			StopReason:  solution.StopReason,
		},
		RoomGrids: grids,
		Lecturers: lecturers,
		Courses:   courses,
	}
}

var dayNames = map[int]string{
	1: "MONDAY",
	2: "TUESDAY",
	3: "WEDNESDAY",
	4: "THURSDAY",
	5: "FRIDAY",
	6: "SATURDAY",
	7: "SUNDAY",
}

func dayIndexToName(day int) string {
	if name, ok := dayNames[day]; ok {
		return name
	}
	return fmt.Sprintf("DAY_%d", day)
}
