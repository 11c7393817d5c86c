package dto

// GridRequest fixes the weekly teaching grid shared by all entities.
type GridRequest struct {
	Days        int `json:"days" validate:"required,min=1,max=7"`
	SlotsPerDay int `json:"slotsPerDay" validate:"required,min=1,max=16"`
}

// StudentGroupRequest describes one cohort.
type StudentGroupRequest struct {
	ID      string `json:"id" validate:"required"`
	Program string `json:"program"`
	Level   string `json:"level"`
	Size    int    `json:"size" validate:"required,min=1"`
}

// CourseRequest describes weekly demand for one module.
type CourseRequest struct {
	Code        string   `json:"code" validate:"required"`
	Name        string   `json:"name"`
	WeeklyHours int      `json:"weeklyHours" validate:"required,min=1"`
	Groups      []string `json:"groups"`
	RoomTypes   []string `json:"roomTypes"`
	Lecturers   []string `json:"lecturers" validate:"required,min=1"`
}

// UnavailableSlotRequest blocks one grid cell for a lecturer.
type UnavailableSlotRequest struct {
	Day  int `json:"day" validate:"required,min=1"`
	Slot int `json:"slot" validate:"required,min=1"`
}

// LecturerRequest describes one lecturer and their availability.
type LecturerRequest struct {
	ID             string                   `json:"id" validate:"required"`
	Name           string                   `json:"name"`
	Courses        []string                 `json:"courses"`
	Unavailable    []UnavailableSlotRequest `json:"unavailable" validate:"omitempty,dive"`
	MaxWeeklyHours int                      `json:"maxWeeklyHours" validate:"omitempty,min=0"`
}

// RoomRequest describes one teaching venue.
type RoomRequest struct {
	ID       string `json:"id" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
	Type     string `json:"type"`
}

// WeightsRequest overrides the soft-objective weights for one run.
type WeightsRequest struct {
	WorkloadBalance *float64 `json:"workloadBalance" validate:"omitempty,min=0"`
	GapPenalty      *float64 `json:"gapPenalty" validate:"omitempty,min=0"`
	RoomPreference  *float64 `json:"roomPreference" validate:"omitempty,min=0"`
	WorkloadBounds  *float64 `json:"workloadBounds" validate:"omitempty,min=0"`
	DailyLoad       *float64 `json:"dailyLoad" validate:"omitempty,min=0"`
}

// SettingsRequest carries the generation parameters. Omitted fields fall
// back to the configured engine defaults.
type SettingsRequest struct {
	MinHours              *int            `json:"minHours" validate:"omitempty,min=0"`
	MaxHours              *int            `json:"maxHours" validate:"omitempty,min=1"`
	MaxCourseDailyHours   *int            `json:"maxCourseDailyHours" validate:"omitempty,min=0"`
	MaxLecturerDailyHours *int            `json:"maxLecturerDailyHours" validate:"omitempty,min=0"`
	PopulationSize        *int            `json:"populationSize" validate:"omitempty,min=2"`
	Generations           *int            `json:"generations" validate:"omitempty,min=1"`
	MutationRate          *float64        `json:"mutationRate" validate:"omitempty,min=0,max=1"`
	Seed                  *int64          `json:"seed"`
	Weights               *WeightsRequest `json:"weights" validate:"omitempty"`
}

// GenerateTimetableRequest is the full engine invocation payload.
type GenerateTimetableRequest struct {
	Grid      GridRequest           `json:"grid" validate:"required"`
	Groups    []StudentGroupRequest `json:"groups" validate:"required,min=1,dive"`
	Courses   []CourseRequest       `json:"courses" validate:"required,min=1,dive"`
	Lecturers []LecturerRequest     `json:"lecturers" validate:"required,min=1,dive"`
	Rooms     []RoomRequest         `json:"rooms" validate:"required,min=1,dive"`
	Settings  SettingsRequest       `json:"settings"`
}

// LecturerSlotResponse is one teaching hour on a lecturer's schedule. Field
// names follow the rendering contract of the consuming layer.
type LecturerSlotResponse struct {
	Day    string   `json:"day"`
	Slot   int      `json:"slot"`
	Module string   `json:"module"`
	Room   string   `json:"room"`
	Groups []string `json:"groups"`
}

// LecturerStatResponse summarises a lecturer's workload.
type LecturerStatResponse struct {
	Lecturer       string                 `json:"lecturer"`
	ScheduledHours int                    `json:"scheduled_hours"`
	RequiredHours  int                    `json:"required_hours"`
	Status         string                 `json:"status"`
	Slots          []LecturerSlotResponse `json:"slots"`
}

// RoomCellResponse is one scheduled session inside a room grid cell.
type RoomCellResponse struct {
	Course   string   `json:"course"`
	Name     string   `json:"name,omitempty"`
	Lecturer string   `json:"lecturer"`
	Groups   []string `json:"groups"`
}

// RoomGridResponse is a room's full week; Cells[day][slot] lists the
// sessions held there (normally zero or one; more signals a clash).
type RoomGridResponse struct {
	Room     string                 `json:"room"`
	Type     string                 `json:"type"`
	Capacity int                    `json:"capacity"`
	Days     []string               `json:"days"`
	Cells    [][][]RoomCellResponse `json:"cells"`
}

// CourseCoverageResponse reports demand fulfilment per course.
type CourseCoverageResponse struct {
	Course         string `json:"course"`
	Name           string `json:"name,omitempty"`
	RequiredHours  int    `json:"required_hours"`
	ScheduledHours int    `json:"scheduled_hours"`
	Violations     int    `json:"violations"`
}

// RunSummaryResponse carries the search statistics for one run.
type RunSummaryResponse struct {
	Violations  int     `json:"violations"`
	SoftScore   float64 `json:"softScore"`
	Generations int     `json:"generations"`
	Evaluations int     `json:"evaluations"`
	DurationMS  int64   `json:"durationMs"`
	StopReason  string  `json:"stopReason"`
}

// GenerateTimetableResponse is the engine's report for one run.
type GenerateTimetableResponse struct {
	RunID     string                   `json:"runId"`
	Seed      int64                    `json:"seed"`
	Summary   RunSummaryResponse       `json:"summary"`
	RoomGrids []RoomGridResponse       `json:"roomGrids"`
	Lecturers []LecturerStatResponse   `json:"lecturers"`
	Courses   []CourseCoverageResponse `json:"courses"`
}
