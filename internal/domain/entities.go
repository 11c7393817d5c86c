package domain

// SlotRef addresses one cell of the weekly grid. Day and Slot are 1-based.
type SlotRef struct {
	Day  int
	Slot int
}

// Grid is the fixed (days × periods) teaching week shared by every entity.
type Grid struct {
	Days        int
	SlotsPerDay int
}

// CellCount returns the number of (day, slot) cells on the grid.
func (g Grid) CellCount() int {
	return g.Days * g.SlotsPerDay
}

// CellIndex flattens a slot reference into a dense index.
func (g Grid) CellIndex(ref SlotRef) int {
	return (ref.Day-1)*g.SlotsPerDay + (ref.Slot - 1)
}

// Contains reports whether the reference lies on the grid.
func (g Grid) Contains(ref SlotRef) bool {
	return ref.Day >= 1 && ref.Day <= g.Days && ref.Slot >= 1 && ref.Slot <= g.SlotsPerDay
}

// StudentGroup is a cohort that must never attend two sessions at once.
type StudentGroup struct {
	ID      string
	Program string
	Level   string
	Size    int
}

// Course describes weekly demand for one module.
type Course struct {
	Code        string
	Name        string
	WeeklyHours int
	GroupIDs    []string
	RoomTypes   []string
	LecturerIDs []string
}

// Lecturer describes who may teach what and when.
type Lecturer struct {
	ID             string
	Name           string
	CourseCodes    []string
	Unavailable    []SlotRef
	MaxWeeklyHours int
}

// Room is a teaching venue. Type distinguishes labs from general rooms.
type Room struct {
	ID       string
	Capacity int
	Type     string
}
