package schedule

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
)

// minutesPerDay bounds every minutes-from-midnight value (23:59).
const minutesPerDay = 1439

var (
	dayFitTag  = "dayfit"
	dayFitText = "shift must end before 23:59"
)

func init() {
	core.Validate.RegisterStructValidation(scheduleStructValidation, NewSchedule{})
	core.Validate.RegisterStructValidation(scheduleStructValidation, UpdateSchedule{})
	core.RegisterCustomTranslation(dayFitTag, dayFitText)
}

// Schedule describes a school day: the shift starts at DayStart (minutes from
// midnight) and spans ShiftNumberMinutes, split into SessionUnitMinutes units.
type Schedule struct {
	ID                 string    `json:"id"`
	SchoolID           string    `json:"school_id"`
	Name               string    `json:"name"`
	DayStart           int       `json:"day_start"`
	ShiftNumberMinutes int       `json:"shift_number_minutes"`
	SessionUnitMinutes int       `json:"session_unit_minutes"`
	Monday             bool      `json:"monday"`
	Tuesday            bool      `json:"tuesday"`
	Wednesday          bool      `json:"wednesday"`
	Thursday           bool      `json:"thursday"`
	Friday             bool      `json:"friday"`
	CreatedAt          time.Time `json:"created_at"` // UTC
	UpdatedAt          time.Time `json:"updated_at"` // UTC
}

// Break interrupts a Schedule's shift; it lives and dies with its Schedule.
type Break struct {
	ID            string    `json:"id"`
	SchoolID      string    `json:"school_id"`
	ScheduleID    string    `json:"schedule_id"`
	BreakStart    int       `json:"break_start"`
	NumberMinutes int       `json:"number_minutes"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

type NewSchedule struct {
	SchoolID           string `json:"school_id" validate:"required"`
	Name               string `json:"name" validate:"required,max=100"`
	DayStart           int    `json:"day_start" validate:"min=0,max=1439"`
	ShiftNumberMinutes int    `json:"shift_number_minutes" validate:"required,min=1"`
	SessionUnitMinutes int    `json:"session_unit_minutes" validate:"required,min=1"`
	Monday             bool   `json:"monday"`
	Tuesday            bool   `json:"tuesday"`
	Wednesday          bool   `json:"wednesday"`
	Thursday           bool   `json:"thursday"`
	Friday             bool   `json:"friday"`
}

func (ns *NewSchedule) Validate() error {
	ns.SchoolID = core.CleanString(ns.SchoolID)
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

type UpdateSchedule struct {
	SchoolID           string `json:"school_id" validate:"required"`
	Name               string `json:"name" validate:"required,max=100"`
	DayStart           int    `json:"day_start" validate:"min=0,max=1439"`
	ShiftNumberMinutes int    `json:"shift_number_minutes" validate:"required,min=1"`
	SessionUnitMinutes int    `json:"session_unit_minutes" validate:"required,min=1"`
	Monday             bool   `json:"monday"`
	Tuesday            bool   `json:"tuesday"`
	Wednesday          bool   `json:"wednesday"`
	Thursday           bool   `json:"thursday"`
	Friday             bool   `json:"friday"`
}

func (us *UpdateSchedule) Validate() error {
	us.SchoolID = core.CleanString(us.SchoolID)
	us.Name = core.CleanString(us.Name)
	return core.Validate.Struct(us)
}

// scheduleStructValidation checks that the shift fits before 23:59.
func scheduleStructValidation(sl validator.StructLevel) {
	var dayStart, shift int
	switch sch := sl.Current().Interface().(type) {
	case NewSchedule:
		dayStart, shift = sch.DayStart, sch.ShiftNumberMinutes
	case UpdateSchedule:
		dayStart, shift = sch.DayStart, sch.ShiftNumberMinutes
	}
	if dayStart+shift > minutesPerDay {
		sl.ReportError(shift, "shift_number_minutes", "ShiftNumberMinutes", dayFitTag, "")
	}
}

type NewBreak struct {
	SchoolID      string `json:"school_id" validate:"required"`
	ScheduleID    string `json:"schedule_id" validate:"required"`
	BreakStart    int    `json:"break_start" validate:"min=0,max=1439"`
	NumberMinutes int    `json:"number_minutes" validate:"required,min=1"`
}

func (nb *NewBreak) Validate() error {
	nb.SchoolID = core.CleanString(nb.SchoolID)
	nb.ScheduleID = core.CleanString(nb.ScheduleID)
	return core.Validate.Struct(nb)
}

type UpdateBreak struct {
	SchoolID      string `json:"school_id" validate:"required"`
	ScheduleID    string `json:"schedule_id" validate:"required"`
	BreakStart    int    `json:"break_start" validate:"min=0,max=1439"`
	NumberMinutes int    `json:"number_minutes" validate:"required,min=1"`
}

func (ub *UpdateBreak) Validate() error {
	ub.SchoolID = core.CleanString(ub.SchoolID)
	ub.ScheduleID = core.CleanString(ub.ScheduleID)
	return core.Validate.Struct(ub)
}
