package level

import (
	"time"

	"github.com/trezcool/ratiba/core"
)

// Level is a grade level attached to a Schedule; its name is unique per
// school, case-insensitively.
type Level struct {
	ID         string    `json:"id"`
	SchoolID   string    `json:"school_id"`
	ScheduleID string    `json:"schedule_id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

type NewLevel struct {
	SchoolID   string `json:"school_id" validate:"required"`
	ScheduleID string `json:"schedule_id" validate:"required"`
	Name       string `json:"name" validate:"required,max=100"`
}

func (nl *NewLevel) Validate() error {
	nl.SchoolID = core.CleanString(nl.SchoolID)
	nl.ScheduleID = core.CleanString(nl.ScheduleID)
	nl.Name = core.CleanString(nl.Name)
	return core.Validate.Struct(nl)
}

type UpdateLevel struct {
	SchoolID   string `json:"school_id" validate:"required"`
	ScheduleID string `json:"schedule_id" validate:"required"`
	Name       string `json:"name" validate:"required,max=100"`
}

func (ul *UpdateLevel) Validate() error {
	ul.SchoolID = core.CleanString(ul.SchoolID)
	ul.ScheduleID = core.CleanString(ul.ScheduleID)
	ul.Name = core.CleanString(ul.Name)
	return core.Validate.Struct(ul)
}
