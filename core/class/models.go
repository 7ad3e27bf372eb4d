package class

import (
	"time"

	"github.com/trezcool/ratiba/core"
)

// Class places a Subject with a teacher (via a TeacherField assignment) on
// the timetable. It is the most constrained entity in the model: its
// coordinator, subject and teacher assignment must all agree (see service.go).
type Class struct {
	ID                  string    `json:"id"`
	SchoolID            string    `json:"school_id"`
	CoordinatorID       string    `json:"coordinator_id"`
	SubjectID           string    `json:"subject_id"`
	TeacherFieldID      string    `json:"teacher_field_id"`
	StartTime           int       `json:"start_time"`
	GroupScheduleSlot   int       `json:"group_schedule_slot"`
	TeacherScheduleSlot int       `json:"teacher_schedule_slot"`
	CreatedAt           time.Time `json:"created_at"` // UTC
	UpdatedAt           time.Time `json:"updated_at"` // UTC
}

type NewClass struct {
	SchoolID            string `json:"school_id" validate:"required"`
	CoordinatorID       string `json:"coordinator_id" validate:"required"`
	SubjectID           string `json:"subject_id" validate:"required"`
	TeacherFieldID      string `json:"teacher_field_id" validate:"required"`
	StartTime           int    `json:"start_time" validate:"min=0,max=1439"`
	GroupScheduleSlot   int    `json:"group_schedule_slot" validate:"required,min=1"`
	TeacherScheduleSlot int    `json:"teacher_schedule_slot" validate:"required,min=1"`
}

func (nc *NewClass) Validate() error {
	nc.SchoolID = core.CleanString(nc.SchoolID)
	nc.CoordinatorID = core.CleanString(nc.CoordinatorID)
	nc.SubjectID = core.CleanString(nc.SubjectID)
	nc.TeacherFieldID = core.CleanString(nc.TeacherFieldID)
	return core.Validate.Struct(nc)
}

type UpdateClass struct {
	SchoolID            string `json:"school_id" validate:"required"`
	CoordinatorID       string `json:"coordinator_id" validate:"required"`
	SubjectID           string `json:"subject_id" validate:"required"`
	TeacherFieldID      string `json:"teacher_field_id" validate:"required"`
	StartTime           int    `json:"start_time" validate:"min=0,max=1439"`
	GroupScheduleSlot   int    `json:"group_schedule_slot" validate:"required,min=1"`
	TeacherScheduleSlot int    `json:"teacher_schedule_slot" validate:"required,min=1"`
}

func (uc *UpdateClass) Validate() error {
	uc.SchoolID = core.CleanString(uc.SchoolID)
	uc.CoordinatorID = core.CleanString(uc.CoordinatorID)
	uc.SubjectID = core.CleanString(uc.SubjectID)
	uc.TeacherFieldID = core.CleanString(uc.TeacherFieldID)
	return core.Validate.Struct(uc)
}
