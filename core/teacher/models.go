package teacher

import (
	"time"

	"github.com/trezcool/ratiba/core"
)

// Contract types
const (
	ContractFullTime = "full_time"
	ContractPartTime = "part_time"
)

// Teacher wraps a User with a teaching function: contract, workable hours,
// weekday availability and the coordinator the teacher reports to.
type Teacher struct {
	ID              string    `json:"id"`
	SchoolID        string    `json:"school_id"`
	UserID          string    `json:"user_id"`
	CoordinatorID   string    `json:"coordinator_id"`
	ContractType    string    `json:"contract_type"`
	AssignableHours int       `json:"assignable_hours"`
	AssignedHours   int       `json:"assigned_hours"`
	Monday          bool      `json:"monday"`
	Tuesday         bool      `json:"tuesday"`
	Wednesday       bool      `json:"wednesday"`
	Thursday        bool      `json:"thursday"`
	Friday          bool      `json:"friday"`
	CreatedAt       time.Time `json:"created_at"` // UTC
	UpdatedAt       time.Time `json:"updated_at"` // UTC
}

// TeacherField is the assignment of one teaching Field to one Teacher.
type TeacherField struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"school_id"`
	TeacherID string    `json:"teacher_id"`
	FieldID   string    `json:"field_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// FieldDetail is the joined view of a TeacherField: the teacher reference
// expanded. The class relation chain reads it in one lookup.
type FieldDetail struct {
	TeacherField
	Teacher Teacher `json:"teacher"`
}

type NewTeacher struct {
	SchoolID        string `json:"school_id" validate:"required"`
	UserID          string `json:"user_id" validate:"required"`
	CoordinatorID   string `json:"coordinator_id" validate:"required"`
	ContractType    string `json:"contract_type" validate:"required,oneof=full_time part_time"`
	AssignableHours int    `json:"assignable_hours" validate:"required,min=1"`
	Monday          bool   `json:"monday"`
	Tuesday         bool   `json:"tuesday"`
	Wednesday       bool   `json:"wednesday"`
	Thursday        bool   `json:"thursday"`
	Friday          bool   `json:"friday"`
}

func (nt *NewTeacher) Validate() error {
	nt.SchoolID = core.CleanString(nt.SchoolID)
	nt.UserID = core.CleanString(nt.UserID)
	nt.CoordinatorID = core.CleanString(nt.CoordinatorID)
	return core.Validate.Struct(nt)
}

type UpdateTeacher struct {
	SchoolID        string `json:"school_id" validate:"required"`
	UserID          string `json:"user_id" validate:"required"`
	CoordinatorID   string `json:"coordinator_id" validate:"required"`
	ContractType    string `json:"contract_type" validate:"required,oneof=full_time part_time"`
	AssignableHours int    `json:"assignable_hours" validate:"required,min=1"`
	AssignedHours   int    `json:"assigned_hours" validate:"min=0"`
	Monday          bool   `json:"monday"`
	Tuesday         bool   `json:"tuesday"`
	Wednesday       bool   `json:"wednesday"`
	Thursday        bool   `json:"thursday"`
	Friday          bool   `json:"friday"`
}

func (ut *UpdateTeacher) Validate() error {
	ut.SchoolID = core.CleanString(ut.SchoolID)
	ut.UserID = core.CleanString(ut.UserID)
	ut.CoordinatorID = core.CleanString(ut.CoordinatorID)
	return core.Validate.Struct(ut)
}

// NewTeacherField assigns a Field to the Teacher in the URL.
type NewTeacherField struct {
	SchoolID string `json:"school_id" validate:"required"`
	FieldID  string `json:"field_id" validate:"required"`
}

func (ntf *NewTeacherField) Validate() error {
	ntf.SchoolID = core.CleanString(ntf.SchoolID)
	ntf.FieldID = core.CleanString(ntf.FieldID)
	return core.Validate.Struct(ntf)
}
