package subject

import (
	"time"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/field"
	"github.com/trezcool/ratiba/core/group"
	"github.com/trezcool/ratiba/core/school"
	"github.com/trezcool/ratiba/core/user"
)

// Subject is taught to a Group in a Field, under a coordinator. Its name is
// unique per school, case-insensitively.
type Subject struct {
	ID            string    `json:"id"`
	SchoolID      string    `json:"school_id"`
	CoordinatorID string    `json:"coordinator_id"`
	GroupID       string    `json:"group_id"`
	FieldID       string    `json:"field_id"`
	Name          string    `json:"name"`
	ClassUnits    int       `json:"class_units"`
	Frequency     int       `json:"frequency"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// Detail is the joined view of a Subject: every reference expanded into the
// entity it points at. The class relation chain reads it in one lookup.
type Detail struct {
	Subject
	School      school.School `json:"school"`
	Coordinator user.User     `json:"coordinator"`
	Group       group.Group   `json:"group"`
	Field       field.Field   `json:"field"`
}

type NewSubject struct {
	SchoolID      string `json:"school_id" validate:"required"`
	CoordinatorID string `json:"coordinator_id" validate:"required"`
	GroupID       string `json:"group_id" validate:"required"`
	FieldID       string `json:"field_id" validate:"required"`
	Name          string `json:"name" validate:"required,max=100"`
	ClassUnits    int    `json:"class_units" validate:"required,min=1"`
	Frequency     int    `json:"frequency" validate:"required,min=1"`
}

func (ns *NewSubject) Validate() error {
	ns.SchoolID = core.CleanString(ns.SchoolID)
	ns.CoordinatorID = core.CleanString(ns.CoordinatorID)
	ns.GroupID = core.CleanString(ns.GroupID)
	ns.FieldID = core.CleanString(ns.FieldID)
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

type UpdateSubject struct {
	SchoolID      string `json:"school_id" validate:"required"`
	CoordinatorID string `json:"coordinator_id" validate:"required"`
	GroupID       string `json:"group_id" validate:"required"`
	FieldID       string `json:"field_id" validate:"required"`
	Name          string `json:"name" validate:"required,max=100"`
	ClassUnits    int    `json:"class_units" validate:"required,min=1"`
	Frequency     int    `json:"frequency" validate:"required,min=1"`
}

func (us *UpdateSubject) Validate() error {
	us.SchoolID = core.CleanString(us.SchoolID)
	us.CoordinatorID = core.CleanString(us.CoordinatorID)
	us.GroupID = core.CleanString(us.GroupID)
	us.FieldID = core.CleanString(us.FieldID)
	us.Name = core.CleanString(us.Name)
	return core.Validate.Struct(us)
}
