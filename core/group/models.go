package group

import (
	"time"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/user"
)

// Group is a set of students at a Level, administratively owned by a
// coordinator. Its name is unique per school, case-insensitively, and its
// size is capped by the owning School.
type Group struct {
	ID             string    `json:"id"`
	SchoolID       string    `json:"school_id"`
	LevelID        string    `json:"level_id"`
	CoordinatorID  string    `json:"coordinator_id"`
	Name           string    `json:"name"`
	NumberStudents int       `json:"number_students"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

// Detail is the joined view of a Group: the coordinator reference expanded
// into the underlying User. Selected per call site instead of re-using Group
// with a sometimes-id, sometimes-object field.
type Detail struct {
	Group
	Coordinator user.User `json:"coordinator"`
}

type NewGroup struct {
	SchoolID       string `json:"school_id" validate:"required"`
	LevelID        string `json:"level_id" validate:"required"`
	CoordinatorID  string `json:"coordinator_id" validate:"required"`
	Name           string `json:"name" validate:"required,max=100"`
	NumberStudents int    `json:"number_students" validate:"required,min=1"`
}

func (ng *NewGroup) Validate() error {
	ng.SchoolID = core.CleanString(ng.SchoolID)
	ng.LevelID = core.CleanString(ng.LevelID)
	ng.CoordinatorID = core.CleanString(ng.CoordinatorID)
	ng.Name = core.CleanString(ng.Name)
	return core.Validate.Struct(ng)
}

type UpdateGroup struct {
	SchoolID       string `json:"school_id" validate:"required"`
	LevelID        string `json:"level_id" validate:"required"`
	CoordinatorID  string `json:"coordinator_id" validate:"required"`
	Name           string `json:"name" validate:"required,max=100"`
	NumberStudents int    `json:"number_students" validate:"required,min=1"`
}

func (ug *UpdateGroup) Validate() error {
	ug.SchoolID = core.CleanString(ug.SchoolID)
	ug.LevelID = core.CleanString(ug.LevelID)
	ug.CoordinatorID = core.CleanString(ug.CoordinatorID)
	ug.Name = core.CleanString(ug.Name)
	return core.Validate.Struct(ug)
}
