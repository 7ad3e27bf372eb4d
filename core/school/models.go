package school

import (
	"time"

	"github.com/trezcool/ratiba/core"
)

// School is the tenant boundary: every other entity carries its id and every
// lookup and uniqueness check is implicitly scoped by it.
type School struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	GroupMaxNumStudents int       `json:"group_max_num_students"`
	CreatedAt           time.Time `json:"created_at"` // UTC
	UpdatedAt           time.Time `json:"updated_at"` // UTC
}

// NewSchool contains information needed to create a new School.
type NewSchool struct {
	Name                string `json:"name" validate:"required,max=100"`
	GroupMaxNumStudents int    `json:"group_max_num_students" validate:"required,min=1"`
}

func (ns *NewSchool) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

// UpdateSchool defines what information may be provided to modify an existing School.
type UpdateSchool struct {
	Name                string `json:"name" validate:"required,max=100"`
	GroupMaxNumStudents int    `json:"group_max_num_students" validate:"required,min=1"`
}

func (us *UpdateSchool) Validate() error {
	us.Name = core.CleanString(us.Name)
	return core.Validate.Struct(us)
}
