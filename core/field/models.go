package field

import (
	"time"

	"github.com/trezcool/ratiba/core"
)

// Field is a teaching subject area (e.g. Mathematics) assignable to teachers.
// Its name is unique per school, case-insensitively.
type Field struct {
	ID        string    `json:"id"`
	SchoolID  string    `json:"school_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type NewField struct {
	SchoolID string `json:"school_id" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
}

func (nf *NewField) Validate() error {
	nf.SchoolID = core.CleanString(nf.SchoolID)
	nf.Name = core.CleanString(nf.Name)
	return core.Validate.Struct(nf)
}

type UpdateField struct {
	SchoolID string `json:"school_id" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
}

func (uf *UpdateField) Validate() error {
	uf.SchoolID = core.CleanString(uf.SchoolID)
	uf.Name = core.CleanString(uf.Name)
	return core.Validate.Struct(uf)
}
