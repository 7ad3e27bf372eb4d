package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

type (
	// msgResponse is the majority response family.
	msgResponse struct {
		Msg string `json:"msg"`
	}

	// successResponse is the Breaks/Levels response family; same as msgResponse
	// plus a success flag. Kept separate instead of unified, some clients
	// depend on the flag being absent elsewhere.
	successResponse struct {
		Success bool   `json:"success"`
		Msg     string `json:"msg"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	schoolIDRequest struct {
		SchoolID string `json:"school_id"`
	}
)

func (r *LoginRequest) Validate() error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return core.Validate.Struct(r)
}

// bindSchoolID reads the `{school_id}` body that GET and DELETE requests
// carry for tenancy scoping.
func bindSchoolID(ctx echo.Context) (string, error) {
	var data schoolIDRequest
	if err := ctx.Bind(&data); err != nil {
		return "", errors.Wrap(err, "binding school id")
	}
	data.SchoolID = core.CleanString(data.SchoolID)
	if data.SchoolID == "" {
		return "", core.NewValidationError(nil, core.FieldError{
			Location: "body", Param: "school_id", Msg: "Please add a school id",
		})
	}
	return data.SchoolID, nil
}
