package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/teacher"
)

type teacherApi struct {
	svc *teacher.Service
}

func registerTeacherAPI(g *echo.Group, svc *teacher.Service) {
	api := teacherApi{svc: svc}

	tg := g.Group("/teachers")
	tg.POST("", api.create)
	tg.GET("", api.query)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)

	// field assignments
	tg.POST("/:id/fields", api.assignField)
	tg.GET("/:id/fields", api.queryFields)
	tg.DELETE("/:id/fields/:fieldId", api.unassignField)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.Create(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	return ctx.JSON(http.StatusCreated, msgResponse{Msg: "Teacher created!"})
}

func (api *teacherApi) query(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	teachers, err := api.svc.QueryBySchool(ctx.Request().Context(), schoolID)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	if len(teachers) == 0 {
		return core.NewNotFoundError("No teachers found")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	tch, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), schoolID)
	if err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return core.NewNotFoundError("Teacher not found")
		}
		return errors.Wrap(err, "getting teacher")
	}
	return ctx.JSON(http.StatusOK, tch)
}

func (api *teacherApi) update(ctx echo.Context) error {
	var data teacher.UpdateTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, msgResponse{Msg: "Teacher updated!"})
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), schoolID); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.JSON(http.StatusOK, msgResponse{Msg: "Teacher deleted"})
}

// Field assignments

func (api *teacherApi) assignField(ctx echo.Context) error {
	var data teacher.NewTeacherField
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacherField")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.AssignField(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "assigning field to teacher")
	}
	return ctx.JSON(http.StatusCreated, msgResponse{Msg: "TeacherField created!"})
}

func (api *teacherApi) queryFields(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	tfs, err := api.svc.QueryFields(ctx.Request().Context(), ctx.Param("id"), schoolID)
	if err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return core.NewNotFoundError("Teacher not found")
		}
		return errors.Wrap(err, "querying teacher fields")
	}
	if len(tfs) == 0 {
		return core.NewNotFoundError("No teacherFields found")
	}
	return ctx.JSON(http.StatusOK, tfs)
}

func (api *teacherApi) unassignField(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.UnassignField(ctx.Request().Context(), ctx.Param("id"), ctx.Param("fieldId"), schoolID); err != nil {
		return errors.Wrap(err, "unassigning teacher field")
	}
	return ctx.JSON(http.StatusOK, msgResponse{Msg: "TeacherField deleted"})
}
