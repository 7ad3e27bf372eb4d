package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/class"
)

type classApi struct {
	svc *class.Service
}

func registerClassAPI(g *echo.Group, svc *class.Service) {
	api := classApi{svc: svc}

	cg := g.Group("/classes")
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.Create(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, msgResponse{Msg: "Class created!"})
}

func (api *classApi) query(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	classes, err := api.svc.QueryBySchool(ctx.Request().Context(), schoolID)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if len(classes) == 0 {
		return core.NewNotFoundError("No classes found")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	cls, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), schoolID)
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return core.NewNotFoundError("Class not found")
		}
		return errors.Wrap(err, "getting class")
	}
	return ctx.JSON(http.StatusOK, cls)
}

func (api *classApi) update(ctx echo.Context) error {
	var data class.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, msgResponse{Msg: "Class updated!"})
}

func (api *classApi) destroy(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), schoolID); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.JSON(http.StatusOK, msgResponse{Msg: "Class deleted"})
}
