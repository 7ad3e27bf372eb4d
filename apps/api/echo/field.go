package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/field"
)

type fieldApi struct {
	svc *field.Service
}

func registerFieldAPI(g *echo.Group, svc *field.Service) {
	api := fieldApi{svc: svc}

	fg := g.Group("/fields")
	fg.POST("", api.create)
	fg.GET("", api.query)
	fg.GET("/:id", api.retrieve)
	fg.PUT("/:id", api.update)
	fg.DELETE("/:id", api.destroy)
}

func (api *fieldApi) create(ctx echo.Context) error {
	var data field.NewField
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewField")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.Create(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "creating field")
	}
	return ctx.JSON(http.StatusCreated, msgResponse{Msg: "Field created!"})
}

func (api *fieldApi) query(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	fields, err := api.svc.QueryBySchool(ctx.Request().Context(), schoolID)
	if err != nil {
		return errors.Wrap(err, "querying fields")
	}
	if len(fields) == 0 {
		return core.NewNotFoundError("No fields found")
	}
	return ctx.JSON(http.StatusOK, fields)
}

func (api *fieldApi) retrieve(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	fld, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), schoolID)
	if err != nil {
		if errors.Cause(err) == field.ErrNotFound {
			return core.NewNotFoundError("Field not found")
		}
		return errors.Wrap(err, "getting field")
	}
	return ctx.JSON(http.StatusOK, fld)
}

func (api *fieldApi) update(ctx echo.Context) error {
	var data field.UpdateField
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateField")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "updating field")
	}
	return ctx.JSON(http.StatusOK, msgResponse{Msg: "Field updated!"})
}

func (api *fieldApi) destroy(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), schoolID); err != nil {
		return errors.Wrap(err, "deleting field")
	}
	return ctx.JSON(http.StatusOK, msgResponse{Msg: "Field deleted"})
}
