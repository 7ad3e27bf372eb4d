package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/level"
)

// levelApi responds in the success-flag family.
type levelApi struct {
	svc *level.Service
}

func registerLevelAPI(g *echo.Group, svc *level.Service) {
	api := levelApi{svc: svc}

	lg := g.Group("/levels")
	lg.POST("", api.create)
	lg.GET("", api.query)
	lg.GET("/:id", api.retrieve)
	lg.PUT("/:id", api.update)
	lg.DELETE("/:id", api.destroy)
}

func (api *levelApi) create(ctx echo.Context) error {
	var data level.NewLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLevel")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.Create(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "creating level")
	}
	return ctx.JSON(http.StatusCreated, successResponse{Success: true, Msg: "Level created!"})
}

func (api *levelApi) query(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	levels, err := api.svc.QueryBySchool(ctx.Request().Context(), schoolID)
	if err != nil {
		return errors.Wrap(err, "querying levels")
	}
	if len(levels) == 0 {
		return core.NewNotFoundError("No levels found")
	}
	return ctx.JSON(http.StatusOK, levels)
}

func (api *levelApi) retrieve(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	lvl, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), schoolID)
	if err != nil {
		if errors.Cause(err) == level.ErrNotFound {
			return core.NewNotFoundError("Level not found")
		}
		return errors.Wrap(err, "getting level")
	}
	return ctx.JSON(http.StatusOK, lvl)
}

func (api *levelApi) update(ctx echo.Context) error {
	var data level.UpdateLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLevel")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "updating level")
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: true, Msg: "Level updated!"})
}

func (api *levelApi) destroy(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), schoolID); err != nil {
		return errors.Wrap(err, "deleting level")
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: true, Msg: "Level deleted"})
}
