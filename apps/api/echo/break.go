package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schedule"
)

// breakApi responds in the success-flag family.
type breakApi struct {
	svc *schedule.Service
}

func registerBreakAPI(g *echo.Group, svc *schedule.Service) {
	api := breakApi{svc: svc}

	bg := g.Group("/breaks")
	bg.POST("", api.create)
	bg.GET("", api.query)
	bg.GET("/:id", api.retrieve)
	bg.PUT("/:id", api.update)
	bg.DELETE("/:id", api.destroy)
}

func (api *breakApi) create(ctx echo.Context) error {
	var data schedule.NewBreak
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBreak")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.CreateBreak(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "creating break")
	}
	// breaks respond 200 on create, unlike the other resources
	return ctx.JSON(http.StatusOK, successResponse{Success: true, Msg: "Break created!"})
}

func (api *breakApi) query(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	breaks, err := api.svc.QueryBreaksBySchool(ctx.Request().Context(), schoolID)
	if err != nil {
		return errors.Wrap(err, "querying breaks")
	}
	if len(breaks) == 0 {
		return core.NewNotFoundError("No breaks found")
	}
	return ctx.JSON(http.StatusOK, breaks)
}

func (api *breakApi) retrieve(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	brk, err := api.svc.GetBreakByID(ctx.Request().Context(), ctx.Param("id"), schoolID)
	if err != nil {
		if errors.Cause(err) == schedule.ErrBreakNotFound {
			return core.NewNotFoundError("Break not found")
		}
		return errors.Wrap(err, "getting break")
	}
	return ctx.JSON(http.StatusOK, brk)
}

func (api *breakApi) update(ctx echo.Context) error {
	var data schedule.UpdateBreak
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBreak")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.UpdateBreak(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "updating break")
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: true, Msg: "Break updated!"})
}

func (api *breakApi) destroy(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.DeleteBreak(ctx.Request().Context(), ctx.Param("id"), schoolID); err != nil {
		return errors.Wrap(err, "deleting break")
	}
	return ctx.JSON(http.StatusOK, successResponse{Success: true, Msg: "Break deleted"})
}
