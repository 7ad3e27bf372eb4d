package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/group"
)

type groupApi struct {
	svc *group.Service
}

func registerGroupAPI(g *echo.Group, svc *group.Service) {
	api := groupApi{svc: svc}

	gg := g.Group("/groups")
	gg.POST("", api.create)
	gg.GET("", api.query)
	gg.GET("/:id", api.retrieve)
	gg.PUT("/:id", api.update)
	gg.DELETE("/:id", api.destroy)
}

func (api *groupApi) create(ctx echo.Context) error {
	var data group.NewGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGroup")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.Create(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "creating group")
	}
	return ctx.JSON(http.StatusCreated, msgResponse{Msg: "Group created!"})
}

func (api *groupApi) query(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	groups, err := api.svc.QueryBySchool(ctx.Request().Context(), schoolID)
	if err != nil {
		return errors.Wrap(err, "querying groups")
	}
	if len(groups) == 0 {
		return core.NewNotFoundError("No groups found")
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *groupApi) retrieve(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	grp, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"), schoolID)
	if err != nil {
		if errors.Cause(err) == group.ErrNotFound {
			return core.NewNotFoundError("Group not found")
		}
		return errors.Wrap(err, "getting group")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupApi) update(ctx echo.Context) error {
	var data group.UpdateGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGroup")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "updating group")
	}
	return ctx.JSON(http.StatusOK, msgResponse{Msg: "Group updated!"})
}

func (api *groupApi) destroy(ctx echo.Context) error {
	schoolID, err := bindSchoolID(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), schoolID); err != nil {
		return errors.Wrap(err, "deleting group")
	}
	return ctx.JSON(http.StatusOK, msgResponse{Msg: "Group deleted"})
}
