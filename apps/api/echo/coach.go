package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwanza/kocha/core/coach"
)

type coachApi struct {
	svc      *coach.Service
	validate *validator.Validate
}

func registerCoachAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *coach.Service, validate *validator.Validate) {
	api := coachApi{
		svc:      svc,
		validate: validate,
	}

	cg := g.Group("/coaches", jwt, staffMiddleware())
	cg.POST("", api.create, adminMiddleware())
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update, adminMiddleware())
	cg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *coachApi) create(ctx echo.Context) error {
	var data coach.NewCoach
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCoach")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating coach")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *coachApi) query(ctx echo.Context) error {
	filter := new(coach.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []coach.Coach{})
	}
	filter.Clean()

	coaches, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying coaches")
	}
	if coaches == nil {
		coaches = []coach.Coach{}
	}
	return ctx.JSON(http.StatusOK, coaches)
}

func (api *coachApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == coach.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting coach")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *coachApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == coach.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting coach")
	}

	var data coach.UpdateCoach
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCoach")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	c, err := api.svc.Update(orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating coach")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *coachApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == coach.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting coach")
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting coach")
	}
	return ctx.NoContent(http.StatusNoContent)
}
