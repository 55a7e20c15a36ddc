package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwanza/kocha/core/court"
)

type courtApi struct {
	svc      *court.Service
	validate *validator.Validate
}

func registerCourtAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *court.Service, validate *validator.Validate) {
	api := courtApi{
		svc:      svc,
		validate: validate,
	}

	cg := g.Group("/courts", jwt, staffMiddleware())
	cg.POST("", api.create, adminMiddleware())
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update, adminMiddleware())
	cg.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *courtApi) create(ctx echo.Context) error {
	var data court.NewCourt
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourt")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating court")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courtApi) query(ctx echo.Context) error {
	filter := new(court.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []court.Court{})
	}
	filter.Clean()

	courts, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying courts")
	}
	if courts == nil {
		courts = []court.Court{}
	}
	return ctx.JSON(http.StatusOK, courts)
}

func (api *courtApi) retrieve(ctx echo.Context) error {
	c, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == court.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting court")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courtApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == court.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting court")
	}

	var data court.UpdateCourt
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourt")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	c, err := api.svc.Update(orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating court")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courtApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == court.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting court")
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting court")
	}
	return ctx.NoContent(http.StatusNoContent)
}
