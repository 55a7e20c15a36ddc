package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/academy"
)

type academyApi struct {
	svc      *academy.Service
	validate *validator.Validate
}

func registerAcademyAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *academy.Service, validate *validator.Validate) {
	api := academyApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/academies", jwt)
	ag.POST("", api.create, adminMiddleware())
	ag.GET("", api.query, staffMiddleware())
	ag.GET("/:id", api.retrieve, staffMiddleware())
	ag.PUT("/:id", api.update, adminMiddleware())
	ag.DELETE("/:id", api.destroy, adminMiddleware())
}

func (api *academyApi) create(ctx echo.Context) error {
	var data academy.NewAcademy
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAcademy")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ac, err := api.svc.Create(data)
	if err != nil {
		if errors.Cause(err) == academy.ErrSlugExists {
			return core.NewValidationError(nil, core.FieldError{Field: "slug", Error: err.Error()})
		}
		return errors.Wrap(err, "creating academy")
	}
	return ctx.JSON(http.StatusCreated, ac)
}

func (api *academyApi) query(ctx echo.Context) error {
	academies, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying academies")
	}
	if academies == nil {
		academies = []academy.Academy{}
	}
	return ctx.JSON(http.StatusOK, academies)
}

func (api *academyApi) retrieve(ctx echo.Context) error {
	ac, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == academy.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting academy")
	}
	return ctx.JSON(http.StatusOK, ac)
}

func (api *academyApi) update(ctx echo.Context) error {
	orig, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == academy.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting academy")
	}

	var data academy.UpdateAcademy
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAcademy")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	ac, err := api.svc.Update(orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating academy")
	}
	return ctx.JSON(http.StatusOK, ac)
}

func (api *academyApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		if errors.Cause(err) == academy.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting academy")
	}
	return ctx.NoContent(http.StatusNoContent)
}
