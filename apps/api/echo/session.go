package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/class"
	"github.com/kwanza/kocha/core/session"
	"github.com/kwanza/kocha/core/user"
)

var dateParamLayout = "2006-01-02"

type sessionApi struct {
	svc      *session.Service
	userSvc  *user.Service
	validate *validator.Validate
}

func registerSessionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *session.Service, userSvc *user.Service, validate *validator.Validate) {
	api := sessionApi{
		svc:      svc,
		userSvc:  userSvc,
		validate: validate,
	}

	sg := g.Group("/sessions", jwt, staffMiddleware())
	sg.POST("/generate", api.generate, adminMiddleware())
	sg.GET("", api.query)
	sg.GET("/week", api.queryWeek)
	sg.GET("/:id", api.retrieve)
	sg.DELETE("/:id", api.destroy, adminMiddleware())

	// attendance
	sg.POST("/:id/attendance/generate", api.generateAttendance)
	sg.POST("/:id/attendance", api.markAttendance)
}

func (api *sessionApi) generate(ctx echo.Context) error {
	var data GenerateSessionsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateSessionsRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Generate(session.GenerateOptions{
		ClassID:    data.ClassID,
		WeeksAhead: data.WeeksAhead,
		From:       data.from,
	})
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "generating sessions")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *sessionApi) query(ctx echo.Context) error {
	var query SessionRangeRequest
	if err := ctx.Bind(&query); err != nil {
		return ctx.JSON(http.StatusOK, []session.SessionWithAttendance{})
	}
	from, to, err := query.Range()
	if err != nil {
		return err
	}

	sessions, err := api.svc.QueryRange(query.ClassID, from, to)
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	if sessions == nil {
		sessions = []session.SessionWithAttendance{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *sessionApi) queryWeek(ctx echo.Context) error {
	var query WeekRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to WeekRequest")
	}
	if err := api.validate.Struct(&query); err != nil {
		return err
	}

	start, end, err := core.WeekRange(query.Year, query.Week)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "week", Error: err.Error()})
	}

	sessions, err := api.svc.QueryRange(query.ClassID, start, end)
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	if sessions == nil {
		sessions = []session.SessionWithAttendance{}
	}
	return ctx.JSON(http.StatusOK, WeekSessionsResponse{
		Year:      query.Year,
		Week:      query.Week,
		StartDate: start,
		EndDate:   end,
		Sessions:  sessions,
	})
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	s, err := api.svc.GetWithAttendance(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == session.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting session")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *sessionApi) destroy(ctx echo.Context) error {
	if _, err := api.svc.GetByID(ctx.Param("id")); err != nil {
		if errors.Cause(err) == session.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting session")
	}
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) generateAttendance(ctx echo.Context) error {
	res, err := api.svc.GenerateAttendance(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == session.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "generating attendance")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *sessionApi) markAttendance(ctx echo.Context) error {
	var data MarkAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendanceRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	markedBy := session.SystemMarkedBy
	if ctxUsr, err := getContextUser(ctx, api.userSvc); err == nil {
		markedBy = ctxUsr.Username
	}

	res, err := api.svc.MarkAttendance(ctx.Param("id"), data.Entries, markedBy)
	if err != nil {
		if errors.Cause(err) == session.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

type (
	GenerateSessionsRequest struct {
		ClassID    string `json:"class_id"`
		WeeksAhead int    `json:"weeks_ahead" validate:"omitempty,min=1,max=52"`
		From       string `json:"from"` // "2006-01-02", defaults to today

		from time.Time
	}

	SessionRangeRequest struct {
		ClassID string `query:"class_id"`
		From    string `query:"from"` // "2006-01-02"
		To      string `query:"to"`   // "2006-01-02"
	}

	WeekRequest struct {
		ClassID string `query:"class_id"`
		Year    int    `query:"year" validate:"required"`
		Week    int    `query:"week" validate:"required"`
	}

	WeekSessionsResponse struct {
		Year      int                             `json:"year"`
		Week      int                             `json:"week"`
		StartDate time.Time                       `json:"start_date"`
		EndDate   time.Time                       `json:"end_date"`
		Sessions  []session.SessionWithAttendance `json:"sessions"`
	}

	MarkAttendanceRequest struct {
		Entries []session.AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
	}
)

func (r *GenerateSessionsRequest) Validate(validate *validator.Validate) error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.From != "" {
		from, err := time.Parse(dateParamLayout, r.From)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "from", Error: "invalid date, expected YYYY-MM-DD"})
		}
		r.from = from.UTC()
	}
	return nil
}

// Range resolves the requested window; it defaults to the configured
// generation window starting today.
func (r *SessionRangeRequest) Range() (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := core.StartOfDay(now)
	to := core.EndOfDay(now.AddDate(0, 0, 7*core.Conf.SessionWeeksAhead))

	if r.From != "" {
		t, err := time.Parse(dateParamLayout, r.From)
		if err != nil {
			return time.Time{}, time.Time{}, core.NewValidationError(err, core.FieldError{Field: "from", Error: "invalid date, expected YYYY-MM-DD"})
		}
		from = core.StartOfDay(t.UTC())
	}
	if r.To != "" {
		t, err := time.Parse(dateParamLayout, r.To)
		if err != nil {
			return time.Time{}, time.Time{}, core.NewValidationError(err, core.FieldError{Field: "to", Error: "invalid date, expected YYYY-MM-DD"})
		}
		to = core.EndOfDay(t.UTC())
	}
	return from, to, nil
}
