package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/classhub/backend/core"
	"github.com/classhub/backend/core/group"
	"github.com/classhub/backend/core/user"
)

type groupApi struct {
	svc      *group.Service
	userSvc  *user.Service
	validate *validator.Validate
}

func registerGroupAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *group.Service, userSvc *user.Service, validate *validator.Validate) {
	api := groupApi{
		svc:      svc,
		userSvc:  userSvc,
		validate: validate,
	}

	gg := g.Group("/groups", jwt)

	// teacher portal
	tg := gg.Group("/teacher", teacherMiddleware())
	tg.POST("", api.create)
	tg.GET("", api.queryMine)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
	tg.DELETE("/:id/students/:studentID", api.removeStudent)

	// student portal
	sg := gg.Group("/student", studentMiddleware())
	sg.GET("", api.queryEnrolled)
	sg.POST("/join", api.join)
	sg.DELETE("/:id/leave", api.leave)

	// shared
	gg.GET("/:id", api.retrieve)
	gg.GET("/:id/members", api.members)
}

// Handlers

func (api *groupApi) create(ctx echo.Context) error {
	var data group.NewGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGroup")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	grp, err := api.svc.Create(ctx.Request().Context(), data, ctxUsr)
	if err != nil {
		return errors.Wrap(err, "creating group")
	}
	return ctx.JSON(http.StatusCreated, grp)
}

func (api *groupApi) queryMine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	pagination := new(Pagination)
	pagination.Bind(ctx)

	groups, err := api.svc.ForTeacher(ctx.Request().Context(), claims.Subject, pagination.DBPagination)
	if err != nil {
		return errors.Wrap(err, "querying teacher groups")
	}
	if groups == nil {
		groups = []group.Group{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *groupApi) queryEnrolled(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	pagination := new(Pagination)
	pagination.Bind(ctx)

	groups, err := api.svc.ForStudent(ctx.Request().Context(), claims.Subject, pagination.DBPagination)
	if err != nil {
		return errors.Wrap(err, "querying student groups")
	}
	if groups == nil {
		groups = []group.Group{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *groupApi) retrieve(ctx echo.Context) error {
	grp, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding group by ID")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupApi) members(ctx echo.Context) error {
	pagination := new(Pagination)
	pagination.Bind(ctx)

	members, err := api.svc.Members(ctx.Request().Context(), ctx.Param("id"), pagination.DBPagination)
	if err != nil {
		return errors.Wrap(err, "querying group members")
	}
	if members == nil {
		members = []user.User{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *groupApi) update(ctx echo.Context) error {
	var data group.UpdateGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGroup")
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	grp, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data, ctxUsr)
	if err != nil {
		return errors.Wrap(err, "updating group")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), ctxUsr); err != nil {
		return errors.Wrap(err, "deleting group")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *groupApi) join(ctx echo.Context) error {
	var data JoinGroupRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to JoinGroupRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	grp, err := api.svc.JoinByCode(ctx.Request().Context(), data.Code, ctxUsr)
	if err != nil {
		return errors.Wrap(err, "joining group")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupApi) leave(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.Leave(ctx.Request().Context(), ctx.Param("id"), ctxUsr); err != nil {
		return errors.Wrap(err, "leaving group")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *groupApi) removeStudent(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.RemoveStudent(ctx.Request().Context(), ctx.Param("id"), ctx.Param("studentID"), ctxUsr); err != nil {
		return errors.Wrap(err, "removing student from group")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type JoinGroupRequest struct {
	Code string `json:"code" validate:"required"`
}

func (jr *JoinGroupRequest) Validate(validate *validator.Validate) error {
	jr.Code = core.CleanString(jr.Code)
	return validate.Struct(jr)
}
