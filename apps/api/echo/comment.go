package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/classhub/backend/core/comment"
	"github.com/classhub/backend/core/user"
)

type commentApi struct {
	svc      *comment.Service
	userSvc  *user.Service
	validate *validator.Validate
}

func registerCommentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *comment.Service, userSvc *user.Service, validate *validator.Validate) {
	api := commentApi{
		svc:      svc,
		userSvc:  userSvc,
		validate: validate,
	}

	// comments live under their announcement
	ag := g.Group("/announcements/:id/comments", jwt)
	ag.GET("", api.queryByAnnouncement)
	ag.POST("", api.create)

	cg := g.Group("/comments", jwt)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *commentApi) create(ctx echo.Context) error {
	var data comment.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	cmt, err := api.svc.Add(ctx.Request().Context(), ctx.Param("id"), data, ctxUsr)
	if err != nil {
		return errors.Wrap(err, "adding comment")
	}
	return ctx.JSON(http.StatusCreated, cmt)
}

func (api *commentApi) queryByAnnouncement(ctx echo.Context) error {
	pagination := new(Pagination)
	pagination.Bind(ctx)

	cmts, err := api.svc.ForAnnouncement(ctx.Request().Context(), ctx.Param("id"), pagination.DBPagination)
	if err != nil {
		return errors.Wrap(err, "querying announcement comments")
	}
	if cmts == nil {
		cmts = []comment.Comment{}
	}
	return ctx.JSON(http.StatusOK, cmts)
}

func (api *commentApi) update(ctx echo.Context) error {
	var data comment.UpdateComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateComment")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	cmt, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data, ctxUsr)
	if err != nil {
		return errors.Wrap(err, "updating comment")
	}
	return ctx.JSON(http.StatusOK, cmt)
}

func (api *commentApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), ctxUsr); err != nil {
		return errors.Wrap(err, "deleting comment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
