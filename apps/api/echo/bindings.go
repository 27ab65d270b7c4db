package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/classhub/backend/core"
)

var (
	limitParam  = "limit"
	offsetParam = "offset"
)

type Pagination struct {
	core.DBPagination
}

func (p *Pagination) Bind(ctx echo.Context) {
	if val := ctx.QueryParam(limitParam); val != "" {
		if limit, err := strconv.Atoi(val); err == nil && limit > 0 {
			p.Limit = limit
		}
	}
	if val := ctx.QueryParam(offsetParam); val != "" {
		if offset, err := strconv.Atoi(val); err == nil && offset > 0 {
			p.Offset = offset
		}
	}
}
