package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/telemon/telemon/internal/core/event"
)

// EventAPI 为 http 提供事件查询方法
type EventAPI struct {
	eventCore event.Core
}

func NewEventAPI(core event.Core) EventAPI {
	return EventAPI{eventCore: core}
}

func registerEvent(r gin.IRouter, api EventAPI, handler ...gin.HandlerFunc) {
	group := r.Group("/events", handler...)
	group.GET("", web.WrapH(api.findEvents))
	group.GET("/:id", api.getEvent)
}

func (a EventAPI) findEvents(c *gin.Context, in *event.FindEventInput) (gin.H, error) {
	items, total, err := a.eventCore.FindEvents(c.Request.Context(), in)
	if err != nil {
		return nil, err
	}
	return gin.H{"items": items, "total": total}, nil
}

func (a EventAPI) getEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		web.Fail(c, reason.ErrBadRequest.Withf("invalid id [%s]", c.Param("id")))
		return
	}
	out, err := a.eventCore.GetEvent(c.Request.Context(), id)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(200, out)
}
