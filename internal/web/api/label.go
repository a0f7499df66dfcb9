package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/telemon/telemon/internal/core/label"
)

// LabelAPI 为 http 提供标记与重组业务方法
type LabelAPI struct {
	labelCore label.Core
}

func NewLabelAPI(core label.Core) LabelAPI {
	return LabelAPI{labelCore: core}
}

func registerLabel(r gin.IRouter, api LabelAPI, handler ...gin.HandlerFunc) {
	group := r.Group("/labels", handler...)
	group.POST("", web.WrapH(api.labelEvents))
	group.POST("/each", web.WrapH(api.labelEachEvent))
	group.GET("", web.WrapH(api.findSegments))
	group.GET("/grouped", web.WrapH(api.findGroupedSegments))
	group.GET("/:id", api.getSegment)

	reports := r.Group("/reports", handler...)
	reports.GET("/daily", web.WrapH(api.getDailyReport))
}

// labelEvents 批量标记，整批事件归并为一条分段
func (a LabelAPI) labelEvents(c *gin.Context, in *label.LabelEventsInput) (*label.LabeledSegment, error) {
	return a.labelCore.LabelEvents(c.Request.Context(), in)
}

// labelEachEvent 逐事件标记，同一份标记信息下每个事件各生成一条分段
func (a LabelAPI) labelEachEvent(c *gin.Context, in *label.LabelEventsInput) (gin.H, error) {
	items, err := a.labelCore.LabelEachEvent(c.Request.Context(), in)
	if err != nil {
		return nil, err
	}
	return gin.H{"items": items, "total": len(items)}, nil
}

func (a LabelAPI) findSegments(c *gin.Context, in *label.FindSegmentInput) (gin.H, error) {
	items, total, err := a.labelCore.FindSegments(c.Request.Context(), in)
	if err != nil {
		return nil, err
	}
	return gin.H{"items": items, "total": total}, nil
}

// findGroupedSegments 查询分段并按相邻等价规则重组为展示分组
func (a LabelAPI) findGroupedSegments(c *gin.Context, in *label.FindSegmentInput) (gin.H, error) {
	groups, err := a.labelCore.FindGroupedSegments(c.Request.Context(), in)
	if err != nil {
		return nil, err
	}
	return gin.H{"items": groups, "total": len(groups)}, nil
}

func (a LabelAPI) getSegment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		web.Fail(c, reason.ErrBadRequest.Withf("invalid id [%s]", c.Param("id")))
		return
	}
	out, err := a.labelCore.GetSegment(c.Request.Context(), id)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(200, out)
}

func (a LabelAPI) getDailyReport(c *gin.Context, in *label.DailyReportInput) (*label.DailyReportOutput, error) {
	return a.labelCore.DailyReport(c.Request.Context(), in)
}
