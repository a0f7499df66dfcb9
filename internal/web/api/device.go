package api

import (
	"github.com/gin-gonic/gin"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/telemon/telemon/internal/core/device"
)

// DeviceAPI 为 http 提供设备管理方法
type DeviceAPI struct {
	deviceCore device.Core
}

func NewDeviceAPI(core device.Core) DeviceAPI {
	return DeviceAPI{deviceCore: core}
}

func registerDevice(r gin.IRouter, api DeviceAPI, handler ...gin.HandlerFunc) {
	group := r.Group("/devices", handler...)
	group.GET("", web.WrapH(api.findDevices))
	group.GET("/:id", api.getDevice)
	group.PUT("/:id", api.editDevice)
	group.DELETE("/:id", api.delDevice)
}

func (a DeviceAPI) getDevice(c *gin.Context) {
	out, err := a.deviceCore.GetDevice(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(200, out)
}

func (a DeviceAPI) findDevices(c *gin.Context, in *device.FindDeviceInput) (gin.H, error) {
	items, total, err := a.deviceCore.FindDevices(c.Request.Context(), in)
	if err != nil {
		return nil, err
	}
	return gin.H{"items": items, "total": total}, nil
}

func (a DeviceAPI) editDevice(c *gin.Context) {
	var in device.EditDeviceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		web.Fail(c, err)
		return
	}
	out, err := a.deviceCore.EditDevice(c.Request.Context(), &in, c.Param("id"))
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(200, out)
}

func (a DeviceAPI) delDevice(c *gin.Context) {
	out, err := a.deviceCore.DelDevice(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(200, out)
}
