package device

import (
	"github.com/ixugo/goddd/pkg/web"
)

type FindDeviceInput struct {
	web.PagerFilter
	Name     string `form:"name"`      // 设备名模糊匹配
	IsOnline *bool  `form:"is_online"` // 在线状态筛选
}

type EditDeviceInput struct {
	Name        string `json:"name"`
	ChannelName string `json:"channel_name"`
}
