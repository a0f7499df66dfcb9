package event

import (
	"github.com/ixugo/goddd/pkg/web"
)

type FindEventInput struct {
	web.PagerFilter
	DeviceID string `form:"device_id"` // 设备 ID
	Type     *int   `form:"type"`      // 检测类型编码
	StartSec int64  `form:"start_sec"` // 开始时间（秒级时间戳）
	EndSec   int64  `form:"end_sec"`   // 结束时间（秒级时间戳）
	Labeled  *bool  `form:"labeled"`   // 是否已被分段引用
}

type AddEventInput struct {
	DeviceID  string  `json:"device_id"`
	Timestamp int64   `json:"timestamp,string"`
	Type      int     `json:"type"`
	Details   Details `json:"details"`
}
