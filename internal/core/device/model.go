package device

import (
	"github.com/ixugo/goddd/pkg/orm"
)

// Device 受监控的播出监测设备
// device_id 为设备上报时自带的硬件标识，id 为系统内唯一 id
type Device struct {
	ID          string   `gorm:"primaryKey" json:"id"`
	DeviceID    string   `gorm:"column:device_id;uniqueIndex" json:"device_id"`
	Name        string   `gorm:"column:name" json:"name"`
	ChannelName string   `gorm:"column:channel_name" json:"channel_name"` // 设备监测的频道
	IsOnline    bool     `gorm:"column:is_online" json:"is_online"`
	LastSeenAt  orm.Time `gorm:"column:last_seen_at" json:"last_seen_at"`
	CreatedAt   orm.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   orm.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (*Device) TableName() string {
	return "devices"
}
