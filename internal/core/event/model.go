package event

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/ixugo/goddd/pkg/orm"
)

// Event 设备上报的原始检测事件，由采集链路写入，本服务只读
// timestamp 为秒级时间戳，type 为识别服务给出的分类编码，对本服务不透明
type Event struct {
	ID        int64    `gorm:"primaryKey" json:"id"`
	DeviceID  string   `gorm:"column:device_id;index" json:"device_id"`
	Timestamp int64    `gorm:"column:timestamp;index" json:"timestamp,string"`
	Type      int      `gorm:"column:type" json:"type"`
	Details   Details  `gorm:"column:details;type:text" json:"details"`
	CreatedAt orm.Time `gorm:"column:created_at" json:"created_at"`
}

func (*Event) TableName() string {
	return "events"
}

// Details 事件附加信息，JSON 存储，除基础三字段外允许任意扩展键
type Details map[string]any

func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	return string(b), err
}

func (d *Details) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*d = nil
		return nil
	default:
		return fmt.Errorf("unsupported details type %T", value)
	}
	if len(data) == 0 {
		*d = nil
		return nil
	}
	return json.Unmarshal(data, d)
}

// BaseDetails 事件详情的基础形态，标记前必须校验通过
type BaseDetails struct {
	Score       float64 `json:"score"`
	ImagePath   string  `json:"image_path"`
	ChannelName string  `json:"channel_name"`
}

// Base 按基础形态解析详情
// score 缺失或非数值、image_path/channel_name 缺失或非字符串均视为不合法
func (d Details) Base() (BaseDetails, error) {
	var out BaseDetails

	score, ok := d["score"]
	if !ok {
		return out, fmt.Errorf("missing score")
	}
	switch v := score.(type) {
	case float64:
		out.Score = v
	case int64:
		out.Score = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return out, fmt.Errorf("invalid score: %w", err)
		}
		out.Score = f
	default:
		return out, fmt.Errorf("invalid score type %T", score)
	}

	imagePath, ok := d["image_path"].(string)
	if !ok || imagePath == "" {
		return out, fmt.Errorf("missing image_path")
	}
	out.ImagePath = imagePath

	channelName, ok := d["channel_name"].(string)
	if !ok || channelName == "" {
		return out, fmt.Errorf("missing channel_name")
	}
	out.ChannelName = channelName

	return out, nil
}
