package label

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/ixugo/goddd/pkg/orm"
)

// DetectionType 人工标记时指派的播出内容类别，闭合集合
type DetectionType string

const (
	TypeProgramContent     DetectionType = "program_content"
	TypeCommercialBreak    DetectionType = "commercial_break"
	TypeSpotsOutsideBreaks DetectionType = "spots_outside_breaks"
	TypeAutoPromo          DetectionType = "auto_promo"
	TypeSong               DetectionType = "song"
	TypeError              DetectionType = "error"
)

// AllDetectionTypes 报表按此顺序输出各类别计数
var AllDetectionTypes = []DetectionType{
	TypeProgramContent,
	TypeCommercialBreak,
	TypeSpotsOutsideBreaks,
	TypeAutoPromo,
	TypeSong,
	TypeError,
}

func (t DetectionType) Valid() bool {
	switch t {
	case TypeProgramContent, TypeCommercialBreak, TypeSpotsOutsideBreaks,
		TypeAutoPromo, TypeSong, TypeError:
		return true
	}
	return false
}

// LabeledSegment 一次标记操作产出的分段记录，写入后不再修改
// 修正通过新建分段完成，旧记录保留为操作日志
type LabeledSegment struct {
	ID               int64         `gorm:"primaryKey" json:"id"`
	DeviceID         string        `gorm:"column:device_id;index" json:"device_id"`
	OriginalEventIDs Int64List     `gorm:"column:original_event_ids;type:text" json:"original_event_ids"`
	TimestampStart   int64         `gorm:"column:timestamp_start;index" json:"timestamp_start,string"`
	TimestampEnd     int64         `gorm:"column:timestamp_end" json:"timestamp_end,string"`
	Date             string        `gorm:"column:date" json:"date"`   // 由 timestamp_start 推导，如 "07 Mar 2025"
	Begin            string        `gorm:"column:begin" json:"begin"` // 24 小时制 HH:MM:SS
	Format           string        `gorm:"column:format" json:"format,omitempty"`   // 两位数字编码
	Content          string        `gorm:"column:content" json:"content,omitempty"` // 三位数字编码
	Title            string        `gorm:"column:title" json:"title,omitempty"`
	EpisodeID        string        `gorm:"column:episode_id" json:"episode_id,omitempty"` // 仅节目内容类别有意义
	SeasonID         string        `gorm:"column:season_id" json:"season_id,omitempty"`
	Repeat           bool          `gorm:"column:repeat" json:"repeat"`
	DetectionType    DetectionType `gorm:"column:detection_type;index" json:"detection_type"`
	Details          Details       `gorm:"column:details;type:text" json:"details"`
	LabeledBy        string        `gorm:"column:labeled_by" json:"labeled_by,omitempty"`
	LabeledAt        orm.Time      `gorm:"column:labeled_at" json:"labeled_at"`
	CreatedAt        orm.Time      `gorm:"column:created_at" json:"created_at"`
}

func (*LabeledSegment) TableName() string {
	return "labeled_segments"
}

// SegmentEvent 分段与成员事件的关联行，与分段同事务写入
// 报表与清理依赖它判断事件是否已被标记
type SegmentEvent struct {
	SegmentID int64 `gorm:"column:segment_id;primaryKey;autoIncrement:false" json:"segment_id"`
	EventID   int64 `gorm:"column:event_id;primaryKey;autoIncrement:false;index" json:"event_id"`
}

func (*SegmentEvent) TableName() string {
	return "labeled_segment_events"
}

// Int64List JSON 数组存储的 id 列表
type Int64List []int64

func (l Int64List) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *Int64List) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("unsupported list type %T", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Details 分段的合并详情，JSON 存储
// 基础字段来自首个成员事件，类别字段覆盖在其上，另带迁移后的帧列表与时长
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

func (d Details) stringField(key string) string {
	v, _ := d[key].(string)
	return v
}

// Images 迁移到已标记区后的帧引用列表，保持成员事件的时间顺序
func (d Details) Images() []string {
	raw, ok := d["images"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// validImagePath 重组展示时的详情有效性检查，帧路径缺失的分段直接跳过
func (d Details) validImagePath() bool {
	v, ok := d["image_path"].(string)
	return ok && v != ""
}

// 各类别的详情子结构，必填字段见校验逻辑

type ProgramContentDetails struct {
	Description string `json:"description"`
	FormatType  string `json:"format_type"`
	ContentType string `json:"content_type"`
}

type CommercialBreakDetails struct {
	Category string `json:"category,omitempty"`
	Sector   string `json:"sector,omitempty"`
}

type SpotsOutsideBreaksDetails struct {
	FormatType string `json:"format_type"`
	Category   string `json:"category,omitempty"`
	Sector     string `json:"sector,omitempty"`
}

type AutoPromoDetails struct {
	ContentType string `json:"content_type"`
	Category    string `json:"category,omitempty"`
}

type SongDetails struct {
	SongName             string `json:"song_name"`
	ArtistName           string `json:"artist_name"`
	MovieNameOrAlbumName string `json:"movie_name_or_album_name,omitempty"`
	YearOfPublication    string `json:"year_of_publication,omitempty"`
	Genre                string `json:"genre,omitempty"`
	Tempo                string `json:"tempo,omitempty"`
}

type ErrorDetails struct {
	ErrorType string `json:"error_type"`
}
