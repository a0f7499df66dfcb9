package label

import (
	"github.com/ixugo/goddd/pkg/web"
)

// LabelEventsInput 标记请求
// event_ids 为待归组的事件 id；repeat 必填；detection_type 决定哪个类别详情对象必填
type LabelEventsInput struct {
	EventIDs      []int64       `json:"event_ids"`
	DetectionType DetectionType `json:"detection_type"`
	Repeat        *bool         `json:"repeat"`
	Format        string        `json:"format"`  // 两位数字编码，可选
	Content       string        `json:"content"` // 三位数字编码，可选
	Title         string        `json:"title"`
	EpisodeID     string        `json:"episode_id"`
	SeasonID      string        `json:"season_id"`
	LabeledBy     string        `json:"labeled_by"`

	ProgramContent     *ProgramContentDetails     `json:"program_content_details"`
	CommercialBreak    *CommercialBreakDetails    `json:"commercial_break_details"`
	SpotsOutsideBreaks *SpotsOutsideBreaksDetails `json:"spots_outside_breaks_details"`
	AutoPromo          *AutoPromoDetails          `json:"auto_promo_details"`
	Song               *SongDetails               `json:"song_details"`
	Error              *ErrorDetails              `json:"error_details"`
}

// FindSegmentInput 分段查询参数，重组展示前由调用方完成筛选
type FindSegmentInput struct {
	web.PagerFilter
	DeviceID      string        `form:"device_id"`
	LabeledBy     string        `form:"labeled_by"`
	DetectionType DetectionType `form:"detection_type"`
	StartSec      int64         `form:"start_sec"` // timestamp_start 下界（秒）
	EndSec        int64         `form:"end_sec"`   // timestamp_start 上界（秒）
}

// DailyReportInput 日报查询参数
type DailyReportInput struct {
	DeviceID string `form:"device_id"`
	Date     string `form:"date"` // "2006-01-02"
}

// CategoryCount 单一类别的已标记事件计数
type CategoryCount struct {
	DetectionType DetectionType `json:"detection_type"`
	Count         int64         `json:"count"`
}

// DailyReportOutput 设备某日的标记进度汇总
type DailyReportOutput struct {
	DeviceID       string          `json:"device_id"`
	Date           string          `json:"date"`
	TotalEvents    int64           `json:"total_events"`
	LabeledEvents  int64           `json:"labeled_events"`
	UnlabeledCount int64           `json:"unlabeled_count"`
	Categories     []CategoryCount `json:"categories"`
}
