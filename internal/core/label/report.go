package label

import (
	"context"
	"time"

	"github.com/ixugo/goddd/pkg/reason"
	"gorm.io/gorm"
)

// typeCount 用于接收 GROUP BY 查询结果
type typeCount struct {
	DetectionType DetectionType `gorm:"column:detection_type"`
	Count         int64         `gorm:"column:cnt"`
}

// DailyReport 设备某日的标记进度日报
// 已标记数按成员事件的真实时间统计，未标记数为事件总数减去已标记数
func (c Core) DailyReport(ctx context.Context, in *DailyReportInput) (*DailyReportOutput, error) {
	if in.DeviceID == "" {
		return nil, reason.ErrBadRequest.Withf("device_id is required")
	}
	day, err := time.ParseInLocation(time.DateOnly, in.Date, c.loc)
	if err != nil {
		return nil, reason.ErrBadRequest.Withf("invalid date [%s]", in.Date)
	}
	startSec := day.Unix()
	endSec := day.AddDate(0, 0, 1).Unix()

	// 按类别统计已标记事件数
	// SELECT e.detection_type, COUNT(*) FROM labeled_segment_events se
	//   JOIN labeled_segments s ON s.id = se.segment_id
	//   JOIN events ev ON ev.id = se.event_id
	//   WHERE s.device_id=? AND ev.timestamp 在当日内 GROUP BY s.detection_type
	var counts []typeCount
	err = c.store.Segment().Session(ctx, func(tx *gorm.DB) error {
		return tx.Table("labeled_segment_events AS se").
			Select("s.detection_type AS detection_type, COUNT(*) AS cnt").
			Joins("JOIN labeled_segments s ON s.id = se.segment_id").
			Joins("JOIN events ev ON ev.id = se.event_id").
			Where("s.device_id = ?", in.DeviceID).
			Where("ev.timestamp >= ? AND ev.timestamp < ?", startSec, endSec).
			Group("s.detection_type").
			Find(&counts).Error
	})
	if err != nil {
		return nil, reason.ErrDB.Withf(`DailyReport err[%s]`, err.Error())
	}

	byType := make(map[DetectionType]int64, len(counts))
	var labeled int64
	for _, c := range counts {
		byType[c.DetectionType] = c.Count
		labeled += c.Count
	}

	total, err := c.events.CountByRange(ctx, in.DeviceID, startSec, endSec)
	if err != nil {
		return nil, err
	}

	out := DailyReportOutput{
		DeviceID:      in.DeviceID,
		Date:          in.Date,
		TotalEvents:   total,
		LabeledEvents: labeled,
		Categories:    make([]CategoryCount, 0, len(AllDetectionTypes)),
	}
	if out.UnlabeledCount = total - labeled; out.UnlabeledCount < 0 {
		out.UnlabeledCount = 0
	}
	for _, t := range AllDetectionTypes {
		out.Categories = append(out.Categories, CategoryCount{DetectionType: t, Count: byType[t]})
	}
	return &out, nil
}
