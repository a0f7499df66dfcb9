package data

import (
	"context"
	"log/slog"

	"github.com/ixugo/goddd/pkg/orm"
	"github.com/telemon/telemon/internal/core/label"
	"gorm.io/gorm"
)

// MarkedEvent 旧的标记模型（用于迁移），每个事件一行、标记字段平铺
type MarkedEvent struct {
	ID            int64    `gorm:"primaryKey"`
	EventID       int64    `gorm:"column:event_id"`
	DeviceID      string   `gorm:"column:device_id"`
	Timestamp     int64    `gorm:"column:timestamp"`
	DetectionType string   `gorm:"column:detection_type"`
	Date          string   `gorm:"column:date"`
	Begin         string   `gorm:"column:begin"`
	Format        string   `gorm:"column:format"`
	Content       string   `gorm:"column:content"`
	Title         string   `gorm:"column:title"`
	EpisodeID     string   `gorm:"column:episode_id"`
	SeasonID      string   `gorm:"column:season_id"`
	Repeat        bool     `gorm:"column:repeat"`
	Details       string   `gorm:"column:details"`
	MarkedBy      string   `gorm:"column:marked_by"`
	CreatedAt     orm.Time `gorm:"column:created_at"`
}

func (*MarkedEvent) TableName() string {
	return "marked_events"
}

// MigrateMarkedEvents 迁移 marked_events 数据到 labeled_segments 表
// 旧表每行一个事件，迁移为单事件分段并补齐成员关联行
// 迁移完成后，旧表数据保留，建议手动确认后删除
func MigrateMarkedEvents(db *gorm.DB) error {
	ctx := context.Background()

	if !db.Migrator().HasTable("marked_events") {
		slog.Info("没有需要迁移的旧表数据")
		return nil
	}

	// 目标表在各 store 初始化时才建表，迁移先于 store 执行，这里先补齐
	if err := db.AutoMigrate(&label.LabeledSegment{}, &label.SegmentEvent{}); err != nil {
		return err
	}

	var rows []MarkedEvent
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		slog.Error("查询 marked_events 失败", "err", err)
		return err
	}

	migratedCount := 0
	for _, m := range rows {
		// 已迁移过的记录跳过
		var existing label.SegmentEvent
		if err := db.WithContext(ctx).Where("event_id = ?", m.EventID).First(&existing).Error; err == nil {
			slog.Debug("分段已存在，跳过", "event_id", m.EventID)
			continue
		}

		var details label.Details
		if err := details.Scan(m.Details); err != nil {
			slog.Warn("旧记录详情解析失败，按空详情迁移", "id", m.ID, "err", err)
			details = label.Details{}
		}

		segment := label.LabeledSegment{
			DeviceID:         m.DeviceID,
			OriginalEventIDs: label.Int64List{m.EventID},
			TimestampStart:   m.Timestamp,
			TimestampEnd:     m.Timestamp,
			Date:             m.Date,
			Begin:            m.Begin,
			Format:           m.Format,
			Content:          m.Content,
			Title:            m.Title,
			EpisodeID:        m.EpisodeID,
			SeasonID:         m.SeasonID,
			Repeat:           m.Repeat,
			DetectionType:    label.DetectionType(m.DetectionType),
			Details:          details,
			LabeledBy:        m.MarkedBy,
			LabeledAt:        m.CreatedAt,
			CreatedAt:        m.CreatedAt,
		}

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&segment).Error; err != nil {
				return err
			}
			return tx.Create(&label.SegmentEvent{SegmentID: segment.ID, EventID: m.EventID}).Error
		})
		if err != nil {
			slog.Error("迁移标记记录失败", "err", err, "event_id", m.EventID)
			continue
		}
		migratedCount++
	}

	slog.Info("标记数据迁移完成，旧表数据已保留，请手动确认后删除。", "total", len(rows), "migrated", migratedCount)
	return nil
}
