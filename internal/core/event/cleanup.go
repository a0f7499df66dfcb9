package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/web"
	"gorm.io/gorm"
)

// StartCleanupWorker 启动定时清理协程，启动时执行一次，此后每 24 小时执行一次
// days 指定未标记事件的保留天数，已被分段引用的事件不清理
func (c Core) StartCleanupWorker(days int) {
	if days <= 0 {
		slog.Info("event cleanup disabled", "days", days)
		return
	}

	slog.Info("event cleanup worker started", "retain_days", days)

	c.cleanupExpiredEvents(days)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanupExpiredEvents(days)
	}
}

// cleanupExpiredEvents 分批删除过期且未标记的事件
// 桶内的帧图片不随事件删除，未标记区的对象生命周期交给存储端策略
func (c Core) cleanupExpiredEvents(days int) {
	ctx := context.Background()
	cutoff := time.Now().AddDate(0, 0, -days).Unix()

	slog.Info("starting event cleanup", "cutoff", cutoff, "retain_days", days)

	batchSize := 200
	totalDeleted := 0
	totalKept := 0

	for {
		var events []*Event
		pager := web.PagerFilter{Page: 1, Size: batchSize}
		_, err := c.store.Event().Find(ctx, &events, &pager,
			orm.Where("timestamp < ?", cutoff),
		)
		if err != nil {
			slog.Error("failed to query expired events", "err", err)
			break
		}
		if len(events) == 0 {
			break
		}

		ids := make([]int64, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}

		// 已被分段引用的事件保留，避免分段的成员事件被掏空
		keep := make(map[int64]struct{})
		if c.labeled != nil {
			labeledIDs, err := c.labeled.LabeledEventIDs(ctx, ids)
			if err != nil {
				slog.Warn("failed to check labeled events", "err", err)
				break
			}
			for _, id := range labeledIDs {
				keep[id] = struct{}{}
			}
		}

		deletable := make([]int64, 0, len(ids))
		for _, id := range ids {
			if _, ok := keep[id]; !ok {
				deletable = append(deletable, id)
			}
		}
		totalKept += len(ids) - len(deletable)

		if len(deletable) == 0 {
			// 本批全部被引用，继续扫描会原地打转，直接收工
			break
		}

		err = c.store.Event().Session(ctx, func(tx *gorm.DB) error {
			return tx.Where("id IN ?", deletable).Delete(&Event{}).Error
		})
		if err != nil {
			slog.Warn("failed to batch delete events", "count", len(deletable), "err", err)
			break
		}
		totalDeleted += len(deletable)
	}

	slog.Info("event cleanup completed",
		"events_deleted", totalDeleted,
		"labeled_kept", totalKept,
	)
}
