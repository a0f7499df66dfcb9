package api

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/telemon/telemon/internal/core/device"
	"github.com/telemon/telemon/internal/core/event"
	"github.com/telemon/telemon/internal/media/oss"
)

// IngestAPI 处理监测设备的事件上报回调
// 事件写入后即视为只读，标记链路只消费不修改
type IngestAPI struct {
	log        *slog.Logger
	eventCore  event.Core
	deviceCore device.Core
	oss        *oss.Client
	limiter    func(identifier string) bool
}

// NewIngestAPI 创建上报回调 API 实例
func NewIngestAPI(eventCore event.Core, deviceCore device.Core, client *oss.Client) IngestAPI {
	return IngestAPI{
		log:        slog.With("hook", "ingest"),
		eventCore:  eventCore,
		deviceCore: deviceCore,
		oss:        client,
		limiter:    web.IDRateLimiter(0.2, 1, 3*time.Minute),
	}
}

// registerIngest 注册上报路由，接收来自设备端识别服务的事件通知
func registerIngest(r gin.IRouter, api IngestAPI, handler ...gin.HandlerFunc) {
	group := r.Group("/ingest", handler...)
	group.POST("/events", web.WrapH(api.onEvents))
}

// onEvents 接收检测事件，帧图片写入未标记区，每个检测一条独立事件
func (a IngestAPI) onEvents(c *gin.Context, in *IngestEventInput) (IngestOutput, error) {
	if !a.limiter(in.DeviceID) {
		return newIngestOutputOK(), nil
	}
	ctx := c.Request.Context()

	a.log.InfoContext(ctx, "detection event",
		"device_id", in.DeviceID,
		"timestamp", in.Timestamp,
		"detection_count", len(in.Detections),
	)

	if _, err := a.deviceCore.Touch(ctx, in.DeviceID, in.ChannelName); err != nil {
		a.log.ErrorContext(ctx, "touch device failed", "device_id", in.DeviceID, "err", err)
	}

	// 帧先落桶，拿到可被迁移逻辑消费的引用
	var imagePath string
	if in.Snapshot != "" {
		uri, err := a.saveSnapshot(c, in)
		if err != nil {
			a.log.ErrorContext(ctx, "save snapshot failed", "err", err)
		} else {
			imagePath = uri
		}
	}

	for i, det := range in.Detections {
		a.log.InfoContext(ctx, "detection detail",
			"index", i,
			"type", det.Type,
			"score", det.Score,
		)

		details := event.Details{
			"score":        det.Score,
			"image_path":   imagePath,
			"channel_name": in.ChannelName,
		}
		for k, v := range det.Extra {
			if _, ok := details[k]; !ok {
				details[k] = v
			}
		}

		eventInput := &event.AddEventInput{
			DeviceID:  in.DeviceID,
			Timestamp: in.Timestamp,
			Type:      det.Type,
			Details:   details,
		}
		if _, err := a.eventCore.AddEvent(ctx, eventInput); err != nil {
			a.log.ErrorContext(ctx, "save event failed", "type", det.Type, "err", err)
		}
	}

	return newIngestOutputOK(), nil
}

// saveSnapshot 将 Base64 编码的帧写入桶内未标记区
// key: unrecognized_frames/{device_id}/{时间戳}_{随机串}.jpg
func (a IngestAPI) saveSnapshot(c *gin.Context, in *IngestEventInput) (string, error) {
	data, err := base64.StdEncoding.DecodeString(in.Snapshot)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%d_%s.jpg",
		oss.SegmentUnrecognized, in.DeviceID, in.Timestamp, uuid.NewString()[:8])
	uri, err := a.oss.PutFrame(c.Request.Context(), key, data, "image/jpeg")
	if err != nil {
		return "", err
	}

	a.log.InfoContext(c.Request.Context(), "frame saved", "key", key, "size", len(data))
	return uri, nil
}
