package label

import (
	"context"
	"strings"
	"time"

	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/telemon/telemon/internal/core/event"
	"gorm.io/gorm"
)

// SegmentStorer Instantiation interface
type SegmentStorer interface {
	Find(context.Context, *[]*LabeledSegment, orm.Pager, ...orm.QueryOption) (int64, error)
	Get(context.Context, *LabeledSegment, ...orm.QueryOption) error
	Count(context.Context, ...orm.QueryOption) (int64, error)

	Session(context.Context, ...func(*gorm.DB) error) error
}

// Storer data persistence
type Storer interface {
	Segment() SegmentStorer
}

// EventProvider 事件领域提供的读取能力，解耦标记领域与事件存储
type EventProvider interface {
	FetchByIDs(ctx context.Context, ids []int64) ([]*event.Event, error)
	CountByRange(ctx context.Context, deviceID string, startSec, endSec int64) (int64, error)
}

// Relocator 将帧图片从未标记区复制到已标记区，返回新引用
// 同一来源可安全重试，来源对象不会被删除
type Relocator interface {
	Relocate(ctx context.Context, sourceURI string) (string, error)
}

// Core business domain
type Core struct {
	store     Storer
	events    EventProvider
	relocator Relocator
	loc       *time.Location
}

type Option func(*Core)

// WithLocation 注入展示字段使用的时区
func WithLocation(loc *time.Location) Option {
	return func(c *Core) {
		c.loc = loc
	}
}

// NewCore create business domain
func NewCore(store Storer, events EventProvider, relocator Relocator, opts ...Option) Core {
	c := Core{
		store:     store,
		events:    events,
		relocator: relocator,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LabelEvents 将一批事件归并为一条分段记录
// 流程：校验 → 取事件（全有或全无）→ 逐帧迁移 → 合并详情 → 单条落库
// 落库失败时已复制的帧不回滚，错误信息会列出目标 key 便于人工回收
func (c Core) LabelEvents(ctx context.Context, in *LabelEventsInput) (*LabeledSegment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	events, err := c.events.FetchByIDs(ctx, in.EventIDs)
	if err != nil {
		return nil, err
	}

	// 逐事件校验详情并迁移帧，保持时间升序
	images := make([]string, 0, len(events))
	var base event.BaseDetails
	for i, e := range events {
		b, err := e.Details.Base()
		if err != nil {
			return nil, reason.ErrBadRequest.Withf("event [%d] details invalid: %s", e.ID, err.Error())
		}
		if i == 0 {
			base = b
		}
		dest, err := c.relocator.Relocate(ctx, b.ImagePath)
		if err != nil {
			return nil, reason.ErrServer.Withf("relocate event [%d] image: %s", e.ID, err.Error())
		}
		images = append(images, dest)
	}

	first, last := events[0], events[len(events)-1]
	out := c.buildSegment(in, events, base, images, first.Timestamp, last.Timestamp)

	if err := c.insertSegments(ctx, out); err != nil {
		return nil, reason.ErrDB.Withf("insert segment err[%s], copied frames kept at [%s]",
			err.Error(), strings.Join(images, ","))
	}
	return out, nil
}

// LabelEachEvent 同一份标记信息下，每个事件各生成一条分段
// 先完成全部校验与帧迁移，再在一个事务里写入所有分段
func (c Core) LabelEachEvent(ctx context.Context, in *LabelEventsInput) ([]*LabeledSegment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	events, err := c.events.FetchByIDs(ctx, in.EventIDs)
	if err != nil {
		return nil, err
	}

	bases := make([]event.BaseDetails, len(events))
	for i, e := range events {
		b, err := e.Details.Base()
		if err != nil {
			return nil, reason.ErrBadRequest.Withf("event [%d] details invalid: %s", e.ID, err.Error())
		}
		bases[i] = b
	}

	images := make([]string, len(events))
	for i, b := range bases {
		dest, err := c.relocator.Relocate(ctx, b.ImagePath)
		if err != nil {
			return nil, reason.ErrServer.Withf("relocate event [%d] image: %s", events[i].ID, err.Error())
		}
		images[i] = dest
	}

	segments := make([]*LabeledSegment, len(events))
	for i, e := range events {
		segments[i] = c.buildSegment(in, []*event.Event{e}, bases[i], images[i:i+1], e.Timestamp, e.Timestamp)
	}

	if err := c.insertSegments(ctx, segments...); err != nil {
		return nil, reason.ErrDB.Withf("insert segments err[%s], copied frames kept at [%s]",
			err.Error(), strings.Join(images, ","))
	}
	return segments, nil
}

// buildSegment 组装分段记录，events 需已按时间升序
func (c Core) buildSegment(in *LabelEventsInput, events []*event.Event, base event.BaseDetails, images []string, startSec, endSec int64) *LabeledSegment {
	ids := make(Int64List, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}

	// 首事件详情全量作为基底，类别字段覆盖其上，键冲突时类别字段赢
	details := make(Details, len(events[0].Details)+8)
	for k, v := range events[0].Details {
		details[k] = v
	}
	for k, v := range in.categoryOverlay() {
		details[k] = v
	}
	details["score"] = base.Score
	details["image_path"] = base.ImagePath
	details["channel_name"] = base.ChannelName
	details["images"] = images
	details["duration"] = endSec - startSec

	begin := time.Unix(startSec, 0).In(c.loc)
	return &LabeledSegment{
		DeviceID:         events[0].DeviceID,
		OriginalEventIDs: ids,
		TimestampStart:   startSec,
		TimestampEnd:     endSec,
		Date:             begin.Format("02 Jan 2006"),
		Begin:            begin.Format("15:04:05"),
		Format:           in.Format,
		Content:          in.Content,
		Title:            in.Title,
		EpisodeID:        in.EpisodeID,
		SeasonID:         in.SeasonID,
		Repeat:           *in.Repeat,
		DetectionType:    in.DetectionType,
		Details:          details,
		LabeledBy:        in.LabeledBy,
		LabeledAt:        orm.Now(),
	}
}

// insertSegments 分段与成员事件关联行在同一事务内写入
func (c Core) insertSegments(ctx context.Context, segments ...*LabeledSegment) error {
	return c.store.Segment().Session(ctx,
		func(tx *gorm.DB) error {
			for _, s := range segments {
				if err := tx.Create(s).Error; err != nil {
					return err
				}
			}
			return nil
		},
		func(tx *gorm.DB) error {
			rows := make([]SegmentEvent, 0, len(segments))
			for _, s := range segments {
				for _, id := range s.OriginalEventIDs {
					rows = append(rows, SegmentEvent{SegmentID: s.ID, EventID: id})
				}
			}
			return tx.Create(&rows).Error
		},
	)
}

// FindSegments 分页查询分段，按开始时间升序
func (c Core) FindSegments(ctx context.Context, in *FindSegmentInput) ([]*LabeledSegment, int64, error) {
	query := orm.NewQuery(4).OrderBy("timestamp_start ASC")

	if in.DeviceID != "" {
		query.Where("device_id = ?", in.DeviceID)
	}
	if in.LabeledBy != "" {
		query.Where("labeled_by = ?", in.LabeledBy)
	}
	if in.DetectionType != "" {
		if !in.DetectionType.Valid() {
			return nil, 0, reason.ErrBadRequest.Withf("unknown detection_type [%s]", in.DetectionType)
		}
		query.Where("detection_type = ?", in.DetectionType)
	}
	if in.StartSec > 0 && in.EndSec > 0 {
		query.Where("timestamp_start >= ? AND timestamp_start <= ?", in.StartSec, in.EndSec)
	}

	items := make([]*LabeledSegment, 0, in.Limit())
	total, err := c.store.Segment().Find(ctx, &items, in, query.Encode()...)
	if err != nil {
		return nil, 0, reason.ErrDB.Withf(`Find in[%+v] err[%s]`, in, err.Error())
	}
	return items, total, nil
}

// GetSegment Query a single object
func (c Core) GetSegment(ctx context.Context, id int64) (*LabeledSegment, error) {
	var out LabeledSegment
	if err := c.store.Segment().Get(ctx, &out, orm.Where("id=?", id)); err != nil {
		if orm.IsErrRecordNotFound(err) {
			return nil, reason.ErrNotFound.Withf(`Get id[%v] err[%s]`, id, err.Error())
		}
		return nil, reason.ErrDB.Withf(`Get id[%v] err[%s]`, id, err.Error())
	}
	return &out, nil
}

// FindGroupedSegments 查询分段并重组为展示分组
func (c Core) FindGroupedSegments(ctx context.Context, in *FindSegmentInput) ([]*Group, error) {
	items, _, err := c.FindSegments(ctx, in)
	if err != nil {
		return nil, err
	}
	return Reconcile(items), nil
}

// LabeledEventIDs 返回一批事件中已被分段引用的 id
func (c Core) LabeledEventIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []int64
	err := c.store.Segment().Session(ctx, func(tx *gorm.DB) error {
		return tx.Model(&SegmentEvent{}).
			Distinct("event_id").
			Where("event_id IN ?", ids).
			Find(&out).Error
	})
	if err != nil {
		return nil, reason.ErrDB.Withf(`LabeledEventIDs err[%s]`, err.Error())
	}
	return out, nil
}
