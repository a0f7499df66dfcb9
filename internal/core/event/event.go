package event

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/reason"
	"gorm.io/gorm"
)

// EventStorer Instantiation interface
type EventStorer interface {
	Find(context.Context, *[]*Event, orm.Pager, ...orm.QueryOption) (int64, error)
	Get(context.Context, *Event, ...orm.QueryOption) error
	Add(context.Context, *Event) error
	Count(context.Context, ...orm.QueryOption) (int64, error)

	Session(context.Context, ...func(*gorm.DB) error) error
}

// Storer data persistence
type Storer interface {
	Event() EventStorer
}

// LabeledChecker 由标记领域实现，回答一批事件中哪些已被标记
// 事件清理时用于避开已被分段引用的事件
type LabeledChecker interface {
	LabeledEventIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// Core business domain
type Core struct {
	store   Storer
	labeled LabeledChecker
}

type Option func(*Core)

// WithLabeledChecker 注入标记领域的已标记查询
func WithLabeledChecker(l LabeledChecker) Option {
	return func(c *Core) {
		c.labeled = l
	}
}

// NewCore create business domain
func NewCore(store Storer, opts ...Option) Core {
	c := Core{store: store}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// FetchByIDs 按 id 批量取事件，全有或全无
// 任一 id 不存在时返回 ErrNotFound，并列出全部缺失的 id
func (c Core) FetchByIDs(ctx context.Context, ids []int64) ([]*Event, error) {
	if len(ids) == 0 {
		return nil, reason.ErrBadRequest.Withf("event ids is required")
	}

	items := make([]*Event, 0, len(ids))
	pager := &allPager{limit: len(ids)}
	if _, err := c.store.Event().Find(ctx, &items, pager, orm.Where("id IN ?", ids)); err != nil {
		return nil, reason.ErrDB.Withf(`FetchByIDs ids[%v] err[%s]`, ids, err.Error())
	}

	if len(items) < len(ids) {
		found := make(map[int64]struct{}, len(items))
		for _, e := range items {
			found[e.ID] = struct{}{}
		}
		missing := make([]string, 0, len(ids)-len(items))
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				missing = append(missing, fmt.Sprintf("%d", id))
			}
		}
		return nil, reason.ErrNotFound.Withf("events not found: %s", strings.Join(missing, ","))
	}

	// 按时间升序，时间相同按 id 升序，保证界定首尾事件的结果稳定
	sort.Slice(items, func(i, j int) bool {
		if items[i].Timestamp == items[j].Timestamp {
			return items[i].ID < items[j].ID
		}
		return items[i].Timestamp < items[j].Timestamp
	})
	return items, nil
}

// FindEvents 分页查询事件列表，支持设备、类型与时间范围筛选
func (c Core) FindEvents(ctx context.Context, in *FindEventInput) ([]*Event, int64, error) {
	query := orm.NewQuery(4).OrderBy("timestamp DESC")

	if in.DeviceID != "" {
		query.Where("device_id = ?", in.DeviceID)
	}
	if in.Type != nil {
		query.Where("type = ?", *in.Type)
	}
	if in.StartSec > 0 && in.EndSec > 0 {
		query.Where("timestamp >= ? AND timestamp <= ?", in.StartSec, in.EndSec)
	}
	// 已标记与否以分段成员关联表为准
	if in.Labeled != nil {
		if *in.Labeled {
			query.Where("id IN (SELECT event_id FROM labeled_segment_events)")
		} else {
			query.Where("id NOT IN (SELECT event_id FROM labeled_segment_events)")
		}
	}

	items := make([]*Event, 0, in.Limit())
	total, err := c.store.Event().Find(ctx, &items, in, query.Encode()...)
	if err != nil {
		return nil, 0, reason.ErrDB.Withf(`Find in[%+v] err[%s]`, in, err.Error())
	}
	return items, total, nil
}

// GetEvent Query a single object
func (c Core) GetEvent(ctx context.Context, id int64) (*Event, error) {
	var out Event
	if err := c.store.Event().Get(ctx, &out, orm.Where("id=?", id)); err != nil {
		if orm.IsErrRecordNotFound(err) {
			return nil, reason.ErrNotFound.Withf(`Get id[%v] err[%s]`, id, err.Error())
		}
		return nil, reason.ErrDB.Withf(`Get id[%v] err[%s]`, id, err.Error())
	}
	return &out, nil
}

// AddEvent Insert into database
// 采集回调使用，事件一经写入不再修改
func (c Core) AddEvent(ctx context.Context, in *AddEventInput) (*Event, error) {
	out := Event{
		DeviceID:  in.DeviceID,
		Timestamp: in.Timestamp,
		Type:      in.Type,
		Details:   in.Details,
	}
	if err := c.store.Event().Add(ctx, &out); err != nil {
		return nil, reason.ErrDB.Withf(`Add err[%s]`, err.Error())
	}
	return &out, nil
}

// CountByRange 统计设备在时间段内的事件总数
func (c Core) CountByRange(ctx context.Context, deviceID string, startSec, endSec int64) (int64, error) {
	total, err := c.store.Event().Count(ctx,
		orm.Where("device_id = ?", deviceID),
		orm.Where("timestamp >= ? AND timestamp < ?", startSec, endSec),
	)
	if err != nil {
		return 0, reason.ErrDB.Withf(`CountByRange device[%s] err[%s]`, deviceID, err.Error())
	}
	return total, nil
}

// allPager 内部使用的分页器，避免传入 nil 导致空指针
type allPager struct {
	limit int
}

func (p *allPager) Offset() int { return 0 }
func (p *allPager) Limit() int  { return p.limit }
