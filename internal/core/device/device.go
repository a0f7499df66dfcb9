package device

import (
	"context"
	"log/slog"

	"github.com/ixugo/goddd/domain/uniqueid"
	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/jinzhu/copier"
	"github.com/telemon/telemon/internal/core/bz"
	"gorm.io/gorm"
)

// DeviceStorer Instantiation interface
type DeviceStorer interface {
	Find(context.Context, *[]*Device, orm.Pager, ...orm.QueryOption) (int64, error)
	Get(context.Context, *Device, ...orm.QueryOption) error
	Add(context.Context, *Device) error
	Edit(context.Context, *Device, func(*Device), ...orm.QueryOption) error
	Del(context.Context, *Device, ...orm.QueryOption) error

	Session(context.Context, ...func(*gorm.DB) error) error
}

// Storer data persistence
type Storer interface {
	Device() DeviceStorer
}

// Core business domain
type Core struct {
	store Storer
	uni   uniqueid.Core
}

// NewCore create business domain
func NewCore(store Storer, uni uniqueid.Core) Core {
	return Core{store: store, uni: uni}
}

// FindDevices 分页查询设备列表
func (c Core) FindDevices(ctx context.Context, in *FindDeviceInput) ([]*Device, int64, error) {
	query := orm.NewQuery(2).OrderBy("created_at DESC")
	if in.Name != "" {
		query.Where("name LIKE ?", "%"+in.Name+"%")
	}
	if in.IsOnline != nil {
		query.Where("is_online = ?", *in.IsOnline)
	}

	items := make([]*Device, 0, in.Limit())
	total, err := c.store.Device().Find(ctx, &items, in, query.Encode()...)
	if err != nil {
		return nil, 0, reason.ErrDB.Withf(`Find in[%+v] err[%s]`, in, err.Error())
	}
	return items, total, nil
}

// GetDevice Query a single object
func (c Core) GetDevice(ctx context.Context, id string) (*Device, error) {
	var out Device
	if err := c.store.Device().Get(ctx, &out, orm.Where("id=?", id)); err != nil {
		if orm.IsErrRecordNotFound(err) {
			return nil, reason.ErrNotFound.Withf(`Get id[%v] err[%s]`, id, err.Error())
		}
		return nil, reason.ErrDB.Withf(`Get id[%v] err[%s]`, id, err.Error())
	}
	return &out, nil
}

// EditDevice Update object information
func (c Core) EditDevice(ctx context.Context, in *EditDeviceInput, id string) (*Device, error) {
	var out Device
	if err := c.store.Device().Edit(ctx, &out, func(d *Device) {
		if err := copier.Copy(d, in); err != nil {
			slog.ErrorContext(ctx, "Copy", "err", err)
		}
	}, orm.Where("id=?", id)); err != nil {
		return nil, reason.ErrDB.Withf(`Edit id[%v] err[%s]`, id, err.Error())
	}
	return &out, nil
}

// DelDevice Delete object
func (c Core) DelDevice(ctx context.Context, id string) (*Device, error) {
	var out Device
	if err := c.store.Device().Del(ctx, &out, orm.Where("id=?", id)); err != nil {
		return nil, reason.ErrDB.Withf(`Del id[%v] err[%s]`, id, err.Error())
	}
	return &out, nil
}

// Touch 事件上报时刷新设备在线状态，首次见到的设备自动登记
func (c Core) Touch(ctx context.Context, deviceID, channelName string) (*Device, error) {
	var d Device
	err := c.store.Device().Get(ctx, &d, orm.Where("device_id=?", deviceID))
	if err == nil {
		if err := c.store.Device().Edit(ctx, &d, func(d *Device) {
			d.IsOnline = true
			d.LastSeenAt = orm.Now()
			if channelName != "" {
				d.ChannelName = channelName
			}
		}, orm.Where("device_id=?", deviceID)); err != nil {
			return nil, reason.ErrDB.Withf(`Touch edit device[%s] err[%s]`, deviceID, err.Error())
		}
		return &d, nil
	}
	if !orm.IsErrRecordNotFound(err) {
		return nil, reason.ErrDB.Withf(`Touch get device[%s] err[%s]`, deviceID, err.Error())
	}

	d = Device{
		ID:          c.uni.UniqueID(bz.IDPrefixDevice),
		DeviceID:    deviceID,
		Name:        deviceID,
		ChannelName: channelName,
		IsOnline:    true,
		LastSeenAt:  orm.Now(),
	}
	if err := c.store.Device().Add(ctx, &d); err != nil {
		return nil, reason.ErrDB.Withf(`Touch add device[%s] err[%s]`, deviceID, err.Error())
	}
	return &d, nil
}
