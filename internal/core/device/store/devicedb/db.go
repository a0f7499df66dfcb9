package devicedb

import (
	"context"
	"log/slog"

	"github.com/ixugo/goddd/pkg/orm"
	"github.com/telemon/telemon/internal/core/device"
	"gorm.io/gorm"
)

// DB 设备存储的 gorm 实现
type DB struct {
	db *gorm.DB
}

var _ device.Storer = (*DB)(nil)

func NewDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

func (d *DB) AutoMigrate(ok bool) *DB {
	if ok {
		if err := d.db.AutoMigrate(&device.Device{}); err != nil {
			slog.Error("AutoMigrate devices", "err", err)
		}
	}
	return d
}

func (d *DB) Device() device.DeviceStorer {
	return Device{db: d.db}
}

// Device implements device.DeviceStorer
type Device struct {
	db *gorm.DB
}

func (d Device) Find(ctx context.Context, items *[]*device.Device, pager orm.Pager, opts ...orm.QueryOption) (int64, error) {
	db := d.db.WithContext(ctx).Model(&device.Device{})
	for _, opt := range opts {
		db = opt(db)
	}
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return 0, err
	}
	if err := db.Offset(pager.Offset()).Limit(pager.Limit()).Find(items).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (d Device) Get(ctx context.Context, out *device.Device, opts ...orm.QueryOption) error {
	db := d.db.WithContext(ctx)
	for _, opt := range opts {
		db = opt(db)
	}
	return db.First(out).Error
}

func (d Device) Add(ctx context.Context, in *device.Device) error {
	return d.db.WithContext(ctx).Create(in).Error
}

func (d Device) Edit(ctx context.Context, out *device.Device, changeFn func(*device.Device), opts ...orm.QueryOption) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		db := tx
		for _, opt := range opts {
			db = opt(db)
		}
		if err := db.First(out).Error; err != nil {
			return err
		}
		changeFn(out)
		return tx.Save(out).Error
	})
}

func (d Device) Del(ctx context.Context, out *device.Device, opts ...orm.QueryOption) error {
	db := d.db.WithContext(ctx)
	for _, opt := range opts {
		db = opt(db)
	}
	return db.Delete(out).Error
}

func (d Device) Session(ctx context.Context, fns ...func(*gorm.DB) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, fn := range fns {
			if err := fn(tx); err != nil {
				return err
			}
		}
		return nil
	})
}
