package eventdb

import (
	"context"
	"log/slog"

	"github.com/ixugo/goddd/pkg/orm"
	"github.com/telemon/telemon/internal/core/event"
	"gorm.io/gorm"
)

// DB 事件存储的 gorm 实现
type DB struct {
	db *gorm.DB
}

var _ event.Storer = (*DB)(nil)

func NewDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

// AutoMigrate 按开关执行表结构迁移
func (d *DB) AutoMigrate(ok bool) *DB {
	if ok {
		if err := d.db.AutoMigrate(&event.Event{}); err != nil {
			slog.Error("AutoMigrate events", "err", err)
		}
	}
	return d
}

func (d *DB) Event() event.EventStorer {
	return Event{db: d.db}
}

// Event implements event.EventStorer
type Event struct {
	db *gorm.DB
}

func (e Event) Find(ctx context.Context, items *[]*event.Event, pager orm.Pager, opts ...orm.QueryOption) (int64, error) {
	db := e.db.WithContext(ctx).Model(&event.Event{})
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

func (e Event) Get(ctx context.Context, out *event.Event, opts ...orm.QueryOption) error {
	db := e.db.WithContext(ctx)
	for _, opt := range opts {
		db = opt(db)
	}
	return db.First(out).Error
}

func (e Event) Add(ctx context.Context, in *event.Event) error {
	return e.db.WithContext(ctx).Create(in).Error
}

func (e Event) Count(ctx context.Context, opts ...orm.QueryOption) (int64, error) {
	db := e.db.WithContext(ctx).Model(&event.Event{})
	for _, opt := range opts {
		db = opt(db)
	}
	var total int64
	err := db.Count(&total).Error
	return total, err
}

func (e Event) Session(ctx context.Context, fns ...func(*gorm.DB) error) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, fn := range fns {
			if err := fn(tx); err != nil {
				return err
			}
		}
		return nil
	})
}
