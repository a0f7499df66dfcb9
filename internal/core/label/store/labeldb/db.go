package labeldb

import (
	"context"
	"log/slog"

	"github.com/ixugo/goddd/pkg/orm"
	"github.com/telemon/telemon/internal/core/label"
	"gorm.io/gorm"
)

// DB 分段存储的 gorm 实现
type DB struct {
	db *gorm.DB
}

var _ label.Storer = (*DB)(nil)

func NewDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

// AutoMigrate 按开关执行表结构迁移，分段表与成员关联表一并处理
func (d *DB) AutoMigrate(ok bool) *DB {
	if ok {
		if err := d.db.AutoMigrate(&label.LabeledSegment{}, &label.SegmentEvent{}); err != nil {
			slog.Error("AutoMigrate labeled segments", "err", err)
		}
	}
	return d
}

func (d *DB) Segment() label.SegmentStorer {
	return Segment{db: d.db}
}

// Segment implements label.SegmentStorer
type Segment struct {
	db *gorm.DB
}

func (s Segment) Find(ctx context.Context, items *[]*label.LabeledSegment, pager orm.Pager, opts ...orm.QueryOption) (int64, error) {
	db := s.db.WithContext(ctx).Model(&label.LabeledSegment{})
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

func (s Segment) Get(ctx context.Context, out *label.LabeledSegment, opts ...orm.QueryOption) error {
	db := s.db.WithContext(ctx)
	for _, opt := range opts {
		db = opt(db)
	}
	return db.First(out).Error
}

func (s Segment) Count(ctx context.Context, opts ...orm.QueryOption) (int64, error) {
	db := s.db.WithContext(ctx).Model(&label.LabeledSegment{})
	for _, opt := range opts {
		db = opt(db)
	}
	var total int64
	err := db.Count(&total).Error
	return total, err
}

func (s Segment) Session(ctx context.Context, fns ...func(*gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, fn := range fns {
			if err := fn(tx); err != nil {
				return err
			}
		}
		return nil
	})
}
