package labeldb

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ixugo/goddd/pkg/orm"
	"github.com/telemon/telemon/internal/core/label"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func generateMockDB() (*gorm.DB, sqlmock.Sqlmock, error) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
	return db, mock, err
}

func TestSegmentGet(t *testing.T) {
	db, mock, err := generateMockDB()
	if err != nil {
		t.Fatal(err)
	}
	segmentDB := NewDB(db)

	mock.ExpectQuery(`SELECT \* FROM "labeled_segments" WHERE id=\$1 (.+) LIMIT \$2`).
		WithArgs(int64(3), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_id", "detection_type"}).
			AddRow(3, "dev001", "commercial_break"))

	var out label.LabeledSegment
	if err := segmentDB.Segment().Get(context.Background(), &out, orm.Where("id=?", int64(3))); err != nil {
		t.Fatal(err)
	}
	if out.DetectionType != label.TypeCommercialBreak {
		t.Fatalf("detection_type = %s", out.DetectionType)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal("ExpectationsWereMet err:", err)
	}
}

func TestSegmentSessionCommit(t *testing.T) {
	db, mock, err := generateMockDB()
	if err != nil {
		t.Fatal(err)
	}
	segmentDB := NewDB(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err = segmentDB.Segment().Session(context.Background(), func(tx *gorm.DB) error {
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal("ExpectationsWereMet err:", err)
	}
}

func TestSegmentSessionRollback(t *testing.T) {
	db, mock, err := generateMockDB()
	if err != nil {
		t.Fatal(err)
	}
	segmentDB := NewDB(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = segmentDB.Segment().Session(context.Background(),
		func(tx *gorm.DB) error { return nil },
		func(tx *gorm.DB) error { return boom },
	)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal("ExpectationsWereMet err:", err)
	}
}
