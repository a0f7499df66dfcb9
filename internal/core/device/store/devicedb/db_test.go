package devicedb

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ixugo/goddd/pkg/orm"
	"github.com/telemon/telemon/internal/core/device"
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

func TestDeviceGet(t *testing.T) {
	db, mock, err := generateMockDB()
	if err != nil {
		t.Fatal(err)
	}
	deviceDB := NewDB(db)

	mock.ExpectQuery(`SELECT \* FROM "devices" WHERE device_id=\$1 (.+) LIMIT \$2`).
		WithArgs("dev001", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_id", "name"}).
			AddRow("dev_abc", "dev001", "lobby"))

	var out device.Device
	if err := deviceDB.Device().Get(context.Background(), &out, orm.Where("device_id=?", "dev001")); err != nil {
		t.Fatal(err)
	}
	if out.Name != "lobby" {
		t.Fatalf("name = %s", out.Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal("ExpectationsWereMet err:", err)
	}
}
