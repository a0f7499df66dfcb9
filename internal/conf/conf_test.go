package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSetupConfigWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "config.toml")

	c, err := SetupConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.HTTP.Port != 8080 {
		t.Fatalf("port = %d", c.Server.HTTP.Port)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal("default config not written:", err)
	}

	// 再次启动读取刚写出的文件
	c2, err := SetupConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c2.Data.Database.Dsn != c.Data.Database.Dsn {
		t.Fatalf("dsn = %s", c2.Data.Database.Dsn)
	}
}

func TestSetupConfigReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[server]
debug = true
event_retain_days = 7
timezone = "UTC"

[server.http]
port = 9000

[data.database]
dsn = "postgres://localhost/telemon"
conn_max_lifetime = "1h"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := SetupConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Server.Debug || c.Server.EventRetainDays != 7 {
		t.Fatalf("server = %+v", c.Server)
	}
	if c.Server.HTTP.Port != 9000 {
		t.Fatalf("port = %d", c.Server.HTTP.Port)
	}
	if got := c.Data.Database.ConnMaxLifetime.Duration(); got != time.Hour {
		t.Fatalf("conn_max_lifetime = %v", got)
	}
	if c.Server.Location() != time.UTC {
		t.Fatalf("location = %v", c.Server.Location())
	}
}

func TestDurationInvalid(t *testing.T) {
	if got := Duration("fast").Duration(); got != 0 {
		t.Fatalf("duration = %v", got)
	}
}
