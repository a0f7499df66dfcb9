package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Bootstrap 应用启动配置
type Bootstrap struct {
	ConfigPath   string `toml:"-"`
	BuildVersion string `toml:"-"`

	Server Server `toml:"server"`
	Data   Data   `toml:"data"`
	Oss    Oss    `toml:"oss"`
}

type Server struct {
	Debug    bool   `toml:"debug"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	HTTP     HTTP   `toml:"http"`
	// EventRetainDays 未标记事件保留天数，<=0 表示不清理
	EventRetainDays int `toml:"event_retain_days"`
	// Timezone 报表与展示字段使用的时区，空值取系统本地时区
	Timezone string `toml:"timezone"`
}

type HTTP struct {
	Port      int    `toml:"port"`
	JwtSecret string `toml:"jwt_secret"`
	PProf     PProf  `toml:"pprof"`
}

type PProf struct {
	Enabled   bool     `toml:"enabled"`
	AccessIps []string `toml:"access_ips"`
}

type Data struct {
	Database Database `toml:"database"`
}

type Database struct {
	Dsn             string   `toml:"dsn"`
	MaxIdleConns    int32    `toml:"max_idle_conns"`
	MaxOpenConns    int32    `toml:"max_open_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime"`
	SlowThreshold   Duration `toml:"slow_threshold"`
}

// Oss 对象存储配置，帧图片所在的桶
type Oss struct {
	Endpoint  string `toml:"endpoint"` // 空值走 AWS 默认地址，非空用于 MinIO 等自建
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// Duration toml 中以 "30s"、"5m" 形式书写
type Duration string

func (d Duration) Duration() time.Duration {
	v, err := time.ParseDuration(string(d))
	if err != nil {
		return 0
	}
	return v
}

// Location 解析配置的时区，解析失败回退本地时区
func (s Server) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// SetupConfig 读取 toml 配置文件，文件不存在时写出默认配置
func SetupConfig(path string) (*Bootstrap, error) {
	c := defaultBootstrap()
	c.ConfigPath = path

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := WriteConfig(c, path); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// WriteConfig 将当前配置写回文件
func WriteConfig(c *Bootstrap, path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultBootstrap() *Bootstrap {
	return &Bootstrap{
		Server: Server{
			HTTP:            HTTP{Port: 8080},
			EventRetainDays: 30,
		},
		Data: Data{
			Database: Database{
				Dsn:             "telemon.db",
				MaxIdleConns:    10,
				MaxOpenConns:    100,
				ConnMaxLifetime: "8h",
				SlowThreshold:   "200ms",
			},
		},
		Oss: Oss{
			Region: "us-east-1",
			Bucket: "telemon-frames",
		},
	}
}
