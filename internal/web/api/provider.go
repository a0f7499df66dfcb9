package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/ixugo/goddd/domain/uniqueid"
	"github.com/ixugo/goddd/domain/uniqueid/store/uniqueiddb"
	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/web"
	"github.com/telemon/telemon/internal/conf"
	"github.com/telemon/telemon/internal/core/device"
	"github.com/telemon/telemon/internal/core/device/store/devicedb"
	"github.com/telemon/telemon/internal/core/event"
	"github.com/telemon/telemon/internal/core/event/store/eventdb"
	"github.com/telemon/telemon/internal/core/label"
	"github.com/telemon/telemon/internal/core/label/store/labeldb"
	"github.com/telemon/telemon/internal/media/oss"
	"gorm.io/gorm"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(Usecase), "*"),
	NewHTTPHandler,
	NewUniqueID,
	NewOssClient,
	NewDeviceCore, NewDeviceAPI,
	NewEventCore, NewEventAPI,
	NewLabelCore, NewLabelAPI,
	NewIngestAPI,
	NewUserAPI,
)

type Usecase struct {
	Conf *conf.Bootstrap
	DB   *gorm.DB

	DeviceAPI DeviceAPI
	EventAPI  EventAPI
	LabelAPI  LabelAPI
	IngestAPI IngestAPI
	UserAPI   UserAPI
}

// NewHTTPHandler 生成Gin框架路由内容
func NewHTTPHandler(uc *Usecase) http.Handler {
	cfg := uc.Conf.Server
	if cfg.HTTP.JwtSecret == "" {
		uc.Conf.Server.HTTP.JwtSecret = orm.GenerateRandomString(32)
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	g := gin.New()
	// 如果启用了 Pprof，设置 Pprof 监控
	if cfg.HTTP.PProf.Enabled {
		web.SetupPProf(g, &cfg.HTTP.PProf.AccessIps)
	}

	setupRouter(g, uc)
	return g
}

// NewUniqueID 唯一 id 生成器
func NewUniqueID(db *gorm.DB) uniqueid.Core {
	return uniqueid.NewCore(uniqueiddb.NewDB(db).AutoMigrate(orm.GetEnabledAutoMigrate()), 5)
}

// NewOssClient 创建对象存储客户端
func NewOssClient(cfg *conf.Bootstrap) (*oss.Client, error) {
	return oss.NewClient(context.Background(), cfg.Oss)
}

func NewDeviceCore(db *gorm.DB, uni uniqueid.Core) device.Core {
	return device.NewCore(devicedb.NewDB(db).AutoMigrate(orm.GetEnabledAutoMigrate()), uni)
}

// NewEventCore 创建事件核心服务并启动过期清理协程
func NewEventCore(db *gorm.DB, cfg *conf.Bootstrap, labelCore label.Core) event.Core {
	core := event.NewCore(
		eventdb.NewDB(db).AutoMigrate(orm.GetEnabledAutoMigrate()),
		event.WithLabeledChecker(labelCore),
	)
	go core.StartCleanupWorker(cfg.Server.EventRetainDays)
	return core
}

// NewLabelCore 创建标记核心服务
// 事件读取走独立的 eventdb 实例，避免与 NewEventCore 构成依赖环
func NewLabelCore(db *gorm.DB, cfg *conf.Bootstrap, client *oss.Client) label.Core {
	store := labeldb.NewDB(db).AutoMigrate(orm.GetEnabledAutoMigrate())
	events := event.NewCore(eventdb.NewDB(db))
	return label.NewCore(store, events, client,
		label.WithLocation(cfg.Server.Location()),
	)
}
