package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ixugo/goddd/pkg/system"
	"github.com/telemon/telemon/internal/app"
	"github.com/telemon/telemon/internal/conf"
)

// buildVersion 编译时通过 -ldflags "-X main.buildVersion=xxx" 注入
var buildVersion = "dev"

func main() {
	var configPath string
	flag.StringVar(&configPath, "conf", filepath.Join(system.Getwd(), "configs", "config.toml"), "配置文件路径")
	flag.Parse()

	bc, err := conf.SetupConfig(configPath)
	if err != nil {
		slog.Error("加载配置失败", "path", configPath, "err", err)
		os.Exit(1)
	}
	bc.BuildVersion = buildVersion

	level := slog.LevelInfo
	if bc.Server.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, bc, log); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}
