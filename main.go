package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	beego "github.com/beego/beego/v2/server/web"
	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/phitthaya2548/lottobackend/common"
	"github.com/phitthaya2548/lottobackend/common/logger"
	"github.com/phitthaya2548/lottobackend/internal/config"
	infmysql "github.com/phitthaya2548/lottobackend/internal/infra/mysql"
	infrds "github.com/phitthaya2548/lottobackend/internal/infra/redis"
	"github.com/phitthaya2548/lottobackend/internal/worker"
	_ "github.com/phitthaya2548/lottobackend/routers"
)

func main() {
	logger.InitLogger()
	defer logger.Sync()

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. 配置加载：Nacos 优先，本地文件兜底
	cfg, err := config.Load(rootCtx)
	if err != nil {
		logger.Fatalf("load config failed", zap.Error(err))
	}
	config.Set(cfg)
	config.SetCurrent(cfg)
	logger.SetLevel(cfg.Server.LogLevel)

	// 配置热更新：新配置原子替换，业务读取无锁
	if err := config.StartWatch(rootCtx, func(oldCfg, newCfg *config.Config) {
		config.Set(newCfg)
		config.SetCurrent(newCfg)
		logger.SetLevel(newCfg.Server.LogLevel)
		logger.Info("config reloaded")
	}); err != nil {
		logger.Warn("config watch not started", zap.Error(err))
	}

	// 2. MySQL 连接池
	maxIdle := cfg.Database.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	maxOpen := cfg.Database.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 50
	}
	db := common.InitDB(cfg.Database.DSN, maxIdle, maxOpen)
	infmysql.UseDB(db.DB)

	// 3. Redis（可选依赖，未配置时相关能力自动降级）
	infrds.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := infrds.Ping(rootCtx, 2*time.Second); err != nil {
		logger.Warn("redis ping failed, running degraded", zap.Error(err))
	}

	// 4. 后台任务：Outbox 事件分发
	var wg sync.WaitGroup
	worker.StartOutboxDispatcher(rootCtx, &wg)

	// 5. Prometheus 指标端口（独立于业务端口）
	if cfg.Observability.EnableProm {
		promAddr := cfg.Observability.PromAddr
		if promAddr == "" {
			promAddr = ":9091"
		}
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("prometheus metrics listening", zap.String("addr", promAddr))
			if err := http.ListenAndServe(promAddr, mux); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// 信号处理：优雅退出
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		s := <-sig
		logger.Info("shutdown signal received", zap.String("signal", s.String()))
		cancel()
	}()

	if cfg.Server.Port > 0 {
		beego.BConfig.Listen.HTTPPort = cfg.Server.Port
	}
	beego.BConfig.CopyRequestBody = true

	logger.Info("server starting", zap.Int("port", beego.BConfig.Listen.HTTPPort))
	beego.Run()

	cancel()
	wg.Wait()
}
