package main

import (
	"context"
	"log"
	"os"

	"coinwatch/conf"
	"coinwatch/internal/dao"
	"coinwatch/internal/exchange"
	"coinwatch/internal/handler/price"
	"coinwatch/internal/handler/ticker"
	"coinwatch/internal/handler/trade"
	"coinwatch/internal/handler/watch"
	"coinwatch/internal/middleware"
	"coinwatch/internal/model/entity"
	"coinwatch/internal/router"
	"coinwatch/internal/service"
	"coinwatch/pkg/db"
	"coinwatch/pkg/logger"
	"coinwatch/pkg/mail"
)

func main() {
	// 加载配置文件
	err := conf.LoadConfig("conf/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appCfg := conf.AppConfig
	logger.InitLogger(&appCfg.Log, appCfg.AppName)

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	if dbUser == "" || dbPass == "" || dbHost == "" {
		dbUser = appCfg.Username
		dbPass = appCfg.Db.Password
		dbHost = appCfg.Host
		dbPort = appCfg.Port
		dbName = appCfg.DbName
	}

	// 初始化数据库
	datasource := db.Init(db.Config{
		User:      dbUser,
		Password:  dbPass,
		Host:      dbHost,
		Port:      dbPort,
		DBName:    dbName,
		ParseTime: true,
	})
	if err := datasource.AutoMigrate(&entity.Execution{}, &entity.PricePoint{}); err != nil {
		logger.Fatalf("auto migrate error: %v", err)
	}

	// 行情与成交数据源
	binance, err := exchange.NewBinanceClient(
		appCfg.Binance.ApiKey,
		appCfg.Binance.SecretKey,
		appCfg.Binance.BaseURL,
		appCfg.Poll.FetchTimeout,
	)
	if err != nil {
		logger.Fatalf("init binance client error: %v", err)
	}

	executionDao := dao.NewExecutionDao(datasource)
	priceDao := dao.NewPriceDao(datasource)

	reconciler := service.NewReconcilerService(executionDao)
	alertSvc := service.NewAlertService(mail.NewSender(appCfg.Email))
	tickerHandler := ticker.NewHandler()

	poller := service.NewPollerService(binance, priceDao, alertSvc, tickerHandler, appCfg.Poll)
	syncer := service.NewSyncService(binance, executionDao, appCfg.Poll.SyncInterval)

	// 后台任务：价格轮询 + 成交同步
	ctx, cancel := context.WithCancel(context.Background())
	go poller.Run(ctx)
	go syncer.Run(ctx)

	apiRouter := router.NewApiRouter(
		trade.NewHandler(reconciler),
		price.NewHandler(binance, priceDao),
		watch.NewHandler(),
		tickerHandler,
	)

	// 创建并启动服务
	srv := NewServer(&appCfg)
	srv.RegisterOnShutdown(func() {
		cancel()
		if datasource != nil {
			// 关闭主库链接
			m, err := datasource.DB()
			if err == nil {
				_ = m.Close()
			}
		}
		logger.Sync()
	})

	srv.Run(middleware.NewMiddleware(), apiRouter)
}
