package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JosephChoi/investment-report-sub001/internal/config"
	"github.com/JosephChoi/investment-report-sub001/internal/handler"
	"github.com/JosephChoi/investment-report-sub001/internal/infrastructure/cache"
	"github.com/JosephChoi/investment-report-sub001/internal/infrastructure/database"
	"github.com/JosephChoi/investment-report-sub001/internal/infrastructure/mq"
	"github.com/JosephChoi/investment-report-sub001/internal/job"
	"github.com/JosephChoi/investment-report-sub001/internal/logging"
	"github.com/JosephChoi/investment-report-sub001/internal/service"
	"github.com/JosephChoi/investment-report-sub001/pkg/idgen"
)

func main() {
	cfg := config.LoadConfig("config/config.yaml")
	log := logging.GetLogger()

	idgen.Init(1)

	db := database.InitMySQL(&cfg.MySQL)
	directDB := database.InitDirectMySQL(&cfg.MySQL)
	defer directDB.Close()

	redisClient := cache.InitRedis(&cfg.Redis)

	mq.InitKafka(&cfg.Kafka)
	defer mq.CloseKafka()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outboxSender := job.NewOutboxSender(db, cfg)
	go outboxSender.Start(ctx)

	ingestSvc := service.NewIngestService(db, directDB, cfg)
	overdueSvc := service.NewOverdueService(db, redisClient, cfg)
	reportSvc := service.NewReportService(db)

	h := handler.NewHandler(cfg, ingestSvc, overdueSvc, reportSvc)
	router := handler.SetupRouter(cfg, h)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Infof("server listening on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown error: %v", err)
	}

	log.Info("server stopped")
}
