package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gopkg.in/gomail.v2"

	"github.com/XuanDongVo/Rental-Home-sub000/config"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/clock"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/handlers"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/middleware"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/notify"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/payment"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/routes"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/scheduler"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/store"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/termination"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment as-is")
	}
}

func main() {
	cfg := config.Load()

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	rdb := config.ConnectRedis(cfg.RedisAddr)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Lease{},
		&models.Payment{},
		&models.TerminationPolicy{},
		&models.TerminationRequest{},
		&models.Notification{},
	); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	clk := clock.System{}
	stores := store.New(db)

	var sink notify.Sink = notify.NewStoreSink(db)
	if cfg.SMTPHost != "" {
		dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		sink = notify.Fanout{sink, notify.NewEmailSink(db, dialer, cfg.SMTPSender)}
	}

	paymentSvc := payment.NewService(stores, sink, clk)
	terminationWF := termination.NewWorkflow(stores, sink, clk)

	sched := scheduler.New(paymentSvc, clk, cfg.SchedulerInterval)
	sched.Start(context.Background())
	defer sched.Stop()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r, routes.Handlers{
		Auth:          handlers.NewAuthHandler(db, cfg.JWTSecret),
		Payments:      handlers.NewPaymentHandler(paymentSvc, stores, clk),
		Policies:      handlers.NewPolicyHandler(stores, clk),
		Terminations:  handlers.NewTerminationHandler(terminationWF),
		Notifications: handlers.NewNotificationHandler(db),
		AuthMW:        middleware.NewAuth(db, rdb, cfg.JWTSecret),
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
