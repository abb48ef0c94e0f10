package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hraza-dev/shopping_center/internal/catalog"
	"github.com/hraza-dev/shopping_center/internal/config"
	"github.com/hraza-dev/shopping_center/internal/es"
	"github.com/hraza-dev/shopping_center/internal/logging"
	"github.com/hraza-dev/shopping_center/internal/mailer"
	"github.com/hraza-dev/shopping_center/internal/mykafka"
	"github.com/hraza-dev/shopping_center/internal/service/token"
	transport "github.com/hraza-dev/shopping_center/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("db init failed", "error", err)
		os.Exit(1)
	}

	var producer *mykafka.Producer
	if cfg.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS})
		defer producer.Close()
	} else {
		logger.Warn("KAFKA_ADDRESS not set, events disabled")
	}

	esClient, err := es.NewClient(cfg)
	if err != nil {
		// Search degrades to 503, the rest of the API stays up.
		logger.Warn("elasticsearch unavailable", "error", err)
		esClient = nil
	}

	deps := transport.Deps{
		DB:       db,
		Store:    &catalog.Store{DB: db},
		Tokens:   &token.Service{DB: db, JWTSecret: []byte(cfg.JWT_SECRET), RefreshSecret: []byte(cfg.REFRESH_SECRET)},
		Producer: producer,
		ES:       esClient,
		ESIndex:  "products",
		Mailer: &mailer.SMTPMailer{
			Addr:     cfg.SMTP_ADDR,
			From:     cfg.SMTP_FROM,
			Username: cfg.SMTP_USER,
			Password: cfg.SMTP_PASSWORD,
		},
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(logging.RequestLogger(logger))
	transport.Register(e, deps)

	go func() {
		if err := e.Start(cfg.HTTP_ADDR); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()
	logger.Info("server started", "addr", cfg.HTTP_ADDR)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
