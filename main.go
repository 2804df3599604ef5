package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/mithaasdelights/mithaas-backend-go/config"
	"github.com/mithaasdelights/mithaas-backend-go/database"
	"github.com/mithaasdelights/mithaas-backend-go/handlers"
	"github.com/mithaasdelights/mithaas-backend-go/middleware"
	"github.com/mithaasdelights/mithaas-backend-go/routes"
	"github.com/mithaasdelights/mithaas-backend-go/utils"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	if err := database.ConnectDB(cfg.MongoURL, cfg.DBName); err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.Disconnect(ctx); err != nil {
			log.WithError(err).Warn("error disconnecting from MongoDB")
		}
	}()

	handlers.Gateway = utils.NewPaymentGateway(cfg.RazorpayKey, cfg.RazorpaySec)
	if handlers.Gateway.Mock() {
		log.Warn("Razorpay credentials not set, payment gateway runs in mock mode")
	}

	if err := handlers.InitChat(context.Background(), cfg.GeminiAPIKey); err != nil {
		log.WithError(err).Warn("chat assistant unavailable")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.PrometheusMiddleware)

	routes.SetupRoutes(e)

	log.WithField("port", cfg.Port).Info("starting Mithaas Delights backend")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
