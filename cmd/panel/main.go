// Package main StealthNET Panel API
//
// @title           StealthNET Panel API
// @version         1.0
// @description     Сервер панели VPN-подписки: кабинет клиента и панель администратора поверх REST API бэкенда.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name sid
// @description Браузерная сессия панели.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/magabrotheeeer/stealthnet-panel/docs"
	"github.com/magabrotheeeer/stealthnet-panel/internal/app/panel"
	"github.com/magabrotheeeer/stealthnet-panel/internal/config"
	"github.com/magabrotheeeer/stealthnet-panel/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(cfg.Env)

	logger.Info("starting stealthnet-panel", slog.String("env", cfg.Env))
	logger.Debug("debug messages are enabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := panel.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("stealthnet-panel stopped gracefully")
}
