package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/config"
	"github.com/inkwell-cms/inkwell/database"
	"github.com/inkwell-cms/inkwell/handlers"
	"github.com/inkwell-cms/inkwell/routes"
	"github.com/inkwell-cms/inkwell/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration:", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatal("failed to init logger:", err)
	}
	defer utils.Logger.Sync()

	utils.Sugar.Infow("starting inkwell server", "port", cfg.Port)

	// Connect to MongoDB with retry.
	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.Connect(cfg); err != nil {
			dbErr = err
			utils.Sugar.Warnw("mongodb connection attempt failed", "attempt", i, "error", err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		utils.Sugar.Fatalw("failed to connect to mongodb", "error", dbErr)
	}
	defer database.Disconnect()

	utils.Sugar.Info("mongodb connected")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureIndexes(ctx); err != nil {
		cancel()
		utils.Sugar.Fatalw("failed to create indexes", "error", err)
	}
	cancel()

	if err := handlers.Init(cfg, utils.Sugar); err != nil {
		utils.Sugar.Fatalw("failed to init upload stores", "error", err)
	}

	gin.SetMode(cfg.GinMode)
	router := routes.SetupRouter(cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.Sugar.Infow("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Sugar.Fatalw("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Sugar.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.Sugar.Errorw("forced shutdown", "error", err)
	}

	utils.Sugar.Info("server stopped")
}
