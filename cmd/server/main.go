package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/app"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/config"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/handler"
	raft_service "github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/pkg/raft-service"
	grpc_service "github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/pkg/supply-grpc-service"
)

func main() {
	configPath := flag.String("config", "./samples/config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.LoadYAML(*configPath)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, nil)
	if err != nil {
		fmt.Println("System startup error:", err)
		os.Exit(1)
	}
	defer a.Close()
	logger := a.Logger

	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	handler.SetupRoutes(r, handler.NewHandler(a.System, a.Store, logger))
	r.GET(cfg.Server.MetricsPath, gin.WrapH(promhttp.Handler()))

	if cfg.Raft.Enabled {
		node, err := raft_service.NewNode(cfg.Raft, raft_service.NodeOptions{Logger: logger})
		if err != nil {
			logger.Error("raft node failed to start", "error", err)
			a.Close()
			os.Exit(1)
		}
		defer node.Close()
		handler.SetupRaftRoutes(r, handler.NewRaftHandler(node, a.Store))
	}

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: r,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	go func() {
		logger.Info("gRPC server listening", "addr", cfg.Server.GRPCAddr)
		if err := grpc_service.ListenAndServe(ctx, a.System, a.Store, cfg.Server.GRPCAddr); err != nil {
			logger.Error("grpc server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
}
