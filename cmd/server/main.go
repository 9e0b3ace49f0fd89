package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/tbeaudouin05/stripe-paysheet/api/bootstrap"
	"github.com/tbeaudouin05/stripe-paysheet/api/config"
	"github.com/tbeaudouin05/stripe-paysheet/api/router"
)

func main() {
	if err := bootstrap.Ensure(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := bootstrap.GetLogger()
	defer logger.Sync()

	if err := serve(logger); err != nil {
		logger.Fatalw("server stopped with error", "error", err)
	}
}

func serve(logger *zap.SugaredLogger) error {
	cfg := config.AppConfig
	hs := bootstrap.GetHealth()

	grpcSrv := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, hs)
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port: %w", err)
	}
	go func() {
		logger.Infow("grpc health server has started", "addr", lis.Addr().String())
		if err := grpcSrv.Serve(lis); err != nil {
			logger.Errorw("grpc server stopped", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		s := <-quit

		logger.Infow("caught signal", "signal", s.String())
		hs.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		grpcSrv.GracefulStop()
		shutdownError <- srv.Shutdown(ctx)
	}()

	logger.Infow("server has started", "addr", srv.Addr)
	err = srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownError; err != nil {
		return err
	}

	logger.Infow("server has stopped", "addr", srv.Addr)
	return nil
}
