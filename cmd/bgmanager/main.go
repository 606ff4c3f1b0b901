// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/AccelByte/extend-battleground-manager/pkg/battleground/scripts"
	"github.com/AccelByte/extend-battleground-manager/pkg/common"
	"github.com/AccelByte/extend-battleground-manager/pkg/config"
	"github.com/AccelByte/extend-battleground-manager/pkg/envelope"
	"github.com/AccelByte/extend-battleground-manager/pkg/manager"
	"github.com/AccelByte/extend-battleground-manager/pkg/metrics"
	"github.com/AccelByte/extend-battleground-manager/pkg/models"
	"github.com/AccelByte/extend-battleground-manager/pkg/statestore"
	"github.com/AccelByte/extend-battleground-manager/pkg/templates"
)

const (
	serviceName   = "bg-manager"
	healthService = "bgmanager"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("bg-manager stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile := setupLogging(cfg)
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := setupTracing(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdownTracing()

	scope := envelope.NewRootScope(ctx, "bgmanager.Start", "")
	defer scope.Finish()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bgMetrics := metrics.NewMetrics(registry)

	tables := templates.NewTables()
	if cfg.TemplateFile != "" {
		catalog, err := templates.ReadCatalogFile(cfg.TemplateFile)
		if err != nil {
			return err
		}
		result := tables.Load(scope, catalog)
		scope.Log.Infof("catalog loaded: %d rows, %d diagnostics", result.Loaded, len(result.Errors))
	} else {
		scope.Log.Warn("TEMPLATE_FILE is not set, no battleground can be created")
	}

	mgr := manager.New(manager.OptionsFromConfig(cfg), manager.Dependencies{
		Registry:    tables.Registry,
		Brackets:    tables.Brackets,
		InstanceIDs: &common.InstanceIDSequence{},
		Scripts:     &scripts.Factory{Lookup: tables.Scripts, Logger: logrus.WithField("component", "scripts")},
		Queues:      newLoggingQueueFactory(logrus.WithField("component", "queue")),
		Metrics:     bgMetrics,
		Calendar:    newStaticCalendar(cfg.ActiveHolidays),
		Logger:      logrus.NewEntry(logrus.StandardLogger()),
	})

	group, lifetime := errgroup.WithContext(ctx)

	if cfg.RedisAddress != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
		defer client.Close()
		publisher := statestore.NewPublisher(client, logrus.NewEntry(logrus.StandardLogger()))
		if err := publisher.Clear(ctx, tables.Registry.TypeIDs()); err != nil {
			scope.Log.WithError(err).Warn("failed clearing published instances")
		}
		mgr.AddListener(publisher)
		group.Go(func() error { return publisher.Run(lifetime) })
	}

	healthServer := health.NewServer()
	grpcServer := newGRPCServer(registry, healthServer)
	group.Go(func() error { return serveGRPC(lifetime, cfg.GRPCAddress, grpcServer) })
	group.Go(func() error { return serveMetrics(lifetime, cfg.MetricsAddress, registry) })
	group.Go(func() error {
		healthServer.SetServingStatus(healthService, healthpb.HealthCheckResponse_SERVING)
		defer healthServer.SetServingStatus(healthService, healthpb.HealthCheckResponse_NOT_SERVING)
		return runTicks(lifetime, mgr, cfg.TickInterval())
	})

	err = group.Wait()
	mgr.DeleteAll(scope)
	return err
}

func setupLogging(cfg *config.Config) io.Closer {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	if cfg.LogFile == "" {
		return nil
	}
	rotated := &lumberjack.Logger{
		Filename: cfg.LogFile,
		MaxSize:  100,
		MaxAge:   7,
		Compress: true,
	}
	logrus.SetOutput(io.MultiWriter(os.Stdout, rotated))
	return rotated
}

// runTicks drives the manager from one goroutine, passing the measured time since the
// previous tick.
func runTicks(ctx context.Context, mgr *manager.Manager, interval time.Duration) error {
	if interval <= 0 {
		return errors.New("tick interval must be positive")
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			mgr.Tick(ctx, now.Sub(last))
			last = now
		}
	}
}

func serveMetrics(ctx context.Context, address string, registry *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logrus.Infof("serving metrics on %s", address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

func serveGRPC(ctx context.Context, address string, server *grpc.Server) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	go func() {
		<-ctx.Done()
		server.GracefulStop()
	}()

	logrus.Infof("serving gRPC on %s", address)
	return server.Serve(listener)
}

type staticCalendar map[models.HolidayID]struct{}

func newStaticCalendar(active []int) staticCalendar {
	calendar := staticCalendar{}
	for _, id := range active {
		if id > 0 {
			calendar[models.HolidayID(id)] = struct{}{}
		}
	}
	return calendar
}

func (c staticCalendar) IsHolidayActive(holiday models.HolidayID) bool {
	_, ok := c[holiday]
	return ok
}
