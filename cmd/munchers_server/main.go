package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/mitchelldurbincs/NumberMunchers/internal/bootstrap"
	"github.com/mitchelldurbincs/NumberMunchers/internal/config"
	"github.com/mitchelldurbincs/NumberMunchers/internal/grpc/sessionserver"
	"github.com/mitchelldurbincs/NumberMunchers/internal/monitoring"
)

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"host":                "server.host",
	"port":                "server.port",
	"log-level":           "server.log_level",
	"max-sessions":        "server.max_sessions",
	"tick-interval-ms":    "server.tick_interval_ms",
	"auto-tick":           "server.auto_tick",
	"enable-reflection":   "server.enable_reflection",
	"leaderboard-backend": "leaderboard.backend",
	"leaderboard-path":    "leaderboard.path",
	"reveal-targets":      "development.reveal_targets",
}

func main() {
	fs := pflag.NewFlagSet("munchers_server", pflag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.String("host", "", "The server host")
	fs.Int("port", 0, "The server port")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	fs.Int("max-sessions", 0, "Maximum concurrent sessions (0 for unlimited)")
	fs.Int("tick-interval-ms", 0, "Adversary clock interval in milliseconds")
	fs.Bool("auto-tick", true, "Advance adversaries on a server-side clock")
	fs.Bool("enable-reflection", false, "Enable gRPC reflection for debugging")
	fs.String("leaderboard-backend", "", "Leaderboard backend (memory, file, sqlite)")
	fs.String("leaderboard-path", "", "Leaderboard file or database path")
	fs.Bool("reveal-targets", false, "Allow clients to request target flags")
	_ = fs.Parse(os.Args[1:])

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.BindFlags(fs, flagKeys); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply flags")
	}
	cfg := config.Get()

	bootstrap.SetupLogging(cfg.Server.LogLevel)
	logger := log.Logger

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
	logger.Info().Msg("Server shutdown complete")
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	board, closeBoard, err := bootstrap.OpenLeaderboard(cfg.Leaderboard, logger)
	if err != nil {
		return fmt.Errorf("open leaderboard: %w", err)
	}
	defer func() {
		if err := closeBoard(); err != nil {
			logger.Error().Err(err).Msg("Failed to close leaderboard")
		}
	}()

	template, err := bootstrap.GameTemplate(cfg, logger)
	if err != nil {
		return err
	}

	srv := sessionserver.NewServer(sessionserver.Options{
		Manager: sessionserver.ManagerConfig{
			MaxSessions:     cfg.Server.MaxSessions,
			TickInterval:    time.Duration(cfg.Server.TickIntervalMs) * time.Millisecond,
			AutoTick:        cfg.Server.AutoTick,
			IdleTimeout:     time.Duration(cfg.Server.SessionIdleTimeout) * time.Second,
			CleanupInterval: time.Duration(cfg.Server.CleanupInterval) * time.Second,
			LogEvents:       cfg.Development.VerboseLogging,
		},
		Template:      template,
		Leaderboard:   board,
		RevealTargets: cfg.Development.RevealTargets,
		Logger:        logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(loggingInterceptor, recoveryInterceptor),
		grpc.ChainStreamInterceptor(streamLoggingInterceptor, streamRecoveryInterceptor),
	)
	sessionserver.RegisterSessionServiceServer(grpcServer, srv)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(sessionserver.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if cfg.Server.EnableReflection {
		reflection.Register(grpcServer)
		logger.Info().Msg("gRPC reflection enabled")
	}

	monitor := monitoring.NewGoroutineMonitor(logger)
	monitor.Track("session_tickers", srv.Sessions().ActiveGoroutines)

	config.WatchConfig(func(c *config.Config) {
		if lvl, err := zerolog.ParseLevel(c.Server.LogLevel); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
		logger.Info().Str("log_level", c.Server.LogLevel).Msg("Applied config change")
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("address", lis.Addr().String()).
			Int("max_sessions", cfg.Server.MaxSessions).
			Int("tick_interval_ms", cfg.Server.TickIntervalMs).
			Bool("auto_tick", cfg.Server.AutoTick).
			Msg("gRPC server listening")
		return grpcServer.Serve(lis)
	})
	g.Go(func() error { return srv.Sessions().Run(gctx) })
	g.Go(func() error { return monitor.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down")
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(sessionserver.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

		// Give ongoing requests time to complete
		time.Sleep(time.Duration(cfg.Server.GracefulShutdownDelay) * time.Second)
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loggingInterceptor logs all unary RPC calls
func loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	log.Debug().
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("gRPC call")

	return resp, err
}

// recoveryInterceptor catches panics and returns proper gRPC errors
func recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("method", info.FullMethod).
				Interface("panic", r).
				Msg("Recovered from panic in gRPC handler")
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()

	return handler(ctx, req)
}

// streamLoggingInterceptor logs all streaming RPC calls
func streamLoggingInterceptor(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	start := time.Now()
	err := handler(srv, ss)

	log.Info().
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("gRPC stream")

	return err
}

// streamRecoveryInterceptor catches panics in streaming handlers
func streamRecoveryInterceptor(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("method", info.FullMethod).
				Interface("panic", r).
				Msg("Recovered from panic in gRPC stream handler")
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()

	return handler(srv, ss)
}
