package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recomm/internal/config"
	"recomm/internal/httpx"
	"recomm/internal/observability/logging"
	"recomm/internal/observability/metrics"
	"recomm/internal/registry"
	"recomm/internal/service"
	"recomm/internal/store"
	"recomm/internal/transport/tcp"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	apply := cfg.BindFlags(pflag.CommandLine)
	pflag.Parse()
	apply()

	logger := logging.NewLogger(logging.Config{
		ServiceName: "recomm",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	metrics.MustRegister()

	st, err := store.Open(cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		logger.Error("store open", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := st.AutoMigrate(ctx); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	hasher := service.NewPasswordHasher()
	tokens := service.NewTokenServiceHS256(service.TokenConfig{
		Issuer:     cfg.Issuer,
		TTL:        cfg.TokenTTL,
		SigningKey: []byte(cfg.SigningKey),
	})
	users := service.NewUserService(st.Users(), hasher, tokens, logger)

	reg := registry.New(logger)
	notifier := service.NewNotificationService(st.Notifications(), reg, logger)

	friendships := service.NewFriendshipService(st.Users(), st.Friendships(), notifier, logger)
	groups := service.NewGroupService(st.Groups(), st.Friendships(), st.Users(), logger)
	messages := service.NewMessageService(st.Messages(), st.Groups(), st.Users(), st.Friendships(), notifier, logger)

	dispatcher := tcp.NewDispatcher(tokens, reg, notifier, logger,
		tcp.Handlers(users, friendships, groups, messages))

	go serveMetrics(cfg.MetricsAddr, logger)

	if cfg.UDPAddr != "" {
		udpDispatcher := tcp.NewDispatcher(tokens, reg, notifier, logger,
			tcp.AuthOnlyHandlers(users))
		udp := tcp.NewUDPServer(cfg.UDPAddr, udpDispatcher, logger)
		go func() {
			if err := udp.ListenAndServe(ctx); err != nil && ctx.Err() == nil {
				logger.Error("udp server error", "error", err)
			}
		}()
	}

	srv := tcp.NewServer(cfg.Addr, dispatcher, reg, logger)
	if err := srv.ListenAndServe(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func serveMetrics(addr string, logger *slog.Logger) {
	r := chi.NewRouter()
	r.Use(httpx.LogRequests(logger))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server error", "error", err)
	}
}
