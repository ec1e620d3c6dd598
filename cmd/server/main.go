package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vedran77/lawnpool/internal/config"
	"github.com/vedran77/lawnpool/internal/database"
	"github.com/vedran77/lawnpool/internal/logging"
	"github.com/vedran77/lawnpool/internal/metrics"
	"github.com/vedran77/lawnpool/internal/oauth"
	"github.com/vedran77/lawnpool/internal/repository"
	"github.com/vedran77/lawnpool/internal/repository/memory"
	postgresrepo "github.com/vedran77/lawnpool/internal/repository/postgres"
	sqliterepo "github.com/vedran77/lawnpool/internal/repository/sqlite"
	"github.com/vedran77/lawnpool/internal/service"
	"github.com/vedran77/lawnpool/internal/transport/http/handlers"
	"github.com/vedran77/lawnpool/internal/transport/http/middleware"
	"github.com/vedran77/lawnpool/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info().Str("backend", cfg.StorageBackend).Msg("storage ready")

	// Services
	authService := service.NewAuthService(store.Users, cfg.JWTSecret, cfg.JWTTTL)
	if cfg.GoogleEnabled() {
		authService.EnableGoogle(
			oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret),
			oauth.NewStateStore(cfg.OAuthStateCapacity, cfg.OAuthStateTTL),
		)
		log.Info().Msg("google sign-in enabled")
	}
	groupService := service.NewGroupService(store.Groups, store.Users)
	offerService := service.NewOfferService(store.Offers, store.Groups, store.Users)
	messageService := service.NewMessageService(store.Messages)

	// Real-time
	hub := ws.NewHub()
	defer hub.Close()

	g, gctx := errgroup.WithContext(ctx)

	var broadcaster ws.Broadcaster = hub
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}

		relay := ws.NewRedisRelay(rdb, hub)
		broadcaster = relay
		g.Go(func() error { return relay.Run(gctx) })
		log.Info().Msg("redis relay enabled")
	}
	messageService.SetNotifier(ws.NewHubNotifier(broadcaster))

	// Routes
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /ws", ws.ServeWS(hub, messageService, ws.Options{
		SendRate:       cfg.WSSendRate,
		SendBurst:      cfg.WSSendBurst,
		OriginPatterns: originPatterns(cfg.CORSOrigin),
	}))
	handlers.RegisterRoutes(mux, handlers.Services{
		Auth:     authService,
		Groups:   groupService,
		Offers:   offerService,
		Messages: messageService,
		BaseURL:  cfg.BaseURL,
	})

	var handler http.Handler = mux
	handler = middleware.Identify(authService)(handler)
	handler = middleware.CORS(cfg.CORSOrigin)(handler)
	handler = metrics.InstrumentHandler(handler)
	handler = middleware.AccessLog(handler)
	handler = chimw.Recoverer(handler)
	handler = chimw.RealIP(handler)
	handler = chimw.RequestID(handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := database.Connect(ctx, cfg.DSN())
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return postgresrepo.NewStore(pool), nil
	case config.BackendSQLite:
		db, err := sqliterepo.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqliterepo.NewStore(db), nil
	default:
		return memory.NewStore(), nil
	}
}

func originPatterns(origin string) []string {
	if origin == "" || origin == "*" {
		return nil
	}
	var patterns []string
	for _, o := range strings.Split(origin, ",") {
		o = strings.TrimSpace(o)
		// websocket matches against the host, not the full origin
		o = strings.TrimPrefix(strings.TrimPrefix(o, "https://"), "http://")
		if o != "" {
			patterns = append(patterns, o)
		}
	}
	return patterns
}
