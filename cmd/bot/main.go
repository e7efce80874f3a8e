package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"dentalcare/internal/calendar"
	"dentalcare/internal/config"
	"dentalcare/internal/conversation"
	"dentalcare/internal/metrics"
	"dentalcare/internal/renderer"
	"dentalcare/internal/submit"
	"dentalcare/internal/telegram"
	"dentalcare/internal/webchat"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("DENTALCARE_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Submit.EndpointURL == "" {
		logger.Fatal().Msg("set submit.endpoint_url in config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	var store conversation.Store
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = conversation.NewRedisStore(rdb, cfg.SessionTimeout())
		logger.Info().Str("address", cfg.Redis.Address).Msg("using redis session store")
	} else {
		ms := conversation.NewMemoryStore(cfg.SessionTimeout())
		go ms.StartCleanup(ctx.Done(), 5*time.Minute)
		store = ms
	}

	opts := []submit.Option{
		submit.WithHTTPClient(&http.Client{Timeout: cfg.SubmitTimeout()}),
	}
	if cfg.Submit.RatePerSecond > 0 {
		burst := cfg.Submit.Burst
		if burst <= 0 {
			burst = 1
		}
		opts = append(opts, submit.WithRateLimit(cfg.Submit.RatePerSecond, burst))
	}
	submitter := submit.NewClient(cfg.Submit.EndpointURL, opts...)

	tz := time.Local
	if cfg.Clinic.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Clinic.Timezone); err != nil {
			logger.Warn().Err(err).Str("timezone", cfg.Clinic.Timezone).Msg("falling back to local time")
		} else {
			tz = loc
		}
	}
	links := calendar.NewBuilder(cfg.Clinic.Location, tz)

	engine := conversation.NewEngine(store, submitter, links,
		conversation.Pacing{Typing: cfg.TypingDelay(), Reset: cfg.ResetDelay()},
		logger)

	metrics.Register()
	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	running := false

	if cfg.Telegram.BotToken != "" {
		bot, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.Debug, engine, store, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("create telegram bot error")
		}
		go bot.Start(ctx)
		logger.Info().Msg("telegram bot started")
		running = true
	}

	if cfg.Webchat.ListenAddress != "" {
		go startWebchatServer(ctx, cfg.Webchat.ListenAddress, engine, store, &logger)
		logger.Info().Str("address", cfg.Webchat.ListenAddress).Msg("webchat server started")
		running = true
	}

	if !running {
		runConsole(ctx, engine, store, &logger)
		return
	}
	<-ctx.Done()
}

// runConsole drives a single interactive session on the terminal.
func runConsole(ctx context.Context, engine *conversation.Engine, store conversation.Store, logger *zerolog.Logger) {
	session, err := store.GetOrCreate("console")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create console session")
	}

	out := renderer.NewConsole(os.Stdout)
	engine.Greet(out)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := engine.HandleUtterance(ctx, session, out, scanner.Text()); err != nil {
			logger.Error().Err(err).Msg("turn failed")
		}
	}
}

func startWebchatServer(ctx context.Context, addr string, engine *conversation.Engine, store conversation.Store, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	webchat.NewHandler(engine, store, *logger).Routes(mux)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("webchat server error")
	}
}

func startHealthServer(ctx context.Context, port int, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if rdb != nil {
			ctxPing, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
