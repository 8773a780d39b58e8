package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/api"
	"github.com/Ettuli11/BlockDebt/pkg/clock"
	"github.com/Ettuli11/BlockDebt/pkg/config"
	"github.com/Ettuli11/BlockDebt/pkg/gateway/discord"
	"github.com/Ettuli11/BlockDebt/pkg/handlers"
	"github.com/Ettuli11/BlockDebt/pkg/loans"
	"github.com/Ettuli11/BlockDebt/pkg/logging"
	"github.com/Ettuli11/BlockDebt/pkg/middleware"
	"github.com/Ettuli11/BlockDebt/pkg/notify"
	"github.com/Ettuli11/BlockDebt/pkg/storage/backend"
	"github.com/Ettuli11/BlockDebt/pkg/sweep"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.RequireDiscord(); err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	cal, err := cfg.Calendar()
	if err != nil {
		return err
	}

	store, closeStore, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()
	logger.Info("store opened", "driver", cfg.StoreDriver, "holidays", cal.Len(), "timezone", loc.String())

	service := loans.NewService(store, clock.System{}, cal, nil, logger)

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return err
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	gw := discord.New(session, service, cfg.ChannelID, clock.System{}, logger)
	session.AddHandler(gw.OnInteraction)
	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		logger.Info("connected to discord", "user", r.User.Username, "guilds", len(r.Guilds))
	})

	notifiers := notify.Multi{gw}
	if cfg.EventsQueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return err
		}
		notifiers = append(notifiers, notify.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.EventsQueueURL))
		logger.Info("publishing loan events", "queue_url", cfg.EventsQueueURL)
	}
	service.SetNotifier(notifiers)

	if err := session.Open(); err != nil {
		return err
	}
	defer session.Close()

	if err := gw.PostPanel(); err != nil {
		logger.Warn("failed to post loans panel", "error", err)
	}

	runner, err := sweep.New(service, cfg.SweepSchedule, loc, logger)
	if err != nil {
		return err
	}
	if _, err := runner.RunOnce(ctx); err != nil {
		logger.Warn("startup accrual sweep failed", "error", err)
	}
	runner.Start()

	health, _ := store.(handlers.Pinger)
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)
	api.HandlerFromMux(handlers.NewApiHandler(service, health), router)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := runner.Stop(shutdownCtx); err != nil {
		logger.Warn("accrual sweep did not stop in time", "error", err)
	}
	return server.Shutdown(shutdownCtx)
}
