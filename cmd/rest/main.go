package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SophiaCH21/NoteBookApp/internal/config"
	"github.com/SophiaCH21/NoteBookApp/internal/controller"
	"github.com/SophiaCH21/NoteBookApp/internal/pkg/serverutils"
	"github.com/SophiaCH21/NoteBookApp/internal/service"
	"github.com/SophiaCH21/NoteBookApp/pkg/logger/slogx"
	"github.com/SophiaCH21/NoteBookApp/pkg/token"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("parse cfg: %v", err)
	}

	if err := slogx.InitGlobal(os.Stdout, cfg.App.LogLevel, cfg.App.Pretty, slogx.ContextHandler); err != nil {
		return fmt.Errorf("init logger: %v", err)
	}

	store, err := openStorage(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open storage: %v", err)
	}
	defer store.close()

	tokens := token.NewManager([]byte(cfg.JWT.Key), cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL)

	watermillLogger := watermill.NewSlogLogger(slogx.Default().Slog())
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
	defer pubSub.Close()

	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Events.Topic)

	noteService := service.NewNoteService(store.notes, publisherService)
	authService := service.NewAuthService(store.users, tokens, cfg.Auth.BcryptCost)

	healthController := controller.NewHealthController()
	authController := controller.NewAuthController(authService)
	noteController := controller.NewNoteController(noteService, serverutils.AuthMiddleware(tokens))

	app := serverutils.NewApp(
		serverutils.AppConfig{
			BodyLimit:    cfg.HTTP.BodyLimit,
			AllowOrigins: cfg.HTTP.AllowOrigins,
		},
		healthController,
		authController,
		noteController,
	)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		slogx.Info(ctx, "http server listening", slogx.Addr(cfg.HTTP.Addr))
		return app.Listen(cfg.HTTP.Addr)
	})

	eg.Go(func() error {
		<-ctx.Done()
		slogx.Info(context.Background(), "shutting down http server")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	eg.Go(func() error {
		return consumerService.Consume(ctx)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("wait app stop: %v", err)
	}

	return nil
}
