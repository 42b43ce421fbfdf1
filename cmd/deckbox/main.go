package main

import (
	"context"
	"log/slog"
	"os"

	"deckbox/config"
	"deckbox/internal/delivery"
	"deckbox/internal/delivery/http"
	"deckbox/internal/delivery/http/middleware"
	"deckbox/internal/delivery/http/router/handler"
	"deckbox/internal/infra/auth"
	"deckbox/internal/infra/generation"
	logs "deckbox/internal/infra/log"
	"deckbox/internal/infra/persistence/postgres"
	"deckbox/internal/infra/pubsub"
	"deckbox/internal/infra/qrcode"
	"deckbox/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewBoxRepository,
			postgres.NewCardRepository,
			postgres.NewCardTemplateRepository,
			postgres.NewElementRepository,
			postgres.NewUserRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			qrcode.NewShareService,
			generation.NewGenerationProvider,
			pubsub.NewEventPublisher,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewBoxService,
			impl.NewCardService,
			impl.NewTemplateService,
			impl.NewDesignService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewBoxHandler,
			handler.NewCardHandler,
			handler.NewTemplateHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
