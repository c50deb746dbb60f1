package integration_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation/internal/app"
	"github.com/metinatakli/seat-reservation/internal/booking"
	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/metinatakli/seat-reservation/internal/events"
	"github.com/metinatakli/seat-reservation/internal/mailer"
	"github.com/metinatakli/seat-reservation/internal/repository"
	appvalidator "github.com/metinatakli/seat-reservation/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App    *app.Application
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Mailer *mailer.MockMailer
	Holds  *booking.HoldCoordinator

	router    *message.Router
	publisher *events.Publisher
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	wmLogger := events.NewLoggerAdapter(logger)
	mockMailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	redisPublisher, err := events.NewRedisPublisher(redisClient, wmLogger)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}
	publisher := events.NewPublisher(redisPublisher)

	reservationRepo := repository.NewPostgresReservationRepository(db)
	catalogRepo := repository.NewPostgresCatalogRepository(db)
	voucherRepo := repository.NewPostgresVoucherRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	clock := domain.SystemClock{}

	holds := booking.NewHoldCoordinator(reservationRepo, catalogRepo, clock, logger,
		booking.WithHoldWindow(cfg.HoldWindow),
		booking.WithIdempotencyStore(repository.NewRedisIdempotencyStore(redisClient)),
		booking.WithHoldEvents(publisher),
	)

	bookings := booking.NewBookingOrchestrator(
		reservationRepo,
		catalogRepo,
		booking.NewVoucherValidator(voucherRepo),
		clock,
		logger,
		booking.WithBookingEvents(publisher),
	)

	subscriber, err := events.NewRedisSubscriber(redisClient, wmLogger)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	router, err := events.NewRouter(subscriber, events.NewBookingNotifier(userRepo, catalogRepo, mockMailer, logger), wmLogger)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	go router.Run(context.Background())
	<-router.Running()

	application := app.NewApp(
		cfg,
		logger,
		appvalidator.NewValidator(),
		holds,
		bookings,
		map[string]app.Pinger{"database": db},
	)

	return &TestApp{
		App:       application,
		DB:        db,
		Redis:     redisClient,
		Mailer:    mockMailer,
		Holds:     holds,
		router:    router,
		publisher: publisher,
	}, nil
}

func (a *TestApp) Close() {
	a.router.Close()
	a.publisher.Close()
	a.Redis.Close()
	a.DB.Close()
}
