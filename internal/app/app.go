package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation/internal/booking"
	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/metinatakli/seat-reservation/internal/events"
	"github.com/metinatakli/seat-reservation/internal/mailer"
	"github.com/metinatakli/seat-reservation/internal/repository"
	appvalidator "github.com/metinatakli/seat-reservation/internal/validator"
	"github.com/metinatakli/seat-reservation/internal/vcs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "seat-reservation-api"

var (
	version = vcs.Version()
)

type HoldService interface {
	HoldSeats(ctx context.Context, req booking.HoldSeatsRequest) (*booking.HoldResult, error)
}

type BookingService interface {
	Confirm(ctx context.Context, req booking.ConfirmBookingRequest) (*booking.ConfirmResult, error)
	Release(ctx context.Context, req booking.ReleaseHoldRequest) (*booking.ReleaseResult, error)
}

// Pinger is a backing service reported by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type Application struct {
	config    Config
	logger    *slog.Logger
	validator *validator.Validate

	holds    HoldService
	bookings BookingService

	components map[string]Pinger
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	validator *validator.Validate,
	holds HoldService,
	bookings BookingService,
	components map[string]Pinger) *Application {

	return &Application{
		config:     cfg,
		logger:     logger,
		validator:  validator,
		holds:      holds,
		bookings:   bookings,
		components: components,
	}
}

func Run() error {
	cfg, displayVersion, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	if displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	stdoutHandler := slog.NewTextHandler(os.Stdout, nil)
	app := &Application{
		config: cfg,
		logger: slog.New(stdoutHandler),
	}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		app.logger = slog.New(NewMultiHandler(stdoutHandler, otelslog.NewHandler(serviceName)))
	}

	logger := app.logger

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	wmLogger := events.NewLoggerAdapter(logger)

	redisPublisher, err := events.NewRedisPublisher(redisClient, wmLogger)
	if err != nil {
		return err
	}

	publisher := events.NewPublisher(redisPublisher)
	defer publisher.Close()

	reservationRepo := repository.NewPostgresReservationRepository(db)
	catalogRepo := repository.NewPostgresCatalogRepository(db)
	voucherRepo := repository.NewPostgresVoucherRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	clock := domain.SystemClock{}

	holdOpts := []booking.HoldOption{
		booking.WithHoldWindow(cfg.HoldWindow),
		booking.WithHoldEvents(publisher),
	}
	if cfg.Redis.Idempotency {
		holdOpts = append(holdOpts, booking.WithIdempotencyStore(repository.NewRedisIdempotencyStore(redisClient)))
	}

	holds := booking.NewHoldCoordinator(reservationRepo, catalogRepo, clock, logger, holdOpts...)
	bookings := booking.NewBookingOrchestrator(
		reservationRepo,
		catalogRepo,
		booking.NewVoucherValidator(voucherRepo),
		clock,
		logger,
		booking.WithBookingEvents(publisher),
	)

	smtpMailer := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.Smtp.Host,
		Port:     cfg.Smtp.Port,
		Username: cfg.Smtp.Username,
		Password: cfg.Smtp.Password,
		Sender:   cfg.Smtp.Sender,
	})

	router, err := newEventRouter(redisClient, events.NewBookingNotifier(userRepo, catalogRepo, smtpMailer, logger), logger)
	if err != nil {
		return err
	}
	defer router.Close()

	go func() {
		err := router.Run(context.Background())
		if err != nil {
			logger.Error("event router stopped", "error", err)
		}
	}()

	app = NewApp(cfg, logger, appvalidator.NewValidator(), holds, bookings, map[string]Pinger{
		"database": db,
		"redis": PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}),
	})

	return app.run()
}

func newEventRouter(rdb redis.UniversalClient, notifier *events.BookingNotifier, logger *slog.Logger) (*message.Router, error) {
	wmLogger := events.NewLoggerAdapter(logger)

	subscriber, err := events.NewRedisSubscriber(rdb, wmLogger)
	if err != nil {
		return nil, err
	}

	return events.NewRouter(subscriber, notifier, wmLogger)
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.Url,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(app.requestLogger)

	r.Get("/health", app.GetHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/holds", app.HoldSeatsHandler)

	r.Route("/reservations/{reservationId}", func(r chi.Router) {
		r.Post("/confirm", app.ConfirmBookingHandler)
		r.Post("/release", app.ReleaseHoldHandler)
	})

	return r
}
