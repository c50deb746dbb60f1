package integration_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	pgxstd "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresPort     = "5432/tcp"
	redisPort        = "6379/tcp"
	migrationsSource = "file://../../migrations"

	// The ledger relies on this index to reject a second active row for a seat.
	activeSeatIndex = "reservations_active_seat_idx"
)

type PostgresContainer struct {
	Container        *postgres.PostgresContainer
	ConnectionString string
}

type RedisContainer struct {
	Container        *tcredis.RedisContainer
	ConnectionString string
}

func ledgerDSN(host, port string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPassword, host, port, dbName)
}

// getDbContainer starts PostgreSQL and migrates the reservation schema into it.
func getDbContainer(ctx context.Context) (*PostgresContainer, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImageName,
			ExposedPorts: []string{postgresPort},
			Env: map[string]string{
				"POSTGRES_DB":       dbName,
				"POSTGRES_USER":     dbUser,
				"POSTGRES_PASSWORD": dbPassword,
			},
			WaitingFor: wait.ForAll(
				// postgres logs readiness once for the init server and once for the real one
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForSQL(postgresPort, "pgx", func(host string, port nat.Port) string {
					return ledgerDSN(host, port.Port())
				}),
			).WithDeadline(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start ledger database: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ledger database host: %w", err)
	}

	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ledger database port: %w", err)
	}

	dsn := ledgerDSN(host, port.Port())

	err = migrateLedger(ctx, dsn)
	if err != nil {
		return nil, err
	}

	return &PostgresContainer{
		Container:        &postgres.PostgresContainer{Container: container},
		ConnectionString: dsn,
	}, nil
}

// migrateLedger applies every migration and checks that the active-seat index came with them.
func migrateLedger(ctx context.Context, dsn string) error {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return fmt.Errorf("invalid ledger dsn: %w", err)
	}

	db := pgxstd.OpenDB(*config)
	defer db.Close()

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("failed to open migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsSource, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate ledger: %w", err)
	}

	var indexed bool
	err = db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE tablename = 'reservations' AND indexname = $1)`,
		activeSeatIndex).Scan(&indexed)
	if err != nil {
		return fmt.Errorf("failed to inspect ledger indexes: %w", err)
	}

	if !indexed {
		return fmt.Errorf("migrations did not create %s", activeSeatIndex)
	}

	return nil
}

// getCacheContainer starts the Redis instance that backs idempotency receipts and event streams.
func getCacheContainer(ctx context.Context) (*RedisContainer, error) {
	container, err := tcredis.Run(ctx, cacheImageName)
	if err != nil {
		return nil, fmt.Errorf("failed to start redis: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve redis host: %w", err)
	}

	port, err := container.MappedPort(ctx, redisPort)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve redis port: %w", err)
	}

	return &RedisContainer{
		Container:        container,
		ConnectionString: fmt.Sprintf("%s:%s", host, port.Port()),
	}, nil
}
