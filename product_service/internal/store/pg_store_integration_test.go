package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "PRODUCT_SVC_SKIP_INTEGRATION_TESTS"

// PgStoreSuite runs the store contract against PostgreSQL in a container.
type PgStoreSuite struct {
	contractSuite
	pgContainer *postgres.PostgresContainer // PostgreSQL container for integration tests
	dbPool      *pgxpool.Pool               // PostgreSQL connection pool for integration tests
	logger      *slog.Logger                // Logger for the test suite
}

// SetupSuite starts PostgreSQL, applies the embedded migrations and creates the store.
func (s *PgStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// 1. Start a PostgreSQL container with the specified configuration. Wait for the container to be ready.
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("products"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	// 2. Get the connection string from the container
	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	// 3. Create a pool and wait until the database answers
	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")
	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		if err = s.dbPool.Ping(s.ctx); err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	// 4. Database migration
	require.NoError(s.T(), Migrate(connStr), "Failed to apply migrations")
	require.NoError(s.T(), Migrate(connStr), "Repeated migration must be a no-op")

	s.store = NewPgStore(s.dbPool)
	s.logger.Info("Initialization complete for PgStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *PgStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest prepares the database for each test by truncating the products table.
func (s *PgStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE products")
	require.NoError(s.T(), err, "Failed to truncate products table")
}

func (s *PgStoreSuite) TestDeleteByID_KeepsTombstone() {
	s.createTestProduct(playstation())
	require.NoError(s.T(), s.store.DeleteByID(s.ctx, 1))

	var deleted bool
	err := s.dbPool.QueryRow(s.ctx, "SELECT deleted_at IS NOT NULL FROM products WHERE id = 1").Scan(&deleted)
	require.NoError(s.T(), err)
	require.True(s.T(), deleted, "Row must be kept with deleted_at set")
}

func TestPgStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PgStoreSuite))
}
