//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/bagdasarian/study-groups/internal/db"
	"github.com/bagdasarian/study-groups/internal/repository/postgres"
	"github.com/bagdasarian/study-groups/internal/service"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *sql.DB {
	ctx := context.Background()

	// Поднимаем Postgres через testcontainers
	postgresContainer, err := tcpostgres.Run(ctx, "postgres:17.7",
		tcpostgres.WithDatabase("test_db"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	require.NoError(t, database.PingContext(ctx))

	// Те же миграции, что и при запуске сервиса
	require.NoError(t, db.RunMigrations(ctx, database))

	t.Cleanup(func() {
		database.Close()
		require.NoError(t, postgresContainer.Terminate(ctx))
	})

	return database
}

type services struct {
	groups      service.GroupService
	memberships service.MembershipService
}

func newServices(database *sql.DB) services {
	groupRepo := postgres.NewGroupRepository(database)
	membershipRepo := postgres.NewMembershipRepository(database)
	profileRepo := postgres.NewProfileRepository(database)
	transactor := postgres.NewTransactor(database)

	return services{
		groups:      service.NewGroupService(groupRepo, membershipRepo, profileRepo, transactor),
		memberships: service.NewMembershipService(groupRepo, membershipRepo, transactor),
	}
}

func insertProfile(t *testing.T, database *sql.DB, id, name string) {
	_, err := database.Exec(`INSERT INTO profiles (id, name, email) VALUES ($1, $2, $3)`, id, name, id+"@uni.example")
	require.NoError(t, err)
}
