//go:build integration

package repository

import (
	"context"
	"testing"

	"datumtrans-api/internal/mesh"
	"datumtrans-api/internal/trans"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections"),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		postgresC.Terminate(ctx)
	})

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)

	port, err := postgresC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

func TestRepository_SaveLoadRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.CreateSchema(ctx))

	original, err := trans.New(mesh.UnitFive, map[int]trans.Parameter{
		54401005: {Latitude: -0.00622, Longitude: 0.01516, Altitude: 0.0946},
		54401055: {Latitude: -0.0062, Longitude: 0.01529, Altitude: 0.08972},
		54401100: {Latitude: -0.00663, Longitude: 0.01492, Altitude: 0.10374},
		54401150: {Latitude: -0.00664, Longitude: 0.01506, Altitude: 0.10087},
	}, "for the crustal deformation")
	require.NoError(t, err)
	original.Format = trans.SemiDynaEXE

	require.NoError(t, repo.SaveParameterSet(ctx, "semidyna2023", original))

	loaded, err := repo.LoadParameterSet(ctx, "semidyna2023")
	require.NoError(t, err)
	assert.Equal(t, original.Unit, loaded.Unit)
	assert.Equal(t, original.Format, loaded.Format)
	assert.Equal(t, original.Description, loaded.Description)
	assert.Equal(t, original.Parameter, loaded.Parameter)
}

func TestRepository_SaveReplacesParameters(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.CreateSchema(ctx))

	first, err := trans.New(mesh.UnitOne, map[int]trans.Parameter{
		54401027: {Latitude: 11.49105, Longitude: -11.80078},
		54401028: {Latitude: 11.49096, Longitude: -11.80476},
	}, "")
	require.NoError(t, err)
	first.Format = trans.TKY2JGD
	require.NoError(t, repo.SaveParameterSet(ctx, "tky2jgd", first))

	second, err := trans.New(mesh.UnitOne, map[int]trans.Parameter{
		54401037: {Latitude: 11.48732, Longitude: -11.80198},
	}, "revised")
	require.NoError(t, err)
	second.Format = trans.TKY2JGD
	require.NoError(t, repo.SaveParameterSet(ctx, "tky2jgd", second))

	loaded, err := repo.LoadParameterSet(ctx, "tky2jgd")
	require.NoError(t, err)
	assert.Equal(t, second.Parameter, loaded.Parameter)
	assert.Equal(t, "revised", loaded.Description)

	infos, err := repo.ListParameterSets(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "tky2jgd", infos[0].Name)
	assert.Equal(t, 1, infos[0].Count)
}

func TestRepository_LoadUnknownSet(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.CreateSchema(ctx))

	_, err := repo.LoadParameterSet(ctx, "no-such-set")
	assert.ErrorIs(t, err, ErrNotFound)
}
