//go:build integration

package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/yanqian/faq-admin/internal/infra/config"
	"github.com/yanqian/faq-admin/internal/infra/similarity"
)

func TestProvideSimilarityIndex_CleanupClosesPool(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "pgvector/pgvector:pg16",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "faq",
				"POSTGRES_USER":     "faq",
				"POSTGRES_PASSWORD": "faq",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := &config.Config{FAQ: config.FAQConfig{Postgres: config.PostgresConfig{
		DSN: fmt.Sprintf("postgres://faq:faq@%s:%s/faq?sslmode=disable", host, port.Port()),
	}}}
	idx, cleanup := provideSimilarityIndex(cfg, testLogger())
	require.IsType(t, &similarity.PostgresIndex{}, idx)

	_, err = idx.Indexed(ctx)
	require.NoError(t, err)

	cleanup()
	_, err = idx.Indexed(ctx)
	require.Error(t, err)
}
