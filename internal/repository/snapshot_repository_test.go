package repository_test

import (
	"context"
	"testing"

	"github.com/straye-as/relation-sync/internal/config"
	"github.com/straye-as/relation-sync/internal/database"
	"github.com/straye-as/relation-sync/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSnapshotDB(t *testing.T) *gorm.DB {
	db, err := database.NewDatabase(&config.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, database.DriverSQLite))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type payload struct {
	Names []string `json:"names"`
	Page  int      `json:"page"`
}

func TestSnapshotRepository_LoadMissing(t *testing.T) {
	repo := repository.NewSnapshotRepository(setupSnapshotDB(t))

	var out payload
	found, err := repo.Load(context.Background(), "clients", "list", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSnapshotRepository_SaveAndOverwrite(t *testing.T) {
	repo := repository.NewSnapshotRepository(setupSnapshotDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "clients", "list", payload{Names: []string{"Acme"}, Page: 1}))
	require.NoError(t, repo.Save(ctx, "clients", "list", payload{Names: []string{"Globex", "Initech"}, Page: 2}))

	var out payload
	found, err := repo.Load(ctx, "clients", "list", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"Globex", "Initech"}, out.Names)
	assert.Equal(t, 2, out.Page)

	_, ok, err := repo.UpdatedAt(ctx, "clients", "list")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSnapshotRepository_EntitiesAreIndependent(t *testing.T) {
	repo := repository.NewSnapshotRepository(setupSnapshotDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "clients", "list", payload{Page: 1}))
	require.NoError(t, repo.Save(ctx, "tasks", "list", payload{Page: 7}))

	var out payload
	found, err := repo.Load(ctx, "tasks", "list", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 7, out.Page)
}

func TestSnapshotRepository_Clear(t *testing.T) {
	repo := repository.NewSnapshotRepository(setupSnapshotDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "clients", "list", payload{Page: 1}))
	require.NoError(t, repo.Save(ctx, "calendar", "list", payload{Page: 1}))
	require.NoError(t, repo.Clear(ctx))

	var out payload
	found, err := repo.Load(ctx, "clients", "list", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSnapshotRepository_DecodeError(t *testing.T) {
	repo := repository.NewSnapshotRepository(setupSnapshotDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "clients", "list", []int{1, 2}))

	var out payload
	found, err := repo.Load(ctx, "clients", "list", &out)
	assert.Error(t, err)
	assert.False(t, found)
}
