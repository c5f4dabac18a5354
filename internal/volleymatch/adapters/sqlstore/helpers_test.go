package sqlstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"volleymatch/internal/volleymatch/adapters/sqlstore"
	"volleymatch/internal/volleymatch/domain/entities"
	"volleymatch/migrations"
	"volleymatch/pkg/db/sqlite"
	"volleymatch/pkg/logger"
	"volleymatch/pkg/persistence"
)

func testContext() context.Context {
	return logger.NewContext(context.Background(), logger.NewNop())
}

// newStore открывает новую базу SQLite с примененными миграциями.
func newStore(t *testing.T) (*sqlite.Conn, *sqlstore.RepositoryFactory) {
	t.Helper()
	ctx := testContext()

	db, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "volleymatch.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })

	require.NoError(t, sqlite.Migrate(ctx, db.DB(), migrations.FS, migrations.SQLiteDir))

	conn := db.Conn()
	return conn, sqlstore.NewRepositoryFactory(persistence.NewFactory(conn))
}

func newPlayer(t *testing.T, name string) *entities.Player {
	t.Helper()
	player, outcome, err := entities.NewPlayer(entities.NewPlayerInput{UserID: uuid.NewString(), Name: name})
	require.NoError(t, err)
	require.False(t, outcome.HasErrors(), outcome.String())
	return player
}
