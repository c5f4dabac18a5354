package app_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"volleymatch/internal/volleymatch/adapters/events"
	"volleymatch/internal/volleymatch/adapters/sqlstore"
	"volleymatch/internal/volleymatch/app"
	"volleymatch/internal/volleymatch/ports/services"
	"volleymatch/migrations"
	"volleymatch/pkg/db/sqlite"
	"volleymatch/pkg/logger"
	"volleymatch/pkg/persistence"
)

type fixture struct {
	factory   *persistence.Factory
	repos     *sqlstore.RepositoryFactory
	publisher *events.MemoryPublisher
	players   *app.PlayerUseCaseImpl
	groups    *app.VolleyGroupUseCaseImpl
}

func testContext() context.Context {
	return logger.NewContext(context.Background(), logger.NewNop())
}

func newFixture(t *testing.T, images services.ImageStorage) *fixture {
	t.Helper()
	ctx := testContext()

	db, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "app.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })
	require.NoError(t, sqlite.Migrate(ctx, db.DB(), migrations.FS, migrations.SQLiteDir))

	publisher := events.NewMemoryPublisher()
	dispatcher := events.NewDispatcher(publisher)
	factory := persistence.NewFactory(db.Conn(),
		persistence.WithAfterCommit(dispatcher.Hook()),
		persistence.WithAfterRollback(dispatcher.DiscardHook()),
	)
	repos := sqlstore.NewRepositoryFactory(factory)

	players := app.NewPlayerUseCase(repos.PlayerRepository(), images, time.Minute)
	return &fixture{
		factory:   factory,
		repos:     repos,
		publisher: publisher,
		players:   players,
		groups:    app.NewVolleyGroupUseCase(repos.VolleyGroupRepository(), players),
	}
}

// mockImageStorage - подмена services.ImageStorage на testify/mock.
type mockImageStorage struct {
	mock.Mock
}

func (m *mockImageStorage) Upload(ctx context.Context, image services.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *mockImageStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockImageStorage) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}
