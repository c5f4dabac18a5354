package persistence_test

import (
	"context"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"volleymatch/pkg/db/postgres"
	"volleymatch/pkg/domain"
	"volleymatch/pkg/logger"
	"volleymatch/pkg/persistence"
)

type widget struct {
	domain.BaseAggregate[domain.UUID]
	name string
}

func newWidget(name string) *widget {
	return &widget{BaseAggregate: domain.NewBaseAggregate(domain.NewUUID()), name: name}
}

type widgetModel struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type widgetMapper struct{}

func (widgetMapper) ToDomain(m widgetModel) (*widget, error) {
	id, err := domain.ParseUUID(m.ID)
	if err != nil {
		return nil, err
	}
	return &widget{BaseAggregate: domain.NewBaseAggregate(id), name: m.Name}, nil
}

func (widgetMapper) ToModel(w *widget) widgetModel {
	return widgetModel{ID: w.ID().String(), Name: w.name}
}

func testContext() context.Context {
	return logger.NewContext(context.Background(), logger.NewNop())
}

func newMockConn(t *testing.T) (pgxmock.PgxPoolIface, *postgres.Conn) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, postgres.NewConn(mock)
}

func newWidgetRepository(conn persistence.Conn, units ...*persistence.Factory) *persistence.SQLRepository[domain.UUID, *widget, widgetModel] {
	var factory *persistence.Factory
	if len(units) > 0 {
		factory = units[0]
	}
	return persistence.NewSQLRepository(conn, persistence.RepositoryConfig[domain.UUID, *widget, widgetModel]{
		Entity: "Widget",
		Table: persistence.Table[widgetModel]{
			Name:    "widgets",
			Columns: []string{"id", "name"},
			Values: func(m widgetModel) []any {
				return []any{m.ID, m.Name}
			},
			DefaultOrder: "id",
		},
		Mapper: widgetMapper{},
		NewID:  domain.ParseUUID,
		SortableFields: map[string]string{
			"name": "name",
		},
		Filter: func(filter string, d persistence.Dialect) squirrel.Sqlizer {
			return squirrel.Expr("name "+d.Like+" ?", "%"+filter+"%")
		},
		Units: factory,
	})
}
