// Package sqlstore хранит агрегаты volleymatch в PostgreSQL или SQLite.
package sqlstore

import (
	"volleymatch/internal/volleymatch/ports/repositories"
	"volleymatch/pkg/persistence"
)

// RepositoryFactory создает все репозитории поверх одного подключения.
type RepositoryFactory struct {
	conn    persistence.Conn
	players *PlayerRepository
	groups  *VolleyGroupRepository
}

// NewRepositoryFactory создает новую фабрику репозиториев поверх подключения units.
func NewRepositoryFactory(units *persistence.Factory) *RepositoryFactory {
	return &RepositoryFactory{
		conn:    units.Conn(),
		players: NewPlayerRepository(units),
		groups:  NewVolleyGroupRepository(units),
	}
}

// PlayerRepository возвращает репозиторий игроков.
func (f *RepositoryFactory) PlayerRepository() repositories.PlayerRepository {
	return f.players
}

// VolleyGroupRepository возвращает репозиторий групп.
func (f *RepositoryFactory) VolleyGroupRepository() repositories.VolleyGroupRepository {
	return f.groups
}

// Conn возвращает общее подключение.
func (f *RepositoryFactory) Conn() persistence.Conn {
	return f.conn
}
