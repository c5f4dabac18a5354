package app

import (
	"context"
	"fmt"

	"volleymatch/internal/volleymatch/ports/api"
	"volleymatch/pkg/persistence"
	"volleymatch/pkg/search"
)

const errCtxReadiness = "readiness probe"

// Service собирает сценарии и фабрику единиц работы для внешних точек входа.
type Service struct {
	Units   *persistence.Factory
	Players api.PlayerUseCase
	Groups  api.VolleyGroupUseCase
}

// NewService связывает сценарии с фабрикой единиц работы.
func NewService(units *persistence.Factory, players api.PlayerUseCase, groups api.VolleyGroupUseCase) *Service {
	return &Service{Units: units, Players: players, Groups: groups}
}

// Ready читает первую страницу игроков, проверяя подключение и схему.
func (s *Service) Ready(ctx context.Context) error {
	if _, err := s.Players.ListPlayers(ctx, s.Units.New(), search.Input{PerPage: 1}); err != nil {
		return fmt.Errorf("%s: %w", errCtxReadiness, err)
	}
	return nil
}
