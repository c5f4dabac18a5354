package api

import (
	"context"
	"io"

	"volleymatch/internal/volleymatch/domain/entities"
	"volleymatch/pkg/persistence"
	"volleymatch/pkg/search"
)

// CreatePlayerInput - данные для регистрации игрока пользователя.
type CreatePlayerInput struct {
	UserID string
	Name   string
}

type UpdatePlayerInput struct {
	ID   string
	Name string
}

type EvaluatePlayerInput struct {
	ID    string
	Stats entities.Stats
}

// UploadAvatarInput - изображение, загружаемое как аватар игрока.
type UploadAvatarInput struct {
	PlayerID    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// PlayerUseCase определяет сценарии работы с игроками.
// Каждый сценарий выполняется в переданной единице работы.
type PlayerUseCase interface {
	CreatePlayer(ctx context.Context, uow *persistence.UnitOfWork, in CreatePlayerInput) (*entities.Player, error)
	UpdatePlayer(ctx context.Context, uow *persistence.UnitOfWork, in UpdatePlayerInput) (*entities.Player, error)
	GetPlayer(ctx context.Context, uow *persistence.UnitOfWork, id string) (*entities.Player, error)
	ListPlayers(ctx context.Context, uow *persistence.UnitOfWork, in search.Input) (search.Result[*entities.Player], error)
	DeletePlayers(ctx context.Context, uow *persistence.UnitOfWork, ids []string) error
	EvaluatePlayer(ctx context.Context, uow *persistence.UnitOfWork, in EvaluatePlayerInput) (*entities.Player, error)
	UploadPlayerAvatar(ctx context.Context, uow *persistence.UnitOfWork, in UploadAvatarInput) (*entities.Player, error)
	PlayerAvatarURL(ctx context.Context, uow *persistence.UnitOfWork, id string) (string, error)
}
