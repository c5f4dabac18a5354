// Package app содержит сценарии volleymatch. Каждый сценарий получает единицу работы
// от вызывающего и выполняет все операции с хранилищем в ее области.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"volleymatch/internal/volleymatch/domain/entities"
	"volleymatch/internal/volleymatch/ports/api"
	"volleymatch/internal/volleymatch/ports/repositories"
	"volleymatch/internal/volleymatch/ports/services"
	"volleymatch/pkg/domain"
	"volleymatch/pkg/logger"
	"volleymatch/pkg/persistence"
	"volleymatch/pkg/search"
)

// DefaultAvatarURLTTL - время жизни ссылки на аватар по умолчанию.
const DefaultAvatarURLTTL = 15 * time.Minute

const (
	msgPlayerCreated       = "player created"
	msgPlayerUpdated       = "player updated"
	msgPlayerEvaluated     = "player evaluated"
	msgPlayersDeleted      = "players deleted"
	msgAvatarUploaded      = "player avatar uploaded"
	msgRemovingOrphanImage = "removing image of a failed avatar upload"
	msgOldAvatarNotRemoved = "previous avatar was not removed"

	errCtxParsingID     = "parsing player id"
	errCtxFindingPlayer = "finding player"
	errCtxSavingPlayer  = "saving player"
	errCtxUploadImage   = "uploading avatar"
)

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// PlayerUseCaseImpl реализует api.PlayerUseCase.
type PlayerUseCaseImpl struct {
	players   repositories.PlayerRepository
	images    services.ImageStorage
	avatarTTL time.Duration
}

var _ api.PlayerUseCase = (*PlayerUseCaseImpl)(nil)

// NewPlayerUseCase создает сценарии игроков. Нулевой avatarTTL заменяется DefaultAvatarURLTTL.
func NewPlayerUseCase(
	players repositories.PlayerRepository,
	images services.ImageStorage,
	avatarTTL time.Duration,
) *PlayerUseCaseImpl {
	if avatarTTL <= 0 {
		avatarTTL = DefaultAvatarURLTTL
	}
	return &PlayerUseCaseImpl{players: players, images: images, avatarTTL: avatarTTL}
}

// CreatePlayer регистрирует игрока. У пользователя может быть только один игрок.
func (u *PlayerUseCaseImpl) CreatePlayer(
	ctx context.Context,
	uow *persistence.UnitOfWork,
	in api.CreatePlayerInput,
) (*entities.Player, error) {
	player, outcome, err := entities.NewPlayer(entities.NewPlayerInput{UserID: in.UserID, Name: in.Name})
	if err != nil {
		return nil, err
	}
	if err := outcome.Err(); err != nil {
		return nil, err
	}

	err = uow.Do(ctx, func(ctx context.Context, scope persistence.Scope) error {
		_, exists, err := u.players.FindByUserID(ctx, scope, in.UserID)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxFindingPlayer, err)
		}
		if exists {
			return ErrPlayerExists
		}
		if err := u.players.Save(ctx, scope, player); err != nil {
			return fmt.Errorf("%s: %w", errCtxSavingPlayer, err)
		}
		uow.AddAggregateRoot(player)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, msgPlayerCreated, zap.String("player_id", player.ID().String()))
	return player, nil
}

// UpdatePlayer меняет имя существующего игрока.
func (u *PlayerUseCaseImpl) UpdatePlayer(
	ctx context.Context,
	uow *persistence.UnitOfWork,
	in api.UpdatePlayerInput,
) (*entities.Player, error) {
	var player *entities.Player
	err := uow.Do(ctx, func(ctx context.Context, scope persistence.Scope) error {
		var err error
		if player, err = u.GetPlayer(ctx, uow, in.ID); err != nil {
			return err
		}
		if err := player.ChangeName(in.Name).Err(); err != nil {
			return err
		}
		if err := u.players.Update(ctx, scope, player); err != nil {
			return fmt.Errorf("%s: %w", errCtxSavingPlayer, err)
		}
		uow.AddAggregateRoot(player)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, msgPlayerUpdated, zap.String("player_id", player.ID().String()))
	return player, nil
}

// GetPlayer возвращает игрока или *domain.EntityNotFoundError.
// Внутри активной единицы работы читает в ее транзакции.
func (u *PlayerUseCaseImpl) GetPlayer(ctx context.Context, uow *persistence.UnitOfWork, id string) (*entities.Player, error) {
	playerID, err := entities.ParsePlayerID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxParsingID, err)
	}

	var player *entities.Player
	err = uow.Do(ctx, func(ctx context.Context, scope persistence.Scope) error {
		found, ok, err := u.players.FindByID(ctx, scope, playerID)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxFindingPlayer, err)
		}
		if !ok {
			return domain.NewEntityNotFoundError(entities.PlayerEntity, playerID)
		}
		player = found
		return nil
	})
	return player, err
}

// ListPlayers возвращает страницу игроков. Некорректные параметры заменяются значениями по умолчанию.
func (u *PlayerUseCaseImpl) ListPlayers(
	ctx context.Context,
	uow *persistence.UnitOfWork,
	in search.Input,
) (search.Result[*entities.Player], error) {
	return u.players.Search(ctx, uow.Scope(), search.NewParams(in))
}

// DeletePlayers удаляет всех игроков ids или ни одного.
func (u *PlayerUseCaseImpl) DeletePlayers(ctx context.Context, uow *persistence.UnitOfWork, ids []string) error {
	playerIDs, err := entities.ParsePlayerIDs(ids)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtxParsingID, err)
	}

	err = uow.Do(ctx, func(ctx context.Context, scope persistence.Scope) error {
		return u.players.DeleteManyByIDs(ctx, scope, playerIDs)
	})
	if err != nil {
		return err
	}

	logger.Log(ctx).Info(ctx, msgPlayersDeleted, zap.Int("count", len(playerIDs)))
	return nil
}

// EvaluatePlayer выставляет характеристики игрока.
func (u *PlayerUseCaseImpl) EvaluatePlayer(
	ctx context.Context,
	uow *persistence.UnitOfWork,
	in api.EvaluatePlayerInput,
) (*entities.Player, error) {
	var player *entities.Player
	err := uow.Do(ctx, func(ctx context.Context, scope persistence.Scope) error {
		var err error
		if player, err = u.GetPlayer(ctx, uow, in.ID); err != nil {
			return err
		}
		if err := player.Evaluate(in.Stats).Err(); err != nil {
			return err
		}
		if err := u.players.Update(ctx, scope, player); err != nil {
			return fmt.Errorf("%s: %w", errCtxSavingPlayer, err)
		}
		uow.AddAggregateRoot(player)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, msgPlayerEvaluated,
		zap.String("player_id", player.ID().String()), zap.Int("overall", player.Overall()))
	return player, nil
}

// UploadPlayerAvatar загружает изображение и сохраняет его ключ у игрока.
// Если единица работы откатывается, загруженное изображение удаляется.
// Предыдущий аватар удаляется только после коммита внешней транзакции.
func (u *PlayerUseCaseImpl) UploadPlayerAvatar(
	ctx context.Context,
	uow *persistence.UnitOfWork,
	in api.UploadAvatarInput,
) (*entities.Player, error) {
	ext, ok := avatarExtensions[in.ContentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImage, in.ContentType)
	}
	log := logger.Log(ctx).With(zap.String("player_id", in.PlayerID))

	var (
		player *entities.Player
		key    string
	)
	err := uow.Do(ctx, func(ctx context.Context, scope persistence.Scope) error {
		var err error
		if player, err = u.GetPlayer(ctx, uow, in.PlayerID); err != nil {
			return err
		}

		key = fmt.Sprintf("players/%s/%s%s", player.ID(), uuid.NewString(), ext)
		err = u.images.Upload(ctx, services.Image{
			Key:         key,
			ContentType: in.ContentType,
			Size:        in.Size,
			Body:        in.Body,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxUploadImage, err)
		}
		uploaded := key
		uow.OnRollback(func(ctx context.Context) {
			log.Warn(ctx, msgRemovingOrphanImage, zap.String("key", uploaded))
			if err := u.images.Delete(ctx, uploaded); err != nil {
				log.Error(ctx, msgRemovingOrphanImage, zap.String("key", uploaded), zap.Error(err))
			}
		})

		previous := player.AvatarKey()
		player.ChangeAvatar(key)
		if err := u.players.Update(ctx, scope, player); err != nil {
			return fmt.Errorf("%s: %w", errCtxSavingPlayer, err)
		}

		if previous != "" {
			uow.OnCommit(ctx, func(ctx context.Context) {
				if err := u.images.Delete(ctx, previous); err != nil {
					log.Warn(ctx, msgOldAvatarNotRemoved, zap.String("key", previous), zap.Error(err))
				}
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(ctx, msgAvatarUploaded, zap.String("key", key))
	return player, nil
}

// PlayerAvatarURL возвращает временную ссылку на аватар игрока.
func (u *PlayerUseCaseImpl) PlayerAvatarURL(ctx context.Context, uow *persistence.UnitOfWork, id string) (string, error) {
	player, err := u.GetPlayer(ctx, uow, id)
	if err != nil {
		return "", err
	}
	if player.AvatarKey() == "" {
		return "", ErrNoAvatar
	}
	return u.images.PresignedURL(ctx, player.AvatarKey(), u.avatarTTL)
}
