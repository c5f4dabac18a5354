package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"volleymatch/internal/volleymatch/domain/entities"
	"volleymatch/internal/volleymatch/ports/api"
	"volleymatch/internal/volleymatch/ports/repositories"
	"volleymatch/pkg/domain"
	"volleymatch/pkg/logger"
	"volleymatch/pkg/persistence"
)

const (
	msgGroupCreated = "volley group created"
	msgMemberAdded  = "player added to volley group"

	errCtxParsingGroupID = "parsing volley group id"
	errCtxFindingGroup   = "finding volley group"
	errCtxSavingGroup    = "saving volley group"
	errCtxCheckingMember = "checking member"
)

// VolleyGroupUseCaseImpl реализует api.VolleyGroupUseCase.
type VolleyGroupUseCaseImpl struct {
	groups  repositories.VolleyGroupRepository
	players api.PlayerUseCase
}

var _ api.VolleyGroupUseCase = (*VolleyGroupUseCaseImpl)(nil)

// NewVolleyGroupUseCase создает сценарии групп. Игроки читаются через players.
func NewVolleyGroupUseCase(groups repositories.VolleyGroupRepository, players api.PlayerUseCase) *VolleyGroupUseCaseImpl {
	return &VolleyGroupUseCaseImpl{groups: groups, players: players}
}

// CreateVolleyGroup создает группу. Владелец проверяется в той же единице работы.
func (u *VolleyGroupUseCaseImpl) CreateVolleyGroup(
	ctx context.Context,
	uow *persistence.UnitOfWork,
	in api.CreateVolleyGroupInput,
) (*entities.VolleyGroup, error) {
	var group *entities.VolleyGroup
	err := uow.Do(ctx, func(ctx context.Context, scope persistence.Scope) error {
		owner, err := u.players.GetPlayer(ctx, uow, in.OwnerID)
		if err != nil {
			return err
		}

		created, outcome := entities.NewVolleyGroup(entities.NewVolleyGroupInput{
			Name:        in.Name,
			Description: in.Description,
			OwnerID:     owner.ID(),
		})
		if err := outcome.Err(); err != nil {
			return err
		}
		if err := u.groups.Save(ctx, scope, created); err != nil {
			return fmt.Errorf("%s: %w", errCtxSavingGroup, err)
		}
		uow.AddAggregateRoot(created)
		group = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, msgGroupCreated,
		zap.String("group_id", group.ID().String()), zap.String("owner_id", group.OwnerID().String()))
	return group, nil
}

// AddGroupMember добавляет существующего игрока в существующую группу.
func (u *VolleyGroupUseCaseImpl) AddGroupMember(
	ctx context.Context,
	uow *persistence.UnitOfWork,
	in api.AddGroupMemberInput,
) (*entities.VolleyGroup, error) {
	groupID, err := entities.ParseVolleyGroupID(in.GroupID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxParsingGroupID, err)
	}
	playerID, err := entities.ParsePlayerID(in.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxParsingID, err)
	}

	var group *entities.VolleyGroup
	err = uow.Do(ctx, func(ctx context.Context, scope persistence.Scope) error {
		found, ok, err := u.groups.FindByID(ctx, scope, groupID)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtxFindingGroup, err)
		}
		if !ok {
			return domain.NewEntityNotFoundError(entities.VolleyGroupEntity, groupID)
		}

		if _, err := u.players.GetPlayer(ctx, uow, playerID.String()); err != nil {
			return fmt.Errorf("%s: %w", errCtxCheckingMember, err)
		}

		if err := found.AddMember(playerID); err != nil {
			return err
		}
		if err := u.groups.Update(ctx, scope, found); err != nil {
			return fmt.Errorf("%s: %w", errCtxSavingGroup, err)
		}
		uow.AddAggregateRoot(found)
		group = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, msgMemberAdded,
		zap.String("group_id", group.ID().String()), zap.String("player_id", playerID.String()))
	return group, nil
}
