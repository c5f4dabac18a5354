package api

import (
	"context"

	"volleymatch/internal/volleymatch/domain/entities"
	"volleymatch/pkg/persistence"
)

type CreateVolleyGroupInput struct {
	OwnerID     string
	Name        string
	Description string
}

type AddGroupMemberInput struct {
	GroupID  string
	PlayerID string
}

// VolleyGroupUseCase определяет сценарии работы с группами.
type VolleyGroupUseCase interface {
	CreateVolleyGroup(ctx context.Context, uow *persistence.UnitOfWork, in CreateVolleyGroupInput) (*entities.VolleyGroup, error)
	AddGroupMember(ctx context.Context, uow *persistence.UnitOfWork, in AddGroupMemberInput) (*entities.VolleyGroup, error)
}
