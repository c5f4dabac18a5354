package entities

import (
	"slices"

	"volleymatch/pkg/domain"
)

// Имена сущностей группы в ошибках.
const (
	VolleyGroupEntity = "VolleyGroup"
	GameEntity        = "Game"
)

// VolleyGroupField перечисляет проверяемые поля группы.
type VolleyGroupField string

const (
	VolleyGroupFieldName        VolleyGroupField = "name"
	VolleyGroupFieldDescription VolleyGroupField = "description"
)

// VolleyGroup объединяет игроков под управлением владельца. Владелец всегда участник.
type VolleyGroup struct {
	domain.BaseAggregate[VolleyGroupID]
	name        string
	description string
	ownerID     PlayerID
	memberIDs   []PlayerID
	gameIDs     []GameID
}

// VolleyGroupProps восстанавливает группу из хранилища.
type VolleyGroupProps struct {
	ID          VolleyGroupID
	Name        string
	Description string
	OwnerID     PlayerID
	MemberIDs   []PlayerID
	GameIDs     []GameID
}

// RestoreVolleyGroup собирает группу из сохраненного состояния.
func RestoreVolleyGroup(props VolleyGroupProps) *VolleyGroup {
	g := &VolleyGroup{
		BaseAggregate: domain.NewBaseAggregate(props.ID),
		name:          props.Name,
		description:   props.Description,
		ownerID:       props.OwnerID,
		gameIDs:       slices.Clone(props.GameIDs),
	}
	g.memberIDs = []PlayerID{}
	for _, id := range append([]PlayerID{props.OwnerID}, props.MemberIDs...) {
		if !slices.Contains(g.memberIDs, id) {
			g.memberIDs = append(g.memberIDs, id)
		}
	}
	if g.gameIDs == nil {
		g.gameIDs = []GameID{}
	}
	return g
}

// NewVolleyGroupInput - данные для создания группы.
type NewVolleyGroupInput struct {
	Name        string
	Description string
	OwnerID     PlayerID
}

// NewVolleyGroup создает группу, в которой состоит только владелец.
func NewVolleyGroup(in NewVolleyGroupInput) (*VolleyGroup, domain.Notification) {
	g := RestoreVolleyGroup(VolleyGroupProps{
		ID:          NewVolleyGroupID(),
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     in.OwnerID,
	})
	g.RecordEvent(VolleyGroupCreated{
		BaseEvent: domain.NewBaseEvent(g.ID().String()),
		OwnerID:   in.OwnerID.String(),
		Name:      in.Name,
	})
	return g, g.Validate()
}

func (g *VolleyGroup) Name() string { return g.name }

func (g *VolleyGroup) Description() string { return g.description }

func (g *VolleyGroup) OwnerID() PlayerID { return g.ownerID }

// MemberIDs возвращает участников в порядке вступления, владелец первый.
func (g *VolleyGroup) MemberIDs() []PlayerID { return slices.Clone(g.memberIDs) }

func (g *VolleyGroup) GameIDs() []GameID { return slices.Clone(g.gameIDs) }

func (g *VolleyGroup) IsMember(id PlayerID) bool {
	return slices.Contains(g.memberIDs, id)
}

// Rename меняет название и описание группы.
func (g *VolleyGroup) Rename(name, description string) domain.Notification {
	g.name = name
	g.description = description
	return g.Validate()
}

// AddMember добавляет игрока в конец списка участников.
func (g *VolleyGroup) AddMember(id PlayerID) error {
	if g.IsMember(id) {
		return ErrAlreadyMember
	}
	g.memberIDs = append(g.memberIDs, id)
	g.RecordEvent(GroupMemberAdded{
		BaseEvent: domain.NewBaseEvent(g.ID().String()),
		PlayerID:  id.String(),
	})
	return nil
}

// RemoveMember исключает игрока. Владельца исключить нельзя.
func (g *VolleyGroup) RemoveMember(id PlayerID) error {
	if id == g.ownerID {
		return ErrOwnerRemoval
	}
	idx := slices.Index(g.memberIDs, id)
	if idx < 0 {
		return domain.NewEntityNotFoundError(PlayerEntity, id)
	}
	g.memberIDs = slices.Delete(g.memberIDs, idx, idx+1)
	return nil
}

// AddGame привязывает игру к группе. Повторная привязка ничего не меняет.
func (g *VolleyGroup) AddGame(id GameID) {
	if !slices.Contains(g.gameIDs, id) {
		g.gameIDs = append(g.gameIDs, id)
	}
}

func (g *VolleyGroup) RemoveGame(id GameID) error {
	idx := slices.Index(g.gameIDs, id)
	if idx < 0 {
		return domain.NewEntityNotFoundError(GameEntity, id)
	}
	g.gameIDs = slices.Delete(g.gameIDs, idx, idx+1)
	return nil
}

func (g *VolleyGroup) Validate(fields ...VolleyGroupField) domain.Notification {
	rules := []domain.Rule[VolleyGroupField]{
		{Field: VolleyGroupFieldName, Value: g.name, Tags: []string{"notblank", "min=3", "max=60"}},
		{Field: VolleyGroupFieldDescription, Value: g.description, Tags: []string{"max=280"}},
	}
	return domain.Check(rules, fields...)
}
