package sqlstore

import (
	"encoding/json"
	"fmt"

	"volleymatch/internal/volleymatch/domain/entities"
)

// Константы для сообщений об ошибках.
const (
	ErrDecodeIDs = "failed to decode id list"
	ErrParseRow  = "failed to parse stored row"
)

type playerModel struct {
	ID               string `db:"id"`
	UserID           string `db:"user_id"`
	Name             string `db:"name"`
	HasBeenEvaluated bool   `db:"has_been_evaluated"`
	AvatarKey        string `db:"avatar_key"`
	AttackStat       int    `db:"attack_stat"`
	DefenseStat      int    `db:"defense_stat"`
	SetStat          int    `db:"set_stat"`
	ServiceStat      int    `db:"service_stat"`
	BlockStat        int    `db:"block_stat"`
	ReceptionStat    int    `db:"reception_stat"`
	PositioningStat  int    `db:"positioning_stat"`
	ConsistencyStat  int    `db:"consistency_stat"`
}

var playerColumns = []string{
	"id", "user_id", "name", "has_been_evaluated", "avatar_key",
	"attack_stat", "defense_stat", "set_stat", "service_stat",
	"block_stat", "reception_stat", "positioning_stat", "consistency_stat",
}

func (m playerModel) values() []any {
	return []any{
		m.ID, m.UserID, m.Name, m.HasBeenEvaluated, m.AvatarKey,
		m.AttackStat, m.DefenseStat, m.SetStat, m.ServiceStat,
		m.BlockStat, m.ReceptionStat, m.PositioningStat, m.ConsistencyStat,
	}
}

// PlayerMapper переводит игрока в строку таблицы players и обратно.
type PlayerMapper struct{}

func (PlayerMapper) ToDomain(m playerModel) (*entities.Player, error) {
	id, err := entities.ParsePlayerID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParseRow, err)
	}
	return entities.RestorePlayer(entities.PlayerProps{
		ID:               id,
		UserID:           m.UserID,
		Name:             m.Name,
		HasBeenEvaluated: m.HasBeenEvaluated,
		AvatarKey:        m.AvatarKey,
		Stats: entities.Stats{
			Attack:      m.AttackStat,
			Defense:     m.DefenseStat,
			Set:         m.SetStat,
			Service:     m.ServiceStat,
			Block:       m.BlockStat,
			Reception:   m.ReceptionStat,
			Positioning: m.PositioningStat,
			Consistency: m.ConsistencyStat,
		},
	}), nil
}

func (PlayerMapper) ToModel(p *entities.Player) playerModel {
	stats := p.Stats()
	return playerModel{
		ID:               p.ID().String(),
		UserID:           p.UserID(),
		Name:             p.Name(),
		HasBeenEvaluated: p.HasBeenEvaluated(),
		AvatarKey:        p.AvatarKey(),
		AttackStat:       stats.Attack,
		DefenseStat:      stats.Defense,
		SetStat:          stats.Set,
		ServiceStat:      stats.Service,
		BlockStat:        stats.Block,
		ReceptionStat:    stats.Reception,
		PositioningStat:  stats.Positioning,
		ConsistencyStat:  stats.Consistency,
	}
}

type volleyGroupModel struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	OwnerID     string `db:"owner_id"`
	MemberIDs   string `db:"member_ids"`
	GameIDs     string `db:"game_ids"`
}

var volleyGroupColumns = []string{"id", "name", "description", "owner_id", "member_ids", "game_ids"}

func (m volleyGroupModel) values() []any {
	return []any{m.ID, m.Name, m.Description, m.OwnerID, m.MemberIDs, m.GameIDs}
}

// VolleyGroupMapper хранит участников и игры группы как JSON-массивы строк.
type VolleyGroupMapper struct{}

func (VolleyGroupMapper) ToDomain(m volleyGroupModel) (*entities.VolleyGroup, error) {
	id, err := entities.ParseVolleyGroupID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParseRow, err)
	}
	owner, err := entities.ParsePlayerID(m.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParseRow, err)
	}

	rawMembers, err := decodeIDs(m.MemberIDs)
	if err != nil {
		return nil, err
	}
	members, err := entities.ParsePlayerIDs(rawMembers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParseRow, err)
	}

	rawGames, err := decodeIDs(m.GameIDs)
	if err != nil {
		return nil, err
	}
	games, err := entities.ParseGameIDs(rawGames)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParseRow, err)
	}

	return entities.RestoreVolleyGroup(entities.VolleyGroupProps{
		ID:          id,
		Name:        m.Name,
		Description: m.Description,
		OwnerID:     owner,
		MemberIDs:   members,
		GameIDs:     games,
	}), nil
}

func (VolleyGroupMapper) ToModel(g *entities.VolleyGroup) volleyGroupModel {
	return volleyGroupModel{
		ID:          g.ID().String(),
		Name:        g.Name(),
		Description: g.Description(),
		OwnerID:     g.OwnerID().String(),
		MemberIDs:   encodeIDs(g.MemberIDs()),
		GameIDs:     encodeIDs(g.GameIDs()),
	}
}

func encodeIDs[ID fmt.Stringer](ids []ID) string {
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}
	// Срез строк всегда сериализуется.
	out, _ := json.Marshal(raw)
	return string(out)
}

func decodeIDs(column string) ([]string, error) {
	if column == "" {
		return []string{}, nil
	}
	var raw []string
	if err := json.Unmarshal([]byte(column), &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDecodeIDs, err)
	}
	return raw, nil
}
