package entities

import "volleymatch/pkg/domain"

// PlayerID идентифицирует игрока.
type PlayerID struct{ domain.UUID }

// NewPlayerID генерирует случайный идентификатор игрока.
func NewPlayerID() PlayerID { return PlayerID{domain.NewUUID()} }

// ParsePlayerID проверяет raw и возвращает идентификатор игрока.
func ParsePlayerID(raw string) (PlayerID, error) {
	id, err := domain.ParseUUID(raw)
	return PlayerID{id}, err
}

// VolleyGroupID идентифицирует группу.
type VolleyGroupID struct{ domain.UUID }

// NewVolleyGroupID генерирует случайный идентификатор группы.
func NewVolleyGroupID() VolleyGroupID { return VolleyGroupID{domain.NewUUID()} }

// ParseVolleyGroupID проверяет raw и возвращает идентификатор группы.
func ParseVolleyGroupID(raw string) (VolleyGroupID, error) {
	id, err := domain.ParseUUID(raw)
	return VolleyGroupID{id}, err
}

// GameID идентифицирует игру, привязанную к группе.
type GameID struct{ domain.UUID }

// NewGameID генерирует случайный идентификатор игры.
func NewGameID() GameID { return GameID{domain.NewUUID()} }

// ParseGameID проверяет raw и возвращает идентификатор игры.
func ParseGameID(raw string) (GameID, error) {
	id, err := domain.ParseUUID(raw)
	return GameID{id}, err
}

// ParsePlayerIDs проверяет все строки raw.
func ParsePlayerIDs(raw []string) ([]PlayerID, error) {
	return parseIDs(raw, ParsePlayerID)
}

// ParseGameIDs проверяет все строки raw.
func ParseGameIDs(raw []string) ([]GameID, error) {
	return parseIDs(raw, ParseGameID)
}

func parseIDs[ID any](raw []string, parse func(string) (ID, error)) ([]ID, error) {
	out := make([]ID, 0, len(raw))
	for _, r := range raw {
		id, err := parse(r)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
