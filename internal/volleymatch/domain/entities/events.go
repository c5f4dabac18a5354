package entities

import "volleymatch/pkg/domain"

// Имена доменных событий.
const (
	PlayerCreatedEvent      = "player.created"
	PlayerEvaluatedEvent    = "player.evaluated"
	VolleyGroupCreatedEvent = "volley_group.created"
	GroupMemberAddedEvent   = "volley_group.member_added"
)

type PlayerCreated struct {
	domain.BaseEvent
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func (PlayerCreated) EventName() string { return PlayerCreatedEvent }

type PlayerEvaluated struct {
	domain.BaseEvent
	Overall int `json:"overall"`
}

func (PlayerEvaluated) EventName() string { return PlayerEvaluatedEvent }

type VolleyGroupCreated struct {
	domain.BaseEvent
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
}

func (VolleyGroupCreated) EventName() string { return VolleyGroupCreatedEvent }

type GroupMemberAdded struct {
	domain.BaseEvent
	PlayerID string `json:"player_id"`
}

func (GroupMemberAdded) EventName() string { return GroupMemberAddedEvent }
