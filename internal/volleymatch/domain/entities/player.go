package entities

import (
	"math"

	"volleymatch/pkg/domain"
)

// PlayerEntity - имя сущности в ошибках.
const PlayerEntity = "Player"

// Параметры расчета общего рейтинга.
const (
	DefaultStat         = 50
	OverallMax          = 100
	OverallMaxStdev     = 1.65
	OverallBalanceBonus = 2.0
)

const (
	weightAttack      = 0.18
	weightServe       = 0.12
	weightSet         = 0.12
	weightDefense     = 0.17
	weightBlock       = 0.13
	weightPositioning = 0.10
	weightReception   = 0.10
	weightConsistency = 0.08
	statCount         = 8
)

// PlayerField перечисляет проверяемые поля игрока.
type PlayerField string

const (
	PlayerFieldName        PlayerField = "name"
	PlayerFieldUserID      PlayerField = "user_id"
	PlayerFieldAttack      PlayerField = "attack_stat"
	PlayerFieldDefense     PlayerField = "defense_stat"
	PlayerFieldSet         PlayerField = "set_stat"
	PlayerFieldService     PlayerField = "service_stat"
	PlayerFieldBlock       PlayerField = "block_stat"
	PlayerFieldReception   PlayerField = "reception_stat"
	PlayerFieldPositioning PlayerField = "positioning_stat"
	PlayerFieldConsistency PlayerField = "consistency_stat"
)

// StatFields - поля характеристик.
var StatFields = []PlayerField{
	PlayerFieldAttack,
	PlayerFieldDefense,
	PlayerFieldSet,
	PlayerFieldService,
	PlayerFieldBlock,
	PlayerFieldReception,
	PlayerFieldPositioning,
	PlayerFieldConsistency,
}

// Stats - игровые характеристики по шкале 0..100.
type Stats struct {
	Attack      int `json:"attack"`
	Defense     int `json:"defense"`
	Set         int `json:"set"`
	Service     int `json:"service"`
	Block       int `json:"block"`
	Reception   int `json:"reception"`
	Positioning int `json:"positioning"`
	Consistency int `json:"consistency"`
}

// DefaultStats возвращает характеристики нового игрока.
func DefaultStats() Stats {
	return Stats{
		Attack:      DefaultStat,
		Defense:     DefaultStat,
		Set:         DefaultStat,
		Service:     DefaultStat,
		Block:       DefaultStat,
		Reception:   DefaultStat,
		Positioning: DefaultStat,
		Consistency: DefaultStat,
	}
}

// Player - корень агрегата игрока.
type Player struct {
	domain.BaseAggregate[PlayerID]
	userID           string
	name             string
	hasBeenEvaluated bool
	avatarKey        string
	stats            Stats
}

// PlayerProps восстанавливает игрока из хранилища без валидации.
type PlayerProps struct {
	ID               PlayerID
	UserID           string
	Name             string
	HasBeenEvaluated bool
	AvatarKey        string
	Stats            Stats
}

// RestorePlayer собирает игрока из сохраненного состояния.
func RestorePlayer(props PlayerProps) *Player {
	return &Player{
		BaseAggregate:    domain.NewBaseAggregate(props.ID),
		userID:           props.UserID,
		name:             props.Name,
		hasBeenEvaluated: props.HasBeenEvaluated,
		avatarKey:        props.AvatarKey,
		stats:            props.Stats,
	}
}

// NewPlayerInput - данные для создания игрока. ID необязателен.
type NewPlayerInput struct {
	ID     string
	UserID string
	Name   string
}

// NewPlayer создает игрока со стандартными характеристиками и возвращает результат валидации.
// Ошибка возвращается только для некорректного ID.
func NewPlayer(in NewPlayerInput) (*Player, domain.Notification, error) {
	id := NewPlayerID()
	if in.ID != "" {
		parsed, err := ParsePlayerID(in.ID)
		if err != nil {
			return nil, domain.Notification{}, err
		}
		id = parsed
	}

	player := RestorePlayer(PlayerProps{
		ID:     id,
		UserID: in.UserID,
		Name:   in.Name,
		Stats:  DefaultStats(),
	})
	player.RecordEvent(PlayerCreated{
		BaseEvent: domain.NewBaseEvent(id.String()),
		UserID:    in.UserID,
		Name:      in.Name,
	})
	return player, player.Validate(), nil
}

func (p *Player) UserID() string { return p.userID }

func (p *Player) Name() string { return p.name }

func (p *Player) HasBeenEvaluated() bool { return p.hasBeenEvaluated }

func (p *Player) AvatarKey() string { return p.avatarKey }

func (p *Player) Stats() Stats { return p.stats }

// ChangeName меняет имя и возвращает результат проверки имени.
func (p *Player) ChangeName(name string) domain.Notification {
	p.name = name
	return p.Validate(PlayerFieldName)
}

// ChangeAvatar сохраняет ключ изображения в хранилище.
func (p *Player) ChangeAvatar(key string) {
	p.avatarKey = key
}

// Evaluate выставляет характеристики по итогам оценки.
func (p *Player) Evaluate(stats Stats) domain.Notification {
	p.stats = stats
	p.hasBeenEvaluated = true

	outcome := p.Validate(StatFields...)
	if !outcome.HasErrors() {
		p.RecordEvent(PlayerEvaluated{
			BaseEvent: domain.NewBaseEvent(p.ID().String()),
			Overall:   p.Overall(),
		})
	}
	return outcome
}

// Validate проверяет поля fields (по умолчанию все) и накапливает все нарушения.
func (p *Player) Validate(fields ...PlayerField) domain.Notification {
	stat := func(field PlayerField, value int) domain.Rule[PlayerField] {
		return domain.Rule[PlayerField]{Field: field, Value: value, Tags: []string{"gte=0", "lte=100"}}
	}
	rules := []domain.Rule[PlayerField]{
		{Field: PlayerFieldName, Value: p.name, Tags: []string{"notblank", "min=3"}},
		{Field: PlayerFieldUserID, Value: p.userID, Tags: []string{"uuid4"}},
		stat(PlayerFieldAttack, p.stats.Attack),
		stat(PlayerFieldDefense, p.stats.Defense),
		stat(PlayerFieldSet, p.stats.Set),
		stat(PlayerFieldService, p.stats.Service),
		stat(PlayerFieldBlock, p.stats.Block),
		stat(PlayerFieldReception, p.stats.Reception),
		stat(PlayerFieldPositioning, p.stats.Positioning),
		stat(PlayerFieldConsistency, p.stats.Consistency),
	}
	return domain.Check(rules, fields...)
}

// Overall считает общий рейтинг: взвешенная сумма характеристик
// плюс бонус за равномерность, не больше OverallMax, с округлением.
func (p *Player) Overall() int {
	s := p.stats
	base := float64(s.Attack)*weightAttack +
		float64(s.Service)*weightServe +
		float64(s.Set)*weightSet +
		float64(s.Defense)*weightDefense +
		float64(s.Block)*weightBlock +
		float64(s.Positioning)*weightPositioning +
		float64(s.Reception)*weightReception +
		float64(s.Consistency)*weightConsistency

	skills := [statCount]float64{
		float64(s.Attack), float64(s.Service), float64(s.Set), float64(s.Defense),
		float64(s.Block), float64(s.Positioning), float64(s.Reception), float64(s.Consistency),
	}
	var sum float64
	for _, v := range skills {
		sum += v
	}
	mean := sum / statCount

	var variance float64
	for _, v := range skills {
		variance += (v - mean) * (v - mean)
	}
	stdev := math.Sqrt(variance / statCount)

	bonus := (1 - math.Min(1, stdev/OverallMaxStdev)) * OverallBalanceBonus
	return int(math.Round(math.Min(OverallMax, base+bonus)))
}
