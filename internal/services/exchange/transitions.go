package exchange

import (
	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

// Action - действие участника над предложением обмена
type Action string

const (
	// Действия владельца
	ActionAccept  Action = "accept"
	ActionReject  Action = "reject"
	ActionCounter Action = "counter"

	// Ответы посетителя на контрпредложение
	ActionCounterAccept Action = "counter_accept"
	ActionCounterReject Action = "counter_reject"
	ActionCounterNew    Action = "counter_new"
)

// Целевой статус каждого действия
var actionTargets = map[Action]models.ExchangeStatus{
	ActionAccept:        models.StatusAccepted,
	ActionReject:        models.StatusRejected,
	ActionCounter:       models.StatusCountered,
	ActionCounterAccept: models.StatusCounterAccepted,
	ActionCounterReject: models.StatusCounterRejected,
	ActionCounterNew:    models.StatusCountered,
}

// transitionTable - допустимые переходы (статус × действие → статус).
// Завершенные статусы accepted/rejected не имеют исходящих переходов,
// counter_accepted/counter_rejected можно открыть заново только новым контрпредложением.
var transitionTable = map[models.ExchangeStatus]map[Action]models.ExchangeStatus{
	models.StatusPending: {
		ActionAccept:  models.StatusAccepted,
		ActionReject:  models.StatusRejected,
		ActionCounter: models.StatusCountered,
	},
	models.StatusCountered: {
		ActionAccept:        models.StatusAccepted,
		ActionReject:        models.StatusRejected,
		ActionCounterAccept: models.StatusCounterAccepted,
		ActionCounterReject: models.StatusCounterRejected,
		ActionCounterNew:    models.StatusCountered,
	},
	models.StatusCounterAccepted: {
		ActionCounterNew: models.StatusCountered,
	},
	models.StatusCounterRejected: {
		ActionCounterNew: models.StatusCountered,
	},
	models.StatusAccepted: {},
	models.StatusRejected: {},
}

// Policy решает, разрешен ли переход.
// В нестрогом режиме (по умолчанию) действие применяется из любого статуса.
type Policy struct {
	Strict bool
}

// Next возвращает статус, в который переводит действие
func (p Policy) Next(from models.ExchangeStatus, action Action) (models.ExchangeStatus, error) {
	target, ok := actionTargets[action]
	if !ok {
		return "", apperr.Validation("action", "acción desconocida: "+string(action))
	}
	if !p.Strict {
		return target, nil
	}

	next, ok := transitionTable[from][action]
	if !ok {
		return "", apperr.Conflict("no se puede aplicar %q a una solicitud en estado %q", action, from)
	}
	return next, nil
}

// Allowed перечисляет действия, разрешенные из статуса в строгом режиме
func Allowed(from models.ExchangeStatus) []Action {
	var out []Action
	for _, a := range []Action{ActionAccept, ActionReject, ActionCounter, ActionCounterAccept, ActionCounterReject, ActionCounterNew} {
		if _, ok := transitionTable[from][a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// counterAction переводит действие из тела запроса (accept/reject/new) в Action
func counterAction(raw string) (Action, bool) {
	switch raw {
	case "accept":
		return ActionCounterAccept, true
	case "reject":
		return ActionCounterReject, true
	case "new":
		return ActionCounterNew, true
	}
	return "", false
}
