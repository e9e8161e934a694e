package finalization

import "taller-service/internal/supply"

const DefaultPendingMessage = "Hay suministros pendientes: se requiere una nota de cierre"

// Decision says whether a vehicle may be closed and whether the closing
// needs an explanatory note.
type Decision struct {
	Puede        bool   `json:"puede"`
	RequiereNota bool   `json:"requiereNota"`
	Motivo       string `json:"motivo,omitempty"`
	Pendientes   int    `json:"pendientes"`
}

// Policy never blocks on pending supplies; it only asks for a note.
type Policy struct {
	pendingMessage string
}

func NewPolicy(pendingMessage string) *Policy {
	if pendingMessage == "" {
		pendingMessage = DefaultPendingMessage
	}
	return &Policy{pendingMessage: pendingMessage}
}

func (p *Policy) Evaluate(records []supply.Record) Decision {
	pending := supply.Count(records, supply.StatusPendiente)
	if pending == 0 {
		return Decision{Puede: true}
	}

	return Decision{
		Puede:        true,
		RequiereNota: true,
		Motivo:       p.pendingMessage,
		Pendientes:   pending,
	}
}

// EvaluateText parses the Suministros text and evaluates the result.
func (p *Policy) EvaluateText(suministros string) (Decision, []supply.Record) {
	records := supply.Parse(suministros)
	return p.Evaluate(records), records
}
