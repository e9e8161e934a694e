package supply

import "strings"

type Status string

const (
	StatusTerminado   Status = "Terminado"
	StatusPendiente   Status = "Pendiente"
	StatusCancelado   Status = "Cancelado"
	StatusDesconocido Status = "Desconocido"
)

// Record is one supply request parsed out of a vehicle's Suministros cell.
type Record struct {
	Numero      string `json:"numero"`
	Descripcion string `json:"descripcion"`
	Estado      Status `json:"estado"`
}

// Classify maps free status text to a Status. "terminado" is checked before
// "cancelado"; anything else counts as pending.
func Classify(text string) Status {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "terminado"):
		return StatusTerminado
	case strings.Contains(lower, "cancelado"):
		return StatusCancelado
	default:
		return StatusPendiente
	}
}

// Count returns how many records carry the given status.
func Count(records []Record, status Status) int {
	n := 0
	for _, r := range records {
		if r.Estado == status {
			n++
		}
	}
	return n
}
