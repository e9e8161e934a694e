package model

import "fmt"

// HistoryEntry is one line of a vehicle's action log as kept by the
// spreadsheet.
type HistoryEntry struct {
	Fecha    string `json:"Fecha"`
	Accion   string `json:"Accion"`
	Detalles string `json:"Detalles"`
}

func (e HistoryEntry) String() string {
	return fmt.Sprintf("%s: %s - %s", e.Fecha, e.Accion, e.Detalles)
}
