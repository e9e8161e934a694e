package model

import (
	"strings"
	"time"
)

// Vehicle is one row of the fleet roster. JSON names follow the spreadsheet
// columns; the gorm tags describe the local snapshot table.
type Vehicle struct {
	RI              string `gorm:"type:varchar(64);primaryKey" json:"RI"`
	Tipo            string `gorm:"type:varchar(128)" json:"Tipo"`
	MarcaModelo     string `gorm:"type:varchar(255)" json:"Marca Modelo"`
	Anio            int    `json:"Año"`
	Patente         string `gorm:"type:varchar(32);index" json:"Patente"`
	Dependencia     string `gorm:"type:varchar(255)" json:"Dependencia"`
	AreaTaller      string `gorm:"type:varchar(128);index" json:"Area Taller"`
	Motivo          string `gorm:"type:text" json:"Motivo"`
	Estado          string `gorm:"type:varchar(64);index" json:"Estado"`
	Suministros     string `gorm:"type:text" json:"Suministros"`
	FinalResultado  string `gorm:"type:text" json:"Final_Resultado"`
	FinalizadoPor   string `gorm:"type:varchar(255)" json:"Finalizado_Por"`
	FinalizadoFecha string `gorm:"type:varchar(64)" json:"Finalizado_Fecha"`
	Historial       string `gorm:"type:text" json:"Historial"`
	FotoURL         string `gorm:"type:text" json:"Foto_URL"`
	QRURL           string `gorm:"type:text" json:"QR_URL"`

	Seq      int       `gorm:"not null;index" json:"-"`
	SyncedAt time.Time `gorm:"not null" json:"-"`
}

func (Vehicle) TableName() string {
	return "vehicle_snapshots"
}

// IsFinalized reports whether the vehicle reached its terminal state.
func (v *Vehicle) IsFinalized() bool {
	return strings.TrimSpace(v.FinalResultado) != ""
}

// Spreadsheet column names used in update requests.
const (
	FieldEstado     = "Estado"
	FieldMotivo     = "Motivo"
	FieldAreaTaller = "Area Taller"
	FieldFotoURL    = "Foto_URL"
)
