package model

import (
	"encoding/json"
	"testing"
)

func TestVehicle_UnmarshalSpreadsheetRow(t *testing.T) {
	raw := `{"RI":"001","Tipo":"Camión","Marca Modelo":"Mercedes-Benz Atego 1726","Año":2019,
		"Patente":"AB123CD","Dependencia":"Obras Públicas","Area Taller":"viales",
		"Motivo":"Mantenimiento preventivo","Estado":"en proceso","Suministros":"",
		"Final_Resultado":"","Finalizado_Por":"","Finalizado_Fecha":"","Historial":"",
		"Foto_URL":"","QR_URL":""}`

	var v Vehicle
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.MarcaModelo != "Mercedes-Benz Atego 1726" {
		t.Errorf("MarcaModelo = %q", v.MarcaModelo)
	}
	if v.AreaTaller != "viales" {
		t.Errorf("AreaTaller = %q", v.AreaTaller)
	}
	if v.Anio != 2019 {
		t.Errorf("Anio = %d, want 2019", v.Anio)
	}
	if v.IsFinalized() {
		t.Error("IsFinalized = true for empty Final_Resultado")
	}
}

func TestVehicle_IsFinalized(t *testing.T) {
	v := Vehicle{FinalResultado: "  "}
	if v.IsFinalized() {
		t.Error("whitespace result should not count as finalized")
	}
	v.FinalResultado = "Reparado y entregado"
	if !v.IsFinalized() {
		t.Error("IsFinalized = false, want true")
	}
}

func TestHistoryEntry_String(t *testing.T) {
	e := HistoryEntry{Fecha: "2024-05-01", Accion: "Actualización", Detalles: "Estado: reparado"}
	if got := e.String(); got != "2024-05-01: Actualización - Estado: reparado" {
		t.Errorf("String() = %q", got)
	}
}

func TestPrincipal_Usuario(t *testing.T) {
	if got := (Principal{}).Usuario(); got != "Sistema" {
		t.Errorf("Usuario() = %q, want Sistema", got)
	}
	if got := (Principal{Email: "a@b.c"}).Usuario(); got != "a@b.c" {
		t.Errorf("Usuario() = %q", got)
	}
}
