package filter

import (
	"sort"
	"strings"

	"taller-service/internal/model"
)

// Vocabulary holds the selector values with special meaning.
type Vocabulary struct {
	// All disables the estado filter and, for areas, selects every vehicle
	// currently inside the workshop.
	All string
	// WithSupplies is the estado pseudo-filter for vehicles whose
	// Suministros cell is not blank.
	WithSupplies string
	// OutOfShopArea is the area (compared case-insensitively) excluded when
	// the area filter is All.
	OutOfShopArea string
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		All:           "all",
		WithSupplies:  "con_suministros",
		OutOfShopArea: "en funcionamiento",
	}
}

type Criteria struct {
	Search string
	Estado string
	Area   string
}

type Engine struct {
	vocab Vocabulary
}

func NewEngine(vocab Vocabulary) *Engine {
	vocab.OutOfShopArea = strings.ToLower(vocab.OutOfShopArea)
	return &Engine{vocab: vocab}
}

// Normalize fills empty estado/area selectors with the All value.
func (e *Engine) Normalize(c Criteria) Criteria {
	if c.Estado == "" {
		c.Estado = e.vocab.All
	}
	if c.Area == "" {
		c.Area = e.vocab.All
	}
	return c
}

// InShopOnly reports whether the criteria hide out-of-shop vehicles.
func (e *Engine) InShopOnly(c Criteria) bool {
	return c.Area == e.vocab.All
}

// Apply returns the vehicles matching every criterion, in input order.
// The input slice is never modified.
func (e *Engine) Apply(vehicles []model.Vehicle, c Criteria) []model.Vehicle {
	search := strings.ToLower(c.Search)

	result := make([]model.Vehicle, 0, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		if !matchesSearch(v, search) {
			continue
		}
		if !e.matchesEstado(v, c.Estado) {
			continue
		}
		if !e.matchesArea(v, c.Area) {
			continue
		}
		result = append(result, *v)
	}
	return result
}

func matchesSearch(v *model.Vehicle, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(v.RI), search) ||
		strings.Contains(strings.ToLower(v.MarcaModelo), search) ||
		strings.Contains(strings.ToLower(v.Patente), search)
}

func (e *Engine) matchesEstado(v *model.Vehicle, estado string) bool {
	switch estado {
	case e.vocab.All:
		return true
	case e.vocab.WithSupplies:
		return strings.TrimSpace(v.Suministros) != ""
	default:
		return v.Estado == estado
	}
}

func (e *Engine) matchesArea(v *model.Vehicle, area string) bool {
	if area == e.vocab.All {
		return strings.ToLower(v.AreaTaller) != e.vocab.OutOfShopArea
	}
	return v.AreaTaller == area
}

// Options returns the distinct non-empty Estado and AreaTaller values,
// sorted.
func Options(vehicles []model.Vehicle) (estados, areas []string) {
	estadoSet := make(map[string]struct{})
	areaSet := make(map[string]struct{})
	for i := range vehicles {
		if e := vehicles[i].Estado; e != "" {
			estadoSet[e] = struct{}{}
		}
		if a := vehicles[i].AreaTaller; a != "" {
			areaSet[a] = struct{}{}
		}
	}
	return sortedKeys(estadoSet), sortedKeys(areaSet)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
