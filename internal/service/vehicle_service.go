package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"taller-service/internal/config"
	"taller-service/internal/filter"
	"taller-service/internal/finalization"
	"taller-service/internal/metrics"
	"taller-service/internal/model"
	"taller-service/internal/repository"
	"taller-service/internal/supply"
	"taller-service/internal/utils"
)

// Gateway is the remote spreadsheet holding the roster of record.
type Gateway interface {
	ListVehicles(ctx context.Context) ([]model.Vehicle, error)
	GetHistory(ctx context.Context, ri string) ([]model.HistoryEntry, error)
	UpdateVehicle(ctx context.Context, ri string, updates map[string]string, usuario string) error
	FinalizeVehicle(ctx context.Context, ri, resultado, usuario string, updates map[string]string) error
	UploadImage(ctx context.Context, filename, mimeType string, data []byte) (string, error)
}

type VehicleService struct {
	gateway     Gateway
	vehicleRepo *repository.VehicleRepository
	syncRepo    *repository.SyncRunRepository
	engine      *filter.Engine
	policy      *finalization.Policy
	estados     map[string]struct{}
	areas       map[string]struct{}
	maxUpload   int64
	log         zerolog.Logger
	now         func() time.Time
}

func NewVehicleService(
	gateway Gateway,
	vehicleRepo *repository.VehicleRepository,
	syncRepo *repository.SyncRunRepository,
	engine *filter.Engine,
	policy *finalization.Policy,
	cfg *config.Config,
	log zerolog.Logger,
) *VehicleService {
	return &VehicleService{
		gateway:     gateway,
		vehicleRepo: vehicleRepo,
		syncRepo:    syncRepo,
		engine:      engine,
		policy:      policy,
		estados:     toSet(cfg.Catalog.Estados),
		areas:       toSet(cfg.Catalog.Areas),
		maxUpload:   cfg.Upload.MaxBytes,
		log:         log.With().Str("component", "vehicle_service").Logger(),
		now:         time.Now,
	}
}

// VehicleSummary is a vehicle plus the supply state derived from it.
type VehicleSummary struct {
	model.Vehicle
	HasSupplies     bool `json:"hasSupplies"`
	PendingSupplies int  `json:"pendingSupplies"`
	Finalized       bool `json:"finalized"`
}

type ListResult struct {
	Vehicles   []VehicleSummary `json:"vehicles"`
	Total      int              `json:"total"`
	Shown      int              `json:"shown"`
	Estados    []string         `json:"estados"`
	Areas      []string         `json:"areas"`
	InShopOnly bool             `json:"inShopOnly"`
	Stale      bool             `json:"stale"`
	SyncedAt   *time.Time       `json:"syncedAt,omitempty"`
}

type VehicleDetail struct {
	Vehicle      VehicleSummary        `json:"vehicle"`
	Supplies     []supply.Record       `json:"supplies"`
	Finalization finalization.Decision `json:"finalization"`
	History      []model.HistoryEntry  `json:"history"`
	Stale        bool                  `json:"stale"`
}

type FinalizationCheck struct {
	RI        string                `json:"ri"`
	Finalized bool                  `json:"finalized"`
	Decision  finalization.Decision `json:"decision"`
	Supplies  []supply.Record       `json:"supplies"`
}

type UpdateVehicleInput struct {
	Estado     *string
	Motivo     *string
	AreaTaller *string
	FotoURL    *string
	// Force allows editing a finalized vehicle.
	Force bool
}

type FinalizeInput struct {
	Resultado string
	Nota      string
	Updates   UpdateVehicleInput
}

type FinalizeResult struct {
	RI            string                `json:"ri"`
	Resultado     string                `json:"resultado"`
	FinalizadoPor string                `json:"finalizadoPor"`
	Decision      finalization.Decision `json:"decision"`
}

type UploadPhotoInput struct {
	RI          string
	Filename    string
	ContentType string
	Data        []byte
	Force       bool
}

type UploadPhotoResult struct {
	URL string `json:"url"`
	RI  string `json:"ri,omitempty"`
}

type snapshot struct {
	vehicles []model.Vehicle
	stale    bool
	syncedAt time.Time
}

func (s *VehicleService) List(ctx context.Context, criteria filter.Criteria) (*ListResult, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	criteria = s.engine.Normalize(criteria)
	visible := s.engine.Apply(snap.vehicles, criteria)
	estados, areas := filter.Options(snap.vehicles)

	summaries := make([]VehicleSummary, 0, len(visible))
	for i := range visible {
		summaries = append(summaries, summarize(visible[i]))
	}

	result := &ListResult{
		Vehicles:   summaries,
		Total:      len(snap.vehicles),
		Shown:      len(summaries),
		Estados:    estados,
		Areas:      areas,
		InShopOnly: s.engine.InShopOnly(criteria),
		Stale:      snap.stale,
	}
	if !snap.syncedAt.IsZero() {
		syncedAt := snap.syncedAt
		result.SyncedAt = &syncedAt
	}
	return result, nil
}

func (s *VehicleService) Get(ctx context.Context, ri string) (*VehicleDetail, error) {
	ri = strings.TrimSpace(ri)
	if ri == "" {
		return nil, ErrInvalidInput
	}

	var (
		snap    *snapshot
		history []model.HistoryEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.load(gctx)
		return err
	})
	g.Go(func() error {
		entries, err := s.gateway.GetHistory(gctx, ri)
		if err != nil {
			s.log.Warn().Err(err).Str("ri", ri).Msg("history unavailable")
			return nil
		}
		history = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	vehicle, ok := findByRI(snap.vehicles, ri)
	if !ok {
		return nil, ErrNotFound
	}
	if history == nil {
		history = []model.HistoryEntry{}
	}

	decision, records := s.policy.EvaluateText(vehicle.Suministros)
	return &VehicleDetail{
		Vehicle:      summarizeParsed(vehicle, records),
		Supplies:     records,
		Finalization: decision,
		History:      history,
		Stale:        snap.stale,
	}, nil
}

// FindByPlate looks a vehicle up by license plate, ignoring spaces, dashes
// and case.
func (s *VehicleService) FindByPlate(ctx context.Context, plate string) (*VehicleSummary, error) {
	wanted := utils.NormalizePlate(plate)
	if wanted == "" {
		return nil, ErrInvalidInput
	}

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snap.vehicles {
		if utils.NormalizePlate(snap.vehicles[i].Patente) == wanted {
			summary := summarize(snap.vehicles[i])
			return &summary, nil
		}
	}
	return nil, ErrNotFound
}

func (s *VehicleService) CheckFinalization(ctx context.Context, ri string) (*FinalizationCheck, error) {
	vehicle, err := s.current(ctx, ri)
	if err != nil {
		return nil, err
	}
	decision, records := s.policy.EvaluateText(vehicle.Suministros)
	return &FinalizationCheck{
		RI:        vehicle.RI,
		Finalized: vehicle.IsFinalized(),
		Decision:  decision,
		Supplies:  records,
	}, nil
}

// EvaluateSupplies parses a Suministros text without touching any vehicle.
func (s *VehicleService) EvaluateSupplies(text string) ([]supply.Record, finalization.Decision) {
	decision, records := s.policy.EvaluateText(text)
	return records, decision
}

func (s *VehicleService) Update(ctx context.Context, principal model.Principal, ri string, input UpdateVehicleInput) (*VehicleSummary, error) {
	if !principal.CanEdit() {
		return nil, ErrPermissionDenied
	}

	updates, err := s.buildUpdates(input)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	vehicle, err := s.current(ctx, ri)
	if err != nil {
		return nil, err
	}
	if vehicle.IsFinalized() && !input.Force {
		return nil, fmt.Errorf("%w: vehicle %s is finalized", ErrConflict, vehicle.RI)
	}

	if err := s.gateway.UpdateVehicle(ctx, vehicle.RI, updates, principal.Usuario()); err != nil {
		return nil, gatewayError(err)
	}

	s.log.Info().Str("ri", vehicle.RI).Str("by", principal.Email).Interface("updates", updates).Msg("vehicle updated")

	applyUpdates(&vehicle, updates)
	summary := summarize(vehicle)
	return &summary, nil
}

func (s *VehicleService) Finalize(ctx context.Context, principal model.Principal, ri string, input FinalizeInput) (*FinalizeResult, error) {
	if !principal.CanEdit() {
		return nil, ErrPermissionDenied
	}

	resultado := strings.TrimSpace(input.Resultado)
	if resultado == "" {
		return nil, fmt.Errorf("%w: resultado is required", ErrInvalidInput)
	}

	updates, err := s.buildUpdates(input.Updates)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.current(ctx, ri)
	if err != nil {
		return nil, err
	}
	if vehicle.IsFinalized() {
		return nil, fmt.Errorf("%w: vehicle %s is already finalized", ErrConflict, vehicle.RI)
	}

	decision, _ := s.policy.EvaluateText(vehicle.Suministros)
	nota := strings.TrimSpace(input.Nota)
	if decision.RequiereNota && nota == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoteRequired, decision.Motivo)
	}
	if nota != "" {
		resultado = resultado + "\nNota: " + nota
	}

	if err := s.gateway.FinalizeVehicle(ctx, vehicle.RI, resultado, principal.Usuario(), updates); err != nil {
		return nil, gatewayError(err)
	}

	metrics.FinalizationsTotal.WithLabelValues(strconv.FormatBool(decision.RequiereNota)).Inc()
	s.log.Info().
		Str("ri", vehicle.RI).
		Str("by", principal.Email).
		Int("pending_supplies", decision.Pendientes).
		Msg("vehicle finalized")

	return &FinalizeResult{
		RI:            vehicle.RI,
		Resultado:     resultado,
		FinalizadoPor: principal.Usuario(),
		Decision:      decision,
	}, nil
}

func (s *VehicleService) UploadPhoto(ctx context.Context, principal model.Principal, input UploadPhotoInput) (*UploadPhotoResult, error) {
	if !principal.CanEdit() {
		return nil, ErrPermissionDenied
	}
	if !strings.HasPrefix(strings.ToLower(input.ContentType), "image/") {
		return nil, fmt.Errorf("%w: file is not an image", ErrInvalidInput)
	}
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if s.maxUpload > 0 && int64(len(input.Data)) > s.maxUpload {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidInput, s.maxUpload)
	}

	ri := strings.TrimSpace(input.RI)
	if ri != "" {
		vehicle, err := s.current(ctx, ri)
		if err != nil {
			return nil, err
		}
		if vehicle.IsFinalized() && !input.Force {
			return nil, fmt.Errorf("%w: vehicle %s is finalized", ErrConflict, vehicle.RI)
		}
	}

	prefix := ri
	if prefix == "" {
		prefix = "vehiculo"
	}
	name := fmt.Sprintf("%s-%s%s", prefix, uuid.NewString(), strings.ToLower(filepath.Ext(input.Filename)))

	url, err := s.gateway.UploadImage(ctx, name, input.ContentType, input.Data)
	if err != nil {
		return nil, gatewayError(err)
	}

	if ri != "" {
		if err := s.gateway.UpdateVehicle(ctx, ri, map[string]string{model.FieldFotoURL: url}, principal.Usuario()); err != nil {
			return nil, gatewayError(err)
		}
	}

	return &UploadPhotoResult{URL: url, RI: ri}, nil
}

// LatestSync returns the most recent snapshot refresh attempt.
func (s *VehicleService) LatestSync(ctx context.Context) (*model.SyncRun, error) {
	run, err := s.syncRepo.Latest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return run, nil
}

// load fetches the roster from the gateway and refreshes the snapshot. When
// the gateway fails the last stored snapshot is returned instead.
func (s *VehicleService) load(ctx context.Context) (*snapshot, error) {
	run := &model.SyncRun{StartedAt: s.now()}
	vehicles, fetchErr := s.gateway.ListVehicles(ctx)
	run.FinishedAt = s.now()

	if fetchErr == nil {
		run.VehicleCount = len(vehicles)
		if err := s.vehicleRepo.ReplaceAll(ctx, vehicles, run.FinishedAt); err != nil {
			s.log.Error().Err(err).Msg("failed to store vehicle snapshot")
			run.Error = "snapshot: " + err.Error()
		}
		s.recordRun(ctx, run)
		return &snapshot{vehicles: vehicles, syncedAt: run.FinishedAt}, nil
	}

	run.Error = fetchErr.Error()
	s.recordRun(ctx, run)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	last, err := s.syncRepo.LatestSuccessful(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gatewayError(fetchErr)
		}
		return nil, err
	}
	stored, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	metrics.SnapshotFallbackTotal.Inc()
	s.log.Warn().Err(fetchErr).Time("synced_at", last.FinishedAt).Msg("gateway unavailable, serving snapshot")
	return &snapshot{vehicles: stored, stale: true, syncedAt: last.FinishedAt}, nil
}

func (s *VehicleService) recordRun(ctx context.Context, run *model.SyncRun) {
	if err := s.syncRepo.Create(ctx, run); err != nil {
		s.log.Error().Err(err).Msg("failed to record sync run")
	}
}

func (s *VehicleService) current(ctx context.Context, ri string) (model.Vehicle, error) {
	ri = strings.TrimSpace(ri)
	if ri == "" {
		return model.Vehicle{}, fmt.Errorf("%w: ri is required", ErrInvalidInput)
	}
	snap, err := s.load(ctx)
	if err != nil {
		return model.Vehicle{}, err
	}
	vehicle, ok := findByRI(snap.vehicles, ri)
	if !ok {
		return model.Vehicle{}, ErrNotFound
	}
	return vehicle, nil
}

func (s *VehicleService) buildUpdates(input UpdateVehicleInput) (map[string]string, error) {
	updates := make(map[string]string)
	if input.Estado != nil {
		estado := strings.TrimSpace(*input.Estado)
		if _, ok := s.estados[estado]; !ok {
			return nil, fmt.Errorf("%w: unknown estado %q", ErrInvalidInput, estado)
		}
		updates[model.FieldEstado] = estado
	}
	if input.AreaTaller != nil {
		area := strings.TrimSpace(*input.AreaTaller)
		if _, ok := s.areas[area]; !ok {
			return nil, fmt.Errorf("%w: unknown area %q", ErrInvalidInput, area)
		}
		updates[model.FieldAreaTaller] = area
	}
	if input.Motivo != nil {
		updates[model.FieldMotivo] = *input.Motivo
	}
	if input.FotoURL != nil {
		updates[model.FieldFotoURL] = strings.TrimSpace(*input.FotoURL)
	}
	return updates, nil
}

func applyUpdates(v *model.Vehicle, updates map[string]string) {
	for field, value := range updates {
		switch field {
		case model.FieldEstado:
			v.Estado = value
		case model.FieldAreaTaller:
			v.AreaTaller = value
		case model.FieldMotivo:
			v.Motivo = value
		case model.FieldFotoURL:
			v.FotoURL = value
		}
	}
}

func findByRI(vehicles []model.Vehicle, ri string) (model.Vehicle, bool) {
	for i := range vehicles {
		if strings.TrimSpace(vehicles[i].RI) == ri {
			return vehicles[i], true
		}
	}
	return model.Vehicle{}, false
}

func summarize(v model.Vehicle) VehicleSummary {
	return summarizeParsed(v, supply.Parse(v.Suministros))
}

func summarizeParsed(v model.Vehicle, records []supply.Record) VehicleSummary {
	return VehicleSummary{
		Vehicle:         v,
		HasSupplies:     strings.TrimSpace(v.Suministros) != "",
		PendingSupplies: supply.Count(records, supply.StatusPendiente),
		Finalized:       v.IsFinalized(),
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.TrimSpace(v)] = struct{}{}
	}
	return set
}
