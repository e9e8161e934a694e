package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"taller-service/internal/config"
	"taller-service/internal/metrics"
	"taller-service/internal/model"
)

// ErrRejected is returned when the script answers but refuses the action.
var ErrRejected = errors.New("gateway rejected request")

const (
	actionGetVehicles    = "getVehiculos"
	actionGetHistory     = "getHistorial"
	actionUpdateVehicle  = "updateVehiculo"
	actionFinalize       = "finalizarVehiculo"
	actionUploadImage    = "uploadImage"
	defaultUsuario       = "Sistema"
	retryBackoffInterval = 500 * time.Millisecond
)

// SheetsClient talks to the spreadsheet script that stores the fleet roster.
type SheetsClient struct {
	scriptURL  string
	maxRetries int
	httpClient *http.Client
	log        zerolog.Logger
}

func NewSheetsClient(cfg *config.Config, log zerolog.Logger) *SheetsClient {
	return &SheetsClient{
		scriptURL:  cfg.Gateway.ScriptURL,
		maxRetries: cfg.Gateway.MaxRetries,
		httpClient: &http.Client{
			Timeout: cfg.Gateway.Timeout,
		},
		log: log.With().Str("component", "sheets_client").Logger(),
	}
}

type actionReply struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	URL     string `json:"url"`
}

// ListVehicles fetches the whole roster.
func (c *SheetsClient) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	body, err := c.do(ctx, http.MethodGet, actionGetVehicles, url.Values{}, nil)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, rejection(actionGetVehicles, body, fmt.Errorf("failed to parse vehicles: %w", err))
	}

	vehicles := make([]model.Vehicle, 0, len(rows))
	for _, row := range rows {
		v := vehicleFromRow(row)
		if v.RI == "" {
			c.log.Warn().Interface("row", row).Msg("skipping row without RI")
			continue
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

// GetHistory returns the action log of one vehicle, oldest first as stored.
func (c *SheetsClient) GetHistory(ctx context.Context, ri string) ([]model.HistoryEntry, error) {
	params := url.Values{}
	params.Set("ri", strings.TrimSpace(ri))

	body, err := c.do(ctx, http.MethodGet, actionGetHistory, params, nil)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, rejection(actionGetHistory, body, fmt.Errorf("failed to parse history: %w", err))
	}

	entries := make([]model.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, model.HistoryEntry{
			Fecha:    cellString(row["Fecha"]),
			Accion:   cellString(row["Accion"]),
			Detalles: cellString(row["Detalles"]),
		})
	}
	return entries, nil
}

// UpdateVehicle sends plain column/value updates for one vehicle.
func (c *SheetsClient) UpdateVehicle(ctx context.Context, ri string, updates map[string]string, usuario string) error {
	if usuario == "" {
		usuario = defaultUsuario
	}
	params := url.Values{}
	params.Set("ri", strings.TrimSpace(ri))
	params.Set("usuario", usuario)
	appendUpdates(params, updates)

	body, err := c.do(ctx, http.MethodGet, actionUpdateVehicle, params, nil)
	if err != nil {
		return err
	}
	return expectSuccess(actionUpdateVehicle, body)
}

// FinalizeVehicle closes a vehicle with a result note, applying optional
// column updates in the same call.
func (c *SheetsClient) FinalizeVehicle(ctx context.Context, ri, resultado, usuario string, updates map[string]string) error {
	if usuario == "" {
		usuario = defaultUsuario
	}
	params := url.Values{}
	params.Set("ri", strings.TrimSpace(ri))
	params.Set("resultado", resultado)
	params.Set("usuario", usuario)
	appendUpdates(params, updates)

	body, err := c.do(ctx, http.MethodGet, actionFinalize, params, nil)
	if err != nil {
		return err
	}
	return expectSuccess(actionFinalize, body)
}

// UploadImage stores an image and returns its public URL.
func (c *SheetsClient) UploadImage(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	params := url.Values{}
	params.Set("filename", filename)

	payload, err := json.Marshal(map[string]string{
		"filename": filename,
		"mimeType": mimeType,
		"data":     base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode upload: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, actionUploadImage, params, payload)
	if err != nil {
		return "", err
	}

	var reply actionReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	if reply.URL == "" {
		return "", replyError(actionUploadImage, reply)
	}
	return reply.URL, nil
}

func (c *SheetsClient) do(ctx context.Context, method, action string, params url.Values, payload []byte) ([]byte, error) {
	if c.scriptURL == "" {
		return nil, fmt.Errorf("spreadsheet script URL is not configured")
	}

	u, err := url.Parse(c.scriptURL)
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet script URL: %w", err)
	}
	q := u.Query()
	q.Set("action", action)
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()

	start := time.Now()
	defer func() {
		metrics.GatewayLatency.WithLabelValues(action).Observe(time.Since(start).Seconds())
	}()

	var resp *http.Response
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, lastErr = c.httpClient.Do(req)
		if lastErr == nil {
			break
		}
		if attempt == c.maxRetries-1 {
			break
		}
		c.log.Warn().Err(lastErr).Str("action", action).Int("attempt", attempt+1).Msg("gateway request failed, retrying")

		select {
		case <-ctx.Done():
			metrics.GatewayRequestsTotal.WithLabelValues(action, "error").Inc()
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * retryBackoffInterval):
		}
	}
	if lastErr != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(action, "error").Inc()
		return nil, fmt.Errorf("failed to execute %s after %d attempts: %w", action, c.maxRetries, lastErr)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(action, "error").Inc()
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.GatewayRequestsTotal.WithLabelValues(action, "error").Inc()
		return nil, fmt.Errorf("spreadsheet gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	metrics.GatewayRequestsTotal.WithLabelValues(action, "ok").Inc()
	return body, nil
}

func appendUpdates(params url.Values, updates map[string]string) {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		params.Add(k, updates[k])
	}
}

func expectSuccess(action string, body []byte) error {
	var reply actionReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if reply.Success == nil || !*reply.Success {
		return replyError(action, reply)
	}
	return nil
}

// replyError also counts the refusal; do has already counted the exchange
// itself as ok.
func replyError(action string, reply actionReply) error {
	metrics.GatewayRequestsTotal.WithLabelValues(action, "rejected").Inc()
	if reply.Error != "" {
		return fmt.Errorf("%w: %s", ErrRejected, reply.Error)
	}
	return ErrRejected
}

// rejection turns an object reply such as {"success":false,"error":"..."}
// received where an array was expected into ErrRejected.
func rejection(action string, body []byte, parseErr error) error {
	var reply actionReply
	if err := json.Unmarshal(body, &reply); err == nil && (reply.Success != nil || reply.Error != "") {
		return replyError(action, reply)
	}
	return parseErr
}

func vehicleFromRow(row map[string]any) model.Vehicle {
	return model.Vehicle{
		RI:              strings.TrimSpace(cellString(row["RI"])),
		Tipo:            cellString(row["Tipo"]),
		MarcaModelo:     cellString(row["Marca Modelo"]),
		Anio:            cellInt(row["Año"]),
		Patente:         cellString(row["Patente"]),
		Dependencia:     cellString(row["Dependencia"]),
		AreaTaller:      cellString(row["Area Taller"]),
		Motivo:          cellString(row["Motivo"]),
		Estado:          cellString(row["Estado"]),
		Suministros:     cellString(row["Suministros"]),
		FinalResultado:  cellString(row["Final_Resultado"]),
		FinalizadoPor:   cellString(row["Finalizado_Por"]),
		FinalizadoFecha: cellString(row["Finalizado_Fecha"]),
		Historial:       cellString(row["Historial"]),
		FotoURL:         cellString(row["Foto_URL"]),
		QRURL:           cellString(row["QR_URL"]),
	}
}

// cellString renders a decoded spreadsheet cell as text. Empty cells come
// back as null or "", numeric cells as JSON numbers.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func cellInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
