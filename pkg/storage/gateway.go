package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mhayashi/salon-shift-api/pkg/models"
)

// Version is the current schema version of the persisted record. Stored
// records carrying any other version are migrated field by field on load.
const Version = "1.0.0"

// DataKey is the key-value entry holding the whole application record.
const DataKey = "salon_shift_data"

// ErrInvalidImport marks a structurally invalid import payload. Imports
// never partially apply.
var ErrInvalidImport = errors.New("import data is not a valid salon record")

// Data is the persisted shape of the application state. The selected
// staff member and other session-only state is deliberately absent.
type Data struct {
	Staff         []models.Staff        `json:"staff"`
	StoreSettings models.StoreSettings  `json:"store_settings"`
	Shifts        models.Shifts         `json:"shifts"`
	Requests      []models.ShiftRequest `json:"requests"`
	ShiftStatus   models.ShiftStatus    `json:"shift_status"`
	Version       string                `json:"version"`
}

// Patch is a partial update; nil fields keep their stored value.
type Patch struct {
	Staff         *[]models.Staff        `json:"staff,omitempty"`
	StoreSettings *models.StoreSettings  `json:"store_settings,omitempty"`
	Shifts        *models.Shifts         `json:"shifts,omitempty"`
	Requests      *[]models.ShiftRequest `json:"requests,omitempty"`
	ShiftStatus   *models.ShiftStatus    `json:"shift_status,omitempty"`
}

// Gateway persists the application record through a KeyValue store.
type Gateway struct {
	kv KeyValue
}

// NewGateway wraps a KeyValue store.
func NewGateway(kv KeyValue) *Gateway {
	return &Gateway{kv: kv}
}

// DefaultData is the record a fresh install starts from.
func DefaultData() Data {
	return Data{
		Staff:         models.SeedStaff(),
		StoreSettings: models.DefaultSettings(),
		Shifts:        models.Shifts{},
		Requests:      []models.ShiftRequest{},
		ShiftStatus:   models.StatusDraft,
		Version:       Version,
	}
}

// Load returns the stored record. An absent record yields the defaults;
// a version mismatch migrates field by field; a read or parse failure
// degrades to defaults rather than failing the application.
func (g *Gateway) Load() Data {
	raw, ok, err := g.kv.Get(DataKey)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read stored data, falling back to defaults")
		return DefaultData()
	}
	if !ok {
		return DefaultData()
	}

	var probe struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		log.Error().Err(err).Msg("Stored data is corrupt, falling back to defaults")
		return DefaultData()
	}
	if probe.Version != Version {
		return g.migrate([]byte(raw))
	}

	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		log.Error().Err(err).Msg("Stored data is corrupt, falling back to defaults")
		return DefaultData()
	}
	return normalize(data)
}

// migrate takes each top-level field from the old payload when present
// and decodable, falls back to the default otherwise, and re-stamps the
// current version.
func (g *Gateway) migrate(raw []byte) Data {
	data := DefaultData()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return data
	}

	take := func(key string, dst any) {
		if v, ok := fields[key]; ok {
			if err := json.Unmarshal(v, dst); err != nil {
				log.Warn().Str("field", key).Err(err).Msg("Skipping unreadable field during migration")
			}
		}
	}
	take("staff", &data.Staff)
	take("store_settings", &data.StoreSettings)
	take("shifts", &data.Shifts)
	take("requests", &data.Requests)
	take("shift_status", &data.ShiftStatus)
	data.Version = Version
	return normalize(data)
}

// Save merges the patch over the stored record and writes the whole
// record back, re-stamped with the current version.
func (g *Gateway) Save(patch Patch) error {
	data := g.Load()
	if patch.Staff != nil {
		data.Staff = *patch.Staff
	}
	if patch.StoreSettings != nil {
		data.StoreSettings = *patch.StoreSettings
	}
	if patch.Shifts != nil {
		data.Shifts = *patch.Shifts
	}
	if patch.Requests != nil {
		data.Requests = *patch.Requests
	}
	if patch.ShiftStatus != nil {
		data.ShiftStatus = *patch.ShiftStatus
	}
	return g.write(data)
}

func (g *Gateway) write(data Data) error {
	data.Version = Version
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}
	if err := g.kv.Set(DataKey, string(encoded)); err != nil {
		return fmt.Errorf("failed to save data: %w", err)
	}
	return nil
}

// Export serializes the current record as indented JSON.
func (g *Gateway) Export() (string, error) {
	encoded, err := json.MarshalIndent(g.Load(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode data: %w", err)
	}
	return string(encoded), nil
}

// Import parses and structurally validates a full record, then stores
// it. A structural defect rejects the whole payload.
func (g *Gateway) Import(payload string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	for _, field := range []string{"staff", "store_settings", "shifts", "requests", "shift_status"} {
		if _, ok := fields[field]; !ok {
			return fmt.Errorf("%w: missing field %q", ErrInvalidImport, field)
		}
	}

	var data Data
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	for i, staff := range data.Staff {
		if staff.ID == "" || staff.Name == "" || staff.Role == "" {
			return fmt.Errorf("%w: staff entry %d is incomplete", ErrInvalidImport, i)
		}
	}
	if data.StoreSettings.OpenTime == "" || data.StoreSettings.CloseTime == "" {
		return fmt.Errorf("%w: store settings are missing business hours", ErrInvalidImport)
	}

	return g.write(normalize(data))
}

// Clear removes the stored record; the next Load returns defaults.
func (g *Gateway) Clear() error {
	if err := g.kv.Delete(DataKey); err != nil {
		return fmt.Errorf("failed to clear stored data: %w", err)
	}
	return nil
}

// normalize replaces nil collections so callers can index and append
// without nil checks.
func normalize(data Data) Data {
	if data.Staff == nil {
		data.Staff = []models.Staff{}
	}
	if data.Shifts == nil {
		data.Shifts = models.Shifts{}
	}
	if data.Requests == nil {
		data.Requests = []models.ShiftRequest{}
	}
	if data.ShiftStatus == "" {
		data.ShiftStatus = models.StatusDraft
	}
	return data
}
