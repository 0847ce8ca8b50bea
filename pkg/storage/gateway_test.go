package storage

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mhayashi/salon-shift-api/pkg/models"
)

func newTestGateway() (*Gateway, *MemoryKV) {
	kv := NewMemoryKV()
	return NewGateway(kv), kv
}

func TestLoadDefaults(t *testing.T) {
	g, _ := newTestGateway()

	data := g.Load()
	if len(data.Staff) != 10 {
		t.Errorf("Expected the 10 seed staff, got %d", len(data.Staff))
	}
	if data.ShiftStatus != models.StatusDraft {
		t.Errorf("Expected a draft schedule, got %q", data.ShiftStatus)
	}
	if data.Version != Version {
		t.Errorf("Expected version %q, got %q", Version, data.Version)
	}
	if data.StoreSettings.OpenTime != "09:00" || data.StoreSettings.CloseTime != "20:00" {
		t.Errorf("Unexpected default hours: %s-%s", data.StoreSettings.OpenTime, data.StoreSettings.CloseTime)
	}
}

func TestSavePatchAndReload(t *testing.T) {
	g, _ := newTestGateway()

	status := models.StatusConfirmed
	if err := g.Save(Patch{ShiftStatus: &status}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data := g.Load()
	if data.ShiftStatus != models.StatusConfirmed {
		t.Errorf("Expected the patched status to persist, got %q", data.ShiftStatus)
	}
	// Untouched fields keep their values.
	if len(data.Staff) != 10 {
		t.Errorf("Expected the roster to survive a partial save, got %d", len(data.Staff))
	}
}

func TestLoadCorruptFallsBackToDefaults(t *testing.T) {
	g, kv := newTestGateway()
	_ = kv.Set(DataKey, "{not json")

	data := g.Load()
	if len(data.Staff) != 10 || data.Version != Version {
		t.Error("Expected corrupt data to degrade to defaults")
	}
}

func TestLoadMigratesOldVersion(t *testing.T) {
	g, kv := newTestGateway()

	// An older record missing the requests field entirely.
	old := `{
		"version": "0.9.0",
		"staff": [{"id": "x", "name": "Suzuki Mei", "role": "stylist"}],
		"shifts": {"2024-01-01": {"morning": ["x"], "evening": []}},
		"shift_status": "draft"
	}`
	_ = kv.Set(DataKey, old)

	data := g.Load()
	if data.Version != Version {
		t.Errorf("Expected the version to be re-stamped to %q, got %q", Version, data.Version)
	}
	if len(data.Staff) != 1 || data.Staff[0].Name != "Suzuki Mei" {
		t.Errorf("Expected the old roster to survive migration, got %+v", data.Staff)
	}
	if len(data.Shifts["2024-01-01"].Morning) != 1 {
		t.Error("Expected the old shifts to survive migration")
	}
	// Missing fields fall back to the defaults.
	if data.Requests == nil || len(data.Requests) != 0 {
		t.Errorf("Expected empty default requests, got %+v", data.Requests)
	}
	if data.StoreSettings.OpenTime != "09:00" {
		t.Errorf("Expected default settings for the missing field, got %+v", data.StoreSettings)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	g, _ := newTestGateway()

	status := models.StatusConfirmed
	if err := g.Save(Patch{ShiftStatus: &status}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	payload, err := g.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	other, _ := newTestGateway()
	if err := other.Import(payload); err != nil {
		t.Fatalf("Import of an export failed: %v", err)
	}
	if other.Load().ShiftStatus != models.StatusConfirmed {
		t.Error("Expected the imported record to match the exported one")
	}
}

func TestImportRejectsInvalidPayloads(t *testing.T) {
	g, _ := newTestGateway()
	before, _ := json.Marshal(g.Load())

	cases := []string{
		"not json at all",
		`{"staff": []}`,
		`{"staff": [{"id": "", "name": "", "role": ""}], "store_settings": {"open_time": "09:00", "close_time": "20:00"}, "shifts": {}, "requests": [], "shift_status": "draft"}`,
		`{"staff": [], "store_settings": {}, "shifts": {}, "requests": [], "shift_status": "draft"}`,
	}
	for _, payload := range cases {
		err := g.Import(payload)
		if err == nil {
			t.Errorf("Expected rejection of %s", payload)
			continue
		}
		if !errors.Is(err, ErrInvalidImport) {
			t.Errorf("Expected ErrInvalidImport, got %v", err)
		}
	}

	// A rejected import never partially applies.
	after, _ := json.Marshal(g.Load())
	if string(before) != string(after) {
		t.Error("Expected the stored record to be untouched after rejected imports")
	}
}

func TestClear(t *testing.T) {
	g, _ := newTestGateway()

	status := models.StatusConfirmed
	_ = g.Save(Patch{ShiftStatus: &status})
	if err := g.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if g.Load().ShiftStatus != models.StatusDraft {
		t.Error("Expected defaults after clearing")
	}
}

func TestExportIsIndented(t *testing.T) {
	g, _ := newTestGateway()
	payload, err := g.Export()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(payload, "\n  ") {
		t.Error("Expected an indented export")
	}
}
