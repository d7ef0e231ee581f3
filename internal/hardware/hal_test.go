package hardware

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadUIDFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uid")

	if uid, ok := readUIDFile(path); ok || uid != "" {
		t.Errorf("missing file should mean no tag, got %q ok=%v", uid, ok)
	}

	if err := os.WriteFile(path, []byte("\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := readUIDFile(path); ok {
		t.Error("blank file should mean no tag")
	}

	if err := os.WriteFile(path, []byte("04A1B2C3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	uid, ok := readUIDFile(path)
	if !ok || uid != "04A1B2C3" {
		t.Errorf("got %q ok=%v, want 04A1B2C3", uid, ok)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.ButtonPin != 23 || cfg.BatteryChannel != 1 || cfg.BatteryDivider != 2.0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	// Explicit values survive.
	cfg = Config{ButtonPin: 17, BatteryDivider: 3.0}.withDefaults()
	if cfg.ButtonPin != 17 || cfg.BatteryDivider != 3.0 {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
}

func TestMockHAL(t *testing.T) {
	m := NewMock()

	if m.ButtonLevel() {
		t.Error("button should start released")
	}
	m.SetButton(true)
	if !m.ButtonLevel() {
		t.Error("SetButton not observed")
	}

	if _, ok := m.ReadUID(); ok {
		t.Error("reader should start empty")
	}
	m.PlaceTag("000001")
	if uid, ok := m.ReadUID(); !ok || uid != "000001" {
		t.Errorf("ReadUID = %q ok=%v", uid, ok)
	}
	m.RemoveTag()
	if _, ok := m.ReadUID(); ok {
		t.Error("RemoveTag not observed")
	}

	m.SetVolts(3.1)
	if v, err := m.BatteryVolts(); err != nil || v != 3.1 {
		t.Errorf("BatteryVolts = %v, %v", v, err)
	}
}
