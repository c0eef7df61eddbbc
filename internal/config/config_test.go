// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
log:
  level: debug
chain:
  loop: true
  dim: 256
  dither: true
  nodes:
    - kind: rgbi
    - kind: said
      bridge: true
      eeprom:
        daddr7: 0x51
        script: rainbow
    - kind: said
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate err=%v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("log level %q", cfg.Log.Level)
	}
	if !cfg.Chain.Loop || !cfg.Chain.Dither {
		t.Error("chain flags lost")
	}
	if cfg.Chain.Dim == nil || *cfg.Chain.Dim != 256 {
		t.Error("dim lost")
	}
	if len(cfg.Chain.Nodes) != 3 {
		t.Fatalf("nodes=%d, want 3", len(cfg.Chain.Nodes))
	}
	ee := cfg.Chain.Nodes[1].EEPROM
	if ee == nil || ee.DAddr7 == nil || *ee.DAddr7 != 0x51 || ee.Script != "rainbow" {
		t.Errorf("eeprom config %+v", ee)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("chain: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml accepted")
	}
}
