package menu

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFind(t *testing.T) {
	cat := Default()

	tests := []struct {
		name   string
		key    string
		wantID string
		wantOK bool
	}{
		{"numeric shorthand first", "1", "margherita", true},
		{"numeric shorthand last", "3", "hawaiian", true},
		{"exact id", "pepperoni", "pepperoni", true},
		{"lowercase name", "margherita", "margherita", true},
		{"mixed case name", "MarGheRita", "margherita", true},
		{"uppercase name", "HAWAIIAN", "hawaiian", true},
		{"surrounding whitespace", "  2  ", "pepperoni", true},
		{"out of range shorthand", "4", "", false},
		{"zero shorthand", "0", "", false},
		{"unknown name", "calzone", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := cat.Find(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("Find(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if ok && item.ID != tt.wantID {
				t.Errorf("Find(%q) = %s, want %s", tt.key, item.ID, tt.wantID)
			}
		})
	}
}

func TestIsShorthand(t *testing.T) {
	cat := Default()

	for _, key := range []string{"1", "2", "3", " 2 "} {
		if !cat.IsShorthand(key) {
			t.Errorf("IsShorthand(%q) = false, want true", key)
		}
	}
	for _, key := range []string{"", "0", "4", "12", "margherita"} {
		if cat.IsShorthand(key) {
			t.Errorf("IsShorthand(%q) = true, want false", key)
		}
	}
}

func TestRenderList(t *testing.T) {
	out := RenderList(Default().Items())

	for _, want := range []string{
		"1. **Margherita** - $18.99",
		"2. **Pepperoni** - $21.99",
		"3. **Hawaiian** - $22.99",
		"What would you like to order?",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderList missing %q in:\n%s", want, out)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	data := `
- id: diavola
  name: Diavola
  price: 19.50
- id: quattro
  name: Quattro Formaggi
  price: 23.00
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Items()) != 2 {
		t.Fatalf("Items() = %d, want 2", len(cat.Items()))
	}

	item, ok := cat.Find("quattro formaggi")
	if !ok || item.Price != 23.00 {
		t.Errorf("Find(quattro formaggi) = %+v, %v", item, ok)
	}
	if !cat.IsShorthand("2") {
		t.Error("IsShorthand(2) should hold for a two-item menu")
	}
	if cat.IsShorthand("3") {
		t.Error("IsShorthand(3) should not hold for a two-item menu")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load on a missing file should error")
	}
}
