package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"narrator/pkg/length"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	tpl, ok := c.Template(PersonaTemplateID)
	if !ok || !tpl.DualPersona {
		t.Fatalf("persona template missing or not dual-persona: %+v", tpl)
	}
	if len(c.Personas) != 2 {
		t.Fatalf("want 2 canonical personas, got %d", len(c.Personas))
	}
	for _, p := range c.Personas {
		if p.Sample == "" || len(p.Outline) == 0 || len(p.Characters) == 0 {
			t.Errorf("persona %s incomplete", p.ID)
		}
	}
	for _, d := range c.Durations {
		if d.ID == length.Custom {
			continue
		}
		if d.Minutes != length.Minutes(d.ID, 0) {
			t.Errorf("duration %s minutes %d disagree with length presets", d.ID, d.Minutes)
		}
	}
}

func TestPersonaLookup(t *testing.T) {
	c := Default()
	for _, name := range []string{"ong-tu", "Ông Tư", "  ông tư ", "Dr. Nova", "dr nova"} {
		if _, ok := c.Persona(name); !ok {
			t.Errorf("Persona(%q) not found", name)
		}
	}
	for _, name := range []string{"", "Captain Blue", "Nova Scotia Historian"} {
		if p, ok := c.Persona(name); ok {
			t.Errorf("Persona(%q) unexpectedly matched %s", name, p.ID)
		}
	}
}

func TestPublicHidesSamples(t *testing.T) {
	c := Default()
	pub := c.Public()
	for _, p := range pub.Personas {
		if p.Sample != "" {
			t.Errorf("persona %s leaked its sample", p.ID)
		}
	}
	if c.Personas[0].Sample == "" {
		t.Error("Public mutated the source catalog")
	}
}

func TestLoadOverridesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `{"templates":[{"id":"ghost","title":"Ghost stories","style":"eerie","narrative":true}]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Templates) != 1 || c.Templates[0].ID != "ghost" {
		t.Errorf("templates not overridden: %+v", c.Templates)
	}
	if len(c.Languages) == 0 || len(c.Personas) != 2 {
		t.Error("sections absent from the file should keep defaults")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
