// Package catalog holds the static choices a user picks from: languages,
// duration presets, script templates and the persona-style table.
package catalog

import (
	"fmt"
	"strings"

	"narrator/pkg/length"
	"narrator/pkg/utils"
)

type Language struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Code  string `json:"code"`
	Name  string `json:"name"`
}

type Duration struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Minutes     int    `json:"minutes"`
}

// Template describes one script style. Instructions are appended verbatim at
// the end of the system prompt.
type Template struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Style        string `json:"style"`
	Instructions string `json:"instructions,omitempty"`
	DualPersona  bool   `json:"dualPersona,omitempty"`
	Narrative    bool   `json:"narrative"`
}

// Persona is a canonical first-person voice with a fixed plan.
type Persona struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Archetype      string   `json:"archetype"`
	Style          string   `json:"style"`
	CorePhilosophy string   `json:"corePhilosophy"`
	Keywords       []string `json:"keywords"`
	Sample         string   `json:"sample,omitempty"`
	Outline        []string `json:"outline"`
	Characters     []string `json:"characters"`
	PacingNote     string   `json:"pacingNote"`
}

type Catalog struct {
	Languages []Language `json:"languages"`
	Durations []Duration `json:"durations"`
	Templates []Template `json:"templates"`
	Personas  []Persona  `json:"personas"`
}

// Load reads a catalog file. Sections missing from the file keep their defaults.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	loaded, err := utils.Load[Catalog](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	if len(loaded.Languages) > 0 {
		c.Languages = loaded.Languages
	}
	if len(loaded.Durations) > 0 {
		c.Durations = loaded.Durations
	}
	if len(loaded.Templates) > 0 {
		c.Templates = loaded.Templates
	}
	if len(loaded.Personas) > 0 {
		c.Personas = loaded.Personas
	}
	return c, nil
}

func key(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (c *Catalog) Language(id string) (Language, bool) {
	for _, l := range c.Languages {
		if key(l.ID) == key(id) {
			return l, true
		}
	}
	return Language{}, false
}

func (c *Catalog) Template(id string) (Template, bool) {
	for _, t := range c.Templates {
		if key(t.ID) == key(id) {
			return t, true
		}
	}
	return Template{}, false
}

func (c *Catalog) Duration(id string) (Duration, bool) {
	for _, d := range c.Durations {
		if key(d.ID) == key(id) {
			return d, true
		}
	}
	return Duration{}, false
}

// Persona finds a canonical persona by id or name. Names match loosely so
// small spelling differences still resolve.
func (c *Catalog) Persona(name string) (Persona, bool) {
	k := key(name)
	if k == "" {
		return Persona{}, false
	}
	for _, p := range c.Personas {
		if key(p.ID) == k || key(p.Name) == k {
			return p, true
		}
	}
	for _, p := range c.Personas {
		if utils.Similarity(p.Name, name) >= 0.85 {
			return p, true
		}
	}
	return Persona{}, false
}

// Public strips style samples, which are prompt material only.
func (c *Catalog) Public() Catalog {
	out := *c
	out.Personas = make([]Persona, len(c.Personas))
	for i, p := range c.Personas {
		p.Sample = ""
		out.Personas[i] = p
	}
	return out
}

func minutes(id string) int {
	m, _ := length.PresetMinutes(id)
	return m
}
