package schema

import (
	"strings"

	"narrator/pkg/catalog"
	"narrator/pkg/inference"
	"narrator/pkg/length"
)

type Perspective string

const (
	PerspectiveAuto  Perspective = "auto"
	PerspectiveFirst Perspective = "first"
	PerspectiveThird Perspective = "third"
)

type PersonaMode string

const (
	PersonaAuto   PersonaMode = "auto"
	PersonaFixed  PersonaMode = "fixed"
	PersonaCustom PersonaMode = "custom"
)

// PersonaSelection picks who voices a persona monologue. Name is a canonical
// persona for PersonaFixed and a free-form name for PersonaCustom.
type PersonaSelection struct {
	Mode PersonaMode `json:"mode,omitempty"`
	Name string      `json:"name,omitempty"`
}

// Request is everything one analysis or generation needs. It is built once
// per user action and never modified afterwards.
type Request struct {
	UserID          string             `json:"userId,omitempty"`
	Provider        inference.Provider `json:"provider"`
	Model           string             `json:"model,omitempty"`
	Input           string             `json:"input"`
	Template        catalog.Template   `json:"template"`
	Language        catalog.Language   `json:"language"`
	DurationID      string             `json:"duration"`
	CustomMinutes   int                `json:"customMinutes,omitempty"`
	Perspective     Perspective        `json:"perspective,omitempty"`
	Persona         PersonaSelection   `json:"persona,omitzero"`
	PersonalContext string             `json:"personalContext,omitempty"`
	LearnedExamples []string           `json:"learnedExamples,omitempty"`
	Plan            *Plan              `json:"plan,omitempty"`
	Keys            inference.Keys     `json:"-"`
}

// Length derives the target script length.
func (r *Request) Length(tol length.Tolerance) length.Target {
	return length.Calculate(r.Language.ID, r.DurationID, r.CustomMinutes, tol)
}

// APIKey returns the credential for the selected provider, or "".
func (r *Request) APIKey() string {
	return r.Keys.For(r.Provider)
}

// PersonaName is the persona the user asked for, if any.
func (r *Request) PersonaName() string {
	if r.Persona.Mode == PersonaAuto || r.Persona.Mode == "" {
		return ""
	}
	return strings.TrimSpace(r.Persona.Name)
}

// LanguageName returns the best human-readable language label for prompts.
func (r *Request) LanguageName() string {
	switch {
	case r.Language.Name != "":
		return r.Language.Name
	case r.Language.Label != "":
		return r.Language.Label
	}
	return r.Language.ID
}
