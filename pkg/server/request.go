package server

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"narrator/pkg/inference"
	"narrator/pkg/length"
	"narrator/pkg/schema"
)

// scriptReq is the body shared by /api/analyze and /api/generate. Catalog
// entries are referenced by id.
type scriptReq struct {
	UserID          string                  `json:"userId"`
	Provider        string                  `json:"provider"`
	Model           string                  `json:"model"`
	Input           string                  `json:"input"`
	Template        string                  `json:"template"`
	Language        string                  `json:"language"`
	Duration        string                  `json:"duration"`
	CustomMinutes   int                     `json:"customMinutes"`
	Perspective     schema.Perspective      `json:"perspective"`
	Persona         schema.PersonaSelection `json:"persona"`
	PersonalContext string                  `json:"personalContext"`
	LearnedExamples []string                `json:"learnedExamples"`
	Plan            *schema.Plan            `json:"plan"`
	Keys            inference.Keys          `json:"keys"`
	// Force skips the analysis cache.
	Force bool `json:"force"`
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// resolve validates body and turns it into a Request.
func (s *Server) resolve(body scriptReq) (*schema.Request, error) {
	input := strings.TrimSpace(body.Input)
	if input == "" {
		return nil, badRequest("input is required")
	}

	p, err := inference.ParseProvider(cmp.Or(body.Provider, string(inference.OpenAI)))
	if err != nil {
		return nil, badRequest(err.Error())
	}

	tmpl, ok := s.Catalog.Template(body.Template)
	if !ok {
		return nil, badRequest("unknown template " + body.Template)
	}
	lang, ok := s.Catalog.Language(cmp.Or(body.Language, "vi"))
	if !ok {
		return nil, badRequest("unknown language " + body.Language)
	}

	duration := cmp.Or(body.Duration, length.Short)
	if duration == length.Custom && body.CustomMinutes <= 0 {
		return nil, badRequest("custom duration needs customMinutes > 0")
	}

	switch body.Perspective {
	case "", schema.PerspectiveAuto, schema.PerspectiveFirst, schema.PerspectiveThird:
	default:
		return nil, badRequest("unknown perspective " + string(body.Perspective))
	}
	switch body.Persona.Mode {
	case "", schema.PersonaAuto, schema.PersonaFixed:
	case schema.PersonaCustom:
		if strings.TrimSpace(body.Persona.Name) == "" {
			return nil, badRequest("custom persona needs a name")
		}
	default:
		return nil, badRequest("unknown persona mode " + string(body.Persona.Mode))
	}

	var plan *schema.Plan
	if !body.Plan.Empty() {
		cp := body.Plan.Clone()
		plan = &cp
	}

	return &schema.Request{
		UserID:          strings.TrimSpace(body.UserID),
		Provider:        p,
		Model:           cmp.Or(strings.TrimSpace(body.Model), s.models[p]),
		Input:           input,
		Template:        tmpl,
		Language:        lang,
		DurationID:      duration,
		CustomMinutes:   body.CustomMinutes,
		Perspective:     cmp.Or(body.Perspective, schema.PerspectiveAuto),
		Persona:         body.Persona,
		PersonalContext: strings.TrimSpace(body.PersonalContext),
		LearnedExamples: body.LearnedExamples,
		Plan:            plan,
		Keys:            body.Keys.Merge(s.keys),
	}, nil
}

// digest identifies an analysis. The key itself never enters the hash input
// in clear, but different keys give different digests.
func digest(req *schema.Request) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(struct {
		Provider    inference.Provider
		Model       string
		Input       string
		Template    string
		Language    string
		Perspective schema.Perspective
		Persona     schema.PersonaSelection
	}{req.Provider, req.Model, req.Input, req.Template.ID, req.Language.ID, req.Perspective, req.Persona})
	key := sha256.Sum256([]byte(req.APIKey()))
	h.Write(key[:])
	return hex.EncodeToString(h.Sum(nil))
}
