package dto

import (
	"github.com/mtlprog/internfinder/internal/apply"
	"github.com/mtlprog/internfinder/internal/catalog"
	"github.com/mtlprog/internfinder/internal/domain"
	"github.com/mtlprog/internfinder/internal/selection"
)

// TagResponse is one visible skill tag.
type TagResponse struct {
	Label    string `json:"label"`
	Slug     string `json:"slug"`
	Selected bool   `json:"selected"`
}

// StateResponse represents the visitor's view-model.
type StateResponse struct {
	Education       string                  `json:"education"`
	Tags            []TagResponse           `json:"tags"`
	SelectedSkills  []string                `json:"selected_skills"`
	Skills          string                  `json:"skills"`
	Status          string                  `json:"status"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// NewStateResponse builds a StateResponse from a selection snapshot.
func NewStateResponse(state selection.State, status string, recs []domain.Recommendation) StateResponse {
	tags := make([]TagResponse, len(state.Tags))
	for i, t := range state.Tags {
		tags[i] = TagResponse{Label: t.Label, Slug: t.Slug, Selected: t.Selected}
	}
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	return StateResponse{
		Education:       state.Field,
		Tags:            tags,
		SelectedSkills:  state.Selected,
		Skills:          state.HiddenValue,
		Status:          status,
		Recommendations: recs,
	}
}

// RecommendationsResponse represents a successful POST /submit.
type RecommendationsResponse struct {
	Success         bool                    `json:"success"`
	Message         string                  `json:"message,omitempty"`
	Count           int                     `json:"count"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

// FieldResponse is one education field in the catalog.
type FieldResponse struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// CatalogResponse represents GET /api/v1/catalog.
type CatalogResponse struct {
	DefaultTags []string        `json:"default_tags"`
	Fields      []FieldResponse `json:"fields"`
}

// NewCatalogResponse builds a CatalogResponse.
func NewCatalogResponse(c *catalog.SkillCatalog) CatalogResponse {
	all := c.All()
	fields := make([]FieldResponse, len(all))
	for i, f := range all {
		fields[i] = FieldResponse{Name: f.Name, Skills: f.Skills}
	}
	return CatalogResponse{
		DefaultTags: c.DefaultTags(),
		Fields:      fields,
	}
}

// StepResponse is one step of an apply plan.
type StepResponse struct {
	Kind    string        `json:"kind"`
	Notice  *NoticeDetail `json:"notice,omitempty"`
	DelayMS int64         `json:"delay_ms,omitempty"`
	URL     string        `json:"url,omitempty"`
}

// NoticeDetail represents a notification.
type NoticeDetail struct {
	Level       string `json:"level"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
	TTLMS       int64  `json:"ttl_ms,omitempty"`
}

// ApplyPlanResponse represents POST /apply.
type ApplyPlanResponse struct {
	Title        string         `json:"title"`
	Company      string         `json:"company"`
	CompanyURL   string         `json:"company_url"`
	PortalURL    string         `json:"portal_url"`
	KnownCompany bool           `json:"known_company"`
	Confirmation string         `json:"confirmation"`
	Steps        []StepResponse `json:"steps"`
}

// NewApplyPlanResponse builds an ApplyPlanResponse.
func NewApplyPlanResponse(p apply.Plan) ApplyPlanResponse {
	steps := make([]StepResponse, len(p.Steps))
	for i, s := range p.Steps {
		steps[i] = StepResponse{
			Kind:    string(s.Kind),
			DelayMS: s.Delay.Milliseconds(),
			URL:     s.URL,
		}
		if s.Notice != nil {
			steps[i].Notice = &NoticeDetail{
				Level:       string(s.Notice.Level),
				Title:       s.Notice.Title,
				Message:     s.Notice.Message,
				Dismissible: s.Notice.Dismissible,
				TTLMS:       s.Notice.TTL.Milliseconds(),
			}
		}
	}
	return ApplyPlanResponse{
		Title:        p.Title,
		Company:      p.Company,
		CompanyURL:   p.CompanyURL,
		PortalURL:    p.PortalURL,
		KnownCompany: p.KnownCompany,
		Confirmation: p.Confirmation,
		Steps:        steps,
	}
}

// HealthResponse represents GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
