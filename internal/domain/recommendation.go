package domain

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// DefaultStipendDisplay is shown on a card when the API sends no stipend.
const DefaultStipendDisplay = "₹25,000/month"

// Recommendation is one opportunity returned by the backend. It is treated
// as an opaque display record: every field is optional.
type Recommendation struct {
	Title           string `json:"title"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	Stipend         string `json:"stipend"`
	Duration        string `json:"duration"`
	StartDate       string `json:"start_date"`
	MatchPercentage int    `json:"match_percentage,omitempty"`
}

// StipendDisplay returns the stipend text for a card.
func (r Recommendation) StipendDisplay() string {
	if r.Stipend == "" {
		return DefaultStipendDisplay
	}
	return r.Stipend
}

// RecommendationResponse is the envelope of POST /api/recommendations.
type RecommendationResponse struct {
	Success         bool
	Message         string
	Recommendations []Recommendation
}

// ParseRecommendationResponse decodes the API envelope leniently. Only a body
// that is not valid JSON is an error.
func ParseRecommendationResponse(body []byte) (*RecommendationResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrMalformedResponse)
	}

	doc := gjson.ParseBytes(body)
	resp := &RecommendationResponse{
		Success: doc.Get("success").Bool(),
		Message: doc.Get("message").String(),
	}

	doc.Get("recommendations").ForEach(func(_, item gjson.Result) bool {
		resp.Recommendations = append(resp.Recommendations, ParseRecommendation(item))
		return true
	})

	return resp, nil
}

// ParseRecommendation reads one result, preferring the short field names and
// falling back to the raw CSV column names the backend also emits.
func ParseRecommendation(item gjson.Result) Recommendation {
	return Recommendation{
		Title:           firstString(item, "title", "internship_title"),
		Company:         firstString(item, "company", "company_name"),
		Location:        item.Get("location").String(),
		Stipend:         firstString(item, "stipend", "raw_stipend"),
		Duration:        item.Get("duration").String(),
		StartDate:       item.Get("start_date").String(),
		MatchPercentage: int(item.Get("match_percentage").Int()),
	}
}

func firstString(item gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := item.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
